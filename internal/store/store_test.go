package store

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/iwvelando/finance-pro/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const testKey = "financeapp_pro_state"

// exerciseStore runs the behaviour every backend shares.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Load(ctx, testKey)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Save(ctx, testKey, []byte(`{"revenue":1}`)))
	got, err := s.Load(ctx, testKey)
	require.NoError(t, err)
	assert.Equal(t, `{"revenue":1}`, string(got))

	require.NoError(t, s.Save(ctx, testKey, []byte(`{"revenue":2}`)))
	got, err = s.Load(ctx, testKey)
	require.NoError(t, err)
	assert.Equal(t, `{"revenue":2}`, string(got), "save should overwrite")

	_, err = s.Load(ctx, "other")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	exerciseStore(t, s)

	// Stored values are copies.
	data := []byte("abc")
	require.NoError(t, s.Save(context.Background(), "k", data))
	data[0] = 'x'
	got, err := s.Load(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestFileStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	s := NewFileStore(dir, zaptest.NewLogger(t))
	exerciseStore(t, s)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files should not be left behind")
	assert.Equal(t, testKey+".json", entries[0].Name())
	assert.NoError(t, s.Close())
}

func TestFileStoreRejectsPathKeys(t *testing.T) {
	s := NewFileStore(t.TempDir(), nil)
	for _, key := range []string{"", "..", "a/b", `a\b`} {
		assert.Error(t, s.Save(context.Background(), key, []byte("x")), "key %q", key)
		_, err := s.Load(context.Background(), key)
		assert.Error(t, err, "key %q", key)
	}
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStore(client, zaptest.NewLogger(t))
	defer s.Close()

	require.NoError(t, s.Ping(context.Background()))
	exerciseStore(t, s)

	raw, err := mr.Get(testKey)
	require.NoError(t, err)
	assert.Equal(t, `{"revenue":2}`, raw)
	assert.Zero(t, mr.TTL(testKey), "snapshots must not expire")
}

func TestRedisStoreUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStore(client, nil)
	defer s.Close()

	mr.Close()
	assert.Error(t, s.Save(context.Background(), testKey, []byte("x")))
	_, err := s.Load(context.Background(), testKey)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestPostgresStore(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	s, err := NewPostgresStore(db, "", zaptest.NewLogger(t))
	require.NoError(t, err)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS snapshots")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, s.EnsureSchema(ctx))

	selectQuery := regexp.QuoteMeta("SELECT data FROM snapshots WHERE key = $1")
	mock.ExpectQuery(selectQuery).
		WithArgs(testKey).
		WillReturnRows(sqlmock.NewRows([]string{"data"}))
	_, err = s.Load(ctx, testKey)
	assert.ErrorIs(t, err, ErrNotFound)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO snapshots (key, data, updated_at) VALUES ($1, $2, NOW())")).
		WithArgs(testKey, `{"revenue":1}`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.Save(ctx, testKey, []byte(`{"revenue":1}`)))

	mock.ExpectQuery(selectQuery).
		WithArgs(testKey).
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow(`{"revenue":1}`))
	got, err := s.Load(ctx, testKey)
	require.NoError(t, err)
	assert.Equal(t, `{"revenue":1}`, string(got))

	mock.ExpectClose()
	require.NoError(t, s.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_, err = NewPostgresStore(db, "snapshots; DROP TABLE users", nil)
	assert.Error(t, err)

	s, err := NewPostgresStore(db, "finance_state", nil)
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO finance_state")).
		WillReturnError(assert.AnError)
	err = s.Save(context.Background(), testKey, []byte("x"))
	assert.ErrorIs(t, err, assert.AnError)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT data FROM finance_state")).
		WillReturnError(assert.AnError)
	_, err = s.Load(context.Background(), testKey)
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	s, err := New(ctx, config.StoreConfig{Backend: "memory"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = New(ctx, config.StoreConfig{Path: t.TempDir()}, nil)
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	mr := miniredis.RunT(t)
	s, err = New(ctx, config.StoreConfig{Backend: "redis", Redis: config.RedisConfig{Address: mr.Addr()}}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.IsType(t, &RedisStore{}, s)
	s.Close()

	_, err = New(ctx, config.StoreConfig{Backend: "etcd"}, nil)
	assert.Error(t, err)
}
