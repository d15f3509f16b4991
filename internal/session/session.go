// Package session owns the single live ledger. Every accepted mutation is
// persisted to the snapshot store before the call returns; persistence
// failures are logged and counted but never reported to the caller.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/iwvelando/finance-pro/internal/ledger"
	"github.com/iwvelando/finance-pro/internal/metrics"
	"github.com/iwvelando/finance-pro/internal/report"
	"github.com/iwvelando/finance-pro/internal/snapshot"
	"github.com/iwvelando/finance-pro/internal/store"
	"github.com/iwvelando/finance-pro/pkg/constants"
	"go.uber.org/zap"
)

// Session serialises access to a ledger. It is safe for concurrent use.
type Session struct {
	mu       sync.Mutex
	ledger   *ledger.Ledger
	fallback *ledger.Ledger

	store   store.Store
	key     string
	timeout time.Duration
	logger  *zap.Logger
}

// State is a consistent view of the ledger and its report.
type State struct {
	Inputs      ledger.Inputs             `json:"inputs"`
	Expenses    []ledger.OperatingExpense `json:"operatingExpenses"`
	DirectCosts []ledger.DirectCost       `json:"directCosts"`
	Report      report.Report             `json:"report"`
}

// Option configures a Session.
type Option func(*Session)

// WithTimeout bounds each load and save.
func WithTimeout(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// Open loads the snapshot stored under key. When there is none, or it cannot
// be read, the session starts from a copy of fallback. A nil store disables
// persistence.
func Open(ctx context.Context, st store.Store, key string, fallback *ledger.Ledger, logger *zap.Logger, opts ...Option) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	if fallback == nil {
		fallback = ledger.Default()
	}
	if key == "" {
		key = constants.DefaultSnapshotKey
	}

	s := &Session{
		fallback: fallback.Clone(),
		store:    st,
		key:      key,
		timeout:  constants.DefaultStoreTimeoutSeconds * time.Second,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ledger = s.load(ctx)
	return s
}

func (s *Session) load(ctx context.Context) *ledger.Ledger {
	if s.store == nil {
		return s.fallback.Clone()
	}

	loadCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	data, err := s.store.Load(loadCtx, s.key)
	switch {
	case errors.Is(err, store.ErrNotFound):
		metrics.SnapshotLoads.WithLabelValues(metrics.ResultNotFound).Inc()
		s.logger.Info("No snapshot stored, starting from the default scenario",
			zap.String("op", "session.Open"),
			zap.String("key", s.key),
		)
		return s.fallback.Clone()
	case err != nil:
		metrics.SnapshotLoads.WithLabelValues(metrics.ResultFailure).Inc()
		s.logger.Error("Failed to load snapshot, starting from the default scenario",
			zap.String("op", "session.Open"),
			zap.String("key", s.key),
			zap.Error(err),
		)
		return s.fallback.Clone()
	}

	l, err := snapshot.Parse(data, s.logger)
	if err != nil {
		metrics.SnapshotLoads.WithLabelValues(metrics.ResultFallback).Inc()
		s.logger.Warn("Unreadable snapshot, starting from the default scenario",
			zap.String("op", "session.Open"),
			zap.String("key", s.key),
			zap.Error(err),
		)
		return s.fallback.Clone()
	}

	metrics.SnapshotLoads.WithLabelValues(metrics.ResultSuccess).Inc()
	s.logger.Debug("Snapshot loaded",
		zap.String("op", "session.Open"),
		zap.String("key", s.key),
		zap.Int("expenses", len(l.Expenses())),
		zap.Int("directCosts", len(l.DirectCosts())),
	)
	return l
}

// persist saves the current ledger. Called with s.mu held.
func (s *Session) persist() {
	if s.store == nil {
		return
	}

	data, err := snapshot.Encode(s.ledger)
	if err != nil {
		metrics.SnapshotSaves.WithLabelValues(metrics.ResultFailure).Inc()
		s.logger.Error("Failed to encode snapshot",
			zap.String("op", "session.persist"),
			zap.Error(err),
		)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.store.Save(ctx, s.key, data); err != nil {
		metrics.SnapshotSaves.WithLabelValues(metrics.ResultFailure).Inc()
		s.logger.Error("Failed to save snapshot",
			zap.String("op", "session.persist"),
			zap.String("key", s.key),
			zap.Error(err),
		)
		return
	}
	metrics.SnapshotSaves.WithLabelValues(metrics.ResultSuccess).Inc()
}

// Update applies fn to the ledger under the session lock. When fn reports
// true the new state is persisted.
func (s *Session) Update(op string, fn func(l *ledger.Ledger) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	accepted := fn(s.ledger)
	metrics.ObserveMutation(op, accepted)
	if !accepted {
		s.logger.Debug("Mutation rejected", zap.String("op", op))
		return false
	}
	s.persist()
	return true
}

// State returns the ledger contents and the report computed from them.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Inputs:      s.ledger.Inputs(),
		Expenses:    s.ledger.Expenses(),
		DirectCosts: s.ledger.DirectCosts(),
		Report:      report.GetReport(s.logger, s.ledger),
	}
}

// Report recomputes the report from the current ledger.
func (s *Session) Report() report.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return report.GetReport(s.logger, s.ledger)
}

// Ledger returns a copy of the current ledger.
func (s *Session) Ledger() *ledger.Ledger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Clone()
}

// Expenses returns the operating expenses in display order.
func (s *Session) Expenses() []ledger.OperatingExpense {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Expenses()
}

// Reset restores the starting scenario and persists it.
func (s *Session) Reset() {
	s.Update("session.Reset", func(*ledger.Ledger) bool {
		s.ledger = s.fallback.Clone()
		return true
	})
}

// AddOperatingExpense appends an operating expense.
func (s *Session) AddOperatingExpense(name string, amount float64, kind ledger.ExpenseKind, category string) (ledger.OperatingExpense, bool) {
	var item ledger.OperatingExpense
	ok := s.Update("ledger.AddOperatingExpense", func(l *ledger.Ledger) bool {
		var accepted bool
		item, accepted = l.AddOperatingExpense(name, amount, kind, category)
		return accepted
	})
	return item, ok
}

// EditOperatingExpense replaces an operating expense in place.
func (s *Session) EditOperatingExpense(id, name string, amount float64, kind ledger.ExpenseKind, category string) bool {
	return s.Update("ledger.EditOperatingExpense", func(l *ledger.Ledger) bool {
		return l.EditOperatingExpense(id, name, amount, kind, category)
	})
}

// RemoveOperatingExpense deletes an operating expense.
func (s *Session) RemoveOperatingExpense(id string) bool {
	return s.Update("ledger.RemoveOperatingExpense", func(l *ledger.Ledger) bool {
		return l.RemoveOperatingExpense(id)
	})
}

// AddDirectCost appends a direct cost.
func (s *Session) AddDirectCost(name string, amount float64) (ledger.DirectCost, bool) {
	var item ledger.DirectCost
	ok := s.Update("ledger.AddDirectCost", func(l *ledger.Ledger) bool {
		var accepted bool
		item, accepted = l.AddDirectCost(name, amount)
		return accepted
	})
	return item, ok
}

// EditDirectCost replaces a direct cost in place.
func (s *Session) EditDirectCost(id, name string, amount float64) bool {
	return s.Update("ledger.EditDirectCost", func(l *ledger.Ledger) bool {
		return l.EditDirectCost(id, name, amount)
	})
}

// RemoveDirectCost deletes a direct cost.
func (s *Session) RemoveDirectCost(id string) bool {
	return s.Update("ledger.RemoveDirectCost", func(l *ledger.Ledger) bool {
		return l.RemoveDirectCost(id)
	})
}

// SetInputs replaces every scalar input at once. Unknown regimes are rejected
// and leave all inputs unchanged.
func (s *Session) SetInputs(in ledger.Inputs) bool {
	return s.Update("ledger.SetInputs", func(l *ledger.Ledger) bool {
		regime, ok := ledger.ParseRegime(string(in.Regime))
		if !ok {
			return false
		}
		l.SetRegime(regime)
		l.SetRevenue(in.Revenue)
		l.SetOwnerDraw(in.OwnerDraw)
		l.SetFlatFee(in.FlatFee)
		l.SetRevenueTaxRate(in.RevenueTaxRate)
		l.SetOtherTaxes(in.OtherTaxes)
		l.SetAllocation(in.Allocation)
		return true
	})
}
