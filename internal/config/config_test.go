package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/finance-pro/internal/ledger"
	"github.com/iwvelando/finance-pro/pkg/constants"
)

func TestLoadConfiguration(t *testing.T) {
	tests := []struct {
		name       string
		configPath string
		wantError  bool
	}{
		{
			name:       "Non-existent config file",
			configPath: filepath.Join(t.TempDir(), "nonexistent.yaml"),
			wantError:  true,
		},
		{
			name:       "Empty path loads defaults",
			configPath: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfiguration(tt.configPath)
			if tt.wantError {
				if err == nil {
					t.Errorf("LoadConfiguration() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("LoadConfiguration() error = %v", err)
				return
			}
			if config == nil {
				t.Errorf("LoadConfiguration() returned nil config")
			}
		})
	}
}

func TestLoadConfigurationDefaults(t *testing.T) {
	config, err := LoadConfigurationFromReader(strings.NewReader(""))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}

	if config.Output.Format != constants.OutputFormatPretty {
		t.Errorf("expected pretty output by default, got %q", config.Output.Format)
	}
	if config.Logging.Level != "info" || config.Logging.Format != "console" {
		t.Errorf("unexpected logging defaults: %+v", config.Logging)
	}

	s := config.Store
	if s.Backend != constants.StoreBackendFile || s.Key != constants.DefaultSnapshotKey {
		t.Errorf("unexpected store defaults: %+v", s)
	}
	if s.Timeout != 2*time.Second {
		t.Errorf("expected 2s store timeout, got %v", s.Timeout)
	}
	if s.Postgres.Table != constants.DefaultSnapshotTable {
		t.Errorf("expected default table %q, got %q", constants.DefaultSnapshotTable, s.Postgres.Table)
	}

	if config.Scenario.OperatingExpenses != nil || config.Scenario.DirectCosts != nil {
		t.Error("absent item lists should stay nil")
	}
	if in := config.Scenario.ToInputs(); in != ledger.DefaultInputs() {
		t.Errorf("default scenario inputs = %+v, expected %+v", in, ledger.DefaultInputs())
	}
	if warnings := config.ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("default configuration produced warnings: %v", warnings)
	}
}

func TestLoadConfigurationExample(t *testing.T) {
	yaml := `
logging:
  level: debug
  format: json
output:
  format: csv
store:
  backend: redis
  timeout: 500ms
  redis:
    address: cache:6379
    db: 2
scenario:
  regime: simples
  revenue: 22000
  ownerDraw: 4000
  revenueTaxRate: 8.5
  allocation:
    reserve: 15
    futureTaxes: 5
    reinvestment: 20
    distribution: 30
  operatingExpenses:
    - name: Contador
      amount: 350
      kind: fixa
      category: Serviços
    - name: Anúncios
      amount: 600
      kind: variable
  directCosts: []
`
	config, err := LoadConfigurationFromReader(strings.NewReader(yaml))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}

	if config.Logging.Level != "debug" || config.Logging.Format != "json" || config.Output.Format != "csv" {
		t.Errorf("unexpected logging/output: %+v %+v", config.Logging, config.Output)
	}
	if config.Store.Backend != "redis" || config.Store.Redis.Address != "cache:6379" || config.Store.Redis.DB != 2 {
		t.Errorf("unexpected store: %+v", config.Store)
	}
	if config.Store.Timeout != 500*time.Millisecond {
		t.Errorf("expected 500ms timeout, got %v", config.Store.Timeout)
	}

	l := config.Scenario.ToLedger()
	in := l.Inputs()
	if in.Regime != ledger.RegimeRevenuePercentage || in.Revenue != 22000 || in.RevenueTaxRate != 8.5 {
		t.Errorf("unexpected inputs: %+v", in)
	}
	if in.FlatFee != constants.DefaultFlatFee {
		t.Errorf("absent flatFee should default, got %v", in.FlatFee)
	}
	if in.Allocation != (ledger.Allocation{Reserve: 15, FutureTaxes: 5, Reinvestment: 20, Distribution: 30}) {
		t.Errorf("unexpected allocation: %+v", in.Allocation)
	}

	expenses := l.Expenses()
	if len(expenses) != 2 {
		t.Fatalf("expected 2 expenses, got %+v", expenses)
	}
	if expenses[0].Name != "Contador" || expenses[0].Kind != ledger.KindFixed || expenses[0].Category != "Serviços" {
		t.Errorf("unexpected first expense: %+v", expenses[0])
	}
	if expenses[1].Kind != ledger.KindVariable {
		t.Errorf("unexpected second expense: %+v", expenses[1])
	}
	if len(l.DirectCosts()) != 0 {
		t.Errorf("explicitly empty direct costs should not take defaults, got %+v", l.DirectCosts())
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("FINANCE_PRO_STORE_BACKEND", "memory")
	t.Setenv("FINANCE_PRO_SCENARIO_REVENUE", "9000")

	config, err := LoadConfigurationFromReader(strings.NewReader("store:\n  backend: redis\n"))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}
	if config.Store.Backend != "memory" {
		t.Errorf("expected env to override backend, got %q", config.Store.Backend)
	}
	if config.Scenario.Revenue != 9000 {
		t.Errorf("expected env to override revenue, got %v", config.Scenario.Revenue)
	}
}

func TestLoadConfigurationDotEnv(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("output:\n  format: json\n"), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("FINANCE_PRO_STORE_KEY=from_dotenv\n"), 0600); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("FINANCE_PRO_STORE_KEY") })

	config, err := LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if config.Output.Format != "json" {
		t.Errorf("expected json output, got %q", config.Output.Format)
	}
	if config.Store.Key != "from_dotenv" {
		t.Errorf("expected key from .env, got %q", config.Store.Key)
	}
}

func TestToLedgerDefaultItems(t *testing.T) {
	l := ScenarioConfig{Regime: "mei", Revenue: 1000}.ToLedger()

	if len(l.Expenses()) != 3 || len(l.DirectCosts()) != 2 {
		t.Fatalf("nil lists should take the default items, got %d and %d", len(l.Expenses()), len(l.DirectCosts()))
	}
	if l.Expenses()[0].Name != "Adobe CC" || l.DirectCosts()[1].Amount != 800 {
		t.Error("unexpected default items")
	}
}

func TestToLedgerSkipsInvalidItems(t *testing.T) {
	s := ScenarioConfig{
		Regime: "unknown",
		OperatingExpenses: []ExpenseConfig{
			{Name: "Rent", Amount: 900, Kind: "fixed"},
			{Name: "", Amount: 10, Kind: "fixed"},
			{Name: "Mystery", Amount: 10, Kind: "sometimes"},
		},
		DirectCosts: []DirectCostConfig{{Name: "Stock", Amount: 0}},
	}

	l := s.ToLedger()
	if l.Inputs().Regime != ledger.DefaultRegime {
		t.Errorf("unknown regime should fall back, got %q", l.Inputs().Regime)
	}
	if len(l.Expenses()) != 1 || len(l.DirectCosts()) != 0 {
		t.Errorf("invalid items should be skipped, got %+v and %+v", l.Expenses(), l.DirectCosts())
	}

	config := Configuration{Scenario: s}
	warnings := config.ValidateConfiguration()
	for _, want := range []string{"Unknown regime", "Skipping operating expense ''", "unknown kind 'sometimes'", "Skipping direct cost 'Stock'"} {
		found := false
		for _, w := range warnings {
			if strings.Contains(w, want) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected a warning containing %q, got %v", want, warnings)
		}
	}
}
