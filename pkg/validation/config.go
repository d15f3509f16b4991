// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"
	"sort"

	"github.com/iwvelando/finance-pro/pkg/constants"
)

// ScenarioConfig is the subset of a configured scenario that produces warnings.
type ScenarioConfig struct {
	Regime            string
	RegimeKnown       bool
	Revenue           float64
	OwnerDraw         float64
	FlatFee           float64
	RevenueTaxRate    float64
	OtherTaxes        float64
	AllocationTargets map[string]float64
	Items             []ItemConfig
}

// ItemConfig describes one configured expense or direct cost.
type ItemConfig struct {
	List      string
	Name      string
	Amount    float64
	Kind      string
	KindKnown bool
}

// StoreConfig describes the configured snapshot store.
type StoreConfig struct {
	Backend string
}

// ConfigValidator collects warnings about a configuration. Warnings never
// stop the program: anything invalid falls back to defaults or is skipped.
type ConfigValidator struct {
	Scenario ScenarioConfig
	Store    StoreConfig
}

// ValidateAll validates the entire configuration and returns warnings
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string

	s := cv.Scenario
	if !s.RegimeKnown {
		warnings = append(warnings, fmt.Sprintf("Unknown regime '%s' - using the default regime", s.Regime))
	}

	for _, field := range []struct {
		name  string
		value float64
	}{
		{"revenue", s.Revenue},
		{"ownerDraw", s.OwnerDraw},
		{"flatFee", s.FlatFee},
		{"otherTaxes", s.OtherTaxes},
	} {
		if err := ValidateNonNegative(field.name, field.value); err != nil {
			warnings = append(warnings, err.Error())
		}
	}

	if s.Revenue == 0 {
		warnings = append(warnings, "Revenue is zero - margins are reported as 0 and break-even assumes a 50% direct cost ratio")
	}

	if err := ValidatePercentage("revenueTaxRate", s.RevenueTaxRate); err != nil {
		warnings = append(warnings, err.Error())
	}

	total := 0.0
	for _, name := range sortedKeys(s.AllocationTargets) {
		pct := s.AllocationTargets[name]
		if err := ValidatePercentage("allocation."+name, pct); err != nil {
			warnings = append(warnings, err.Error())
		}
		total += pct
	}
	if total > constants.MaxPercentage {
		warnings = append(warnings, fmt.Sprintf("Allocation targets sum to %.1f%% - buckets exceed the profit and nothing is left unallocated", total))
	}

	for _, item := range s.Items {
		if err := ValidateItem(item.Name, item.Amount); err != nil {
			warnings = append(warnings, fmt.Sprintf("Skipping %s '%s': %v", item.List, item.Name, err))
			continue
		}
		if !item.KindKnown {
			warnings = append(warnings, fmt.Sprintf("Skipping %s '%s': unknown kind '%s'", item.List, item.Name, item.Kind))
		}
	}

	switch cv.Store.Backend {
	case "", constants.StoreBackendFile, constants.StoreBackendRedis, constants.StoreBackendPostgres, constants.StoreBackendMemory:
	default:
		warnings = append(warnings, fmt.Sprintf("Unknown store backend '%s' - snapshots are kept in memory only", cv.Store.Backend))
	}

	return warnings
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
