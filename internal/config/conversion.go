package config

import (
	"github.com/iwvelando/finance-pro/internal/ledger"
	"github.com/iwvelando/finance-pro/pkg/validation"
)

// ToInputs converts the scalar part of the scenario. An unknown regime falls
// back to the default regime.
func (s ScenarioConfig) ToInputs() ledger.Inputs {
	regime, ok := ledger.ParseRegime(s.Regime)
	if !ok {
		regime = ledger.DefaultRegime
	}
	return ledger.Inputs{
		Regime:         regime,
		Revenue:        s.Revenue,
		OwnerDraw:      s.OwnerDraw,
		FlatFee:        s.FlatFee,
		RevenueTaxRate: s.RevenueTaxRate,
		OtherTaxes:     s.OtherTaxes,
		Allocation: ledger.Allocation{
			Reserve:      s.Allocation.Reserve,
			FutureTaxes:  s.Allocation.FutureTaxes,
			Reinvestment: s.Allocation.Reinvestment,
			Distribution: s.Allocation.Distribution,
		},
	}
}

// ToLedger builds the starting ledger of the scenario. Nil item lists take the
// built-in default items; invalid items are skipped (see ValidateConfiguration
// for the matching warnings).
func (s ScenarioConfig) ToLedger(opts ...ledger.Option) *ledger.Ledger {
	l := ledger.New(s.ToInputs(), nil, nil, opts...)

	if s.OperatingExpenses == nil {
		for _, e := range ledger.DefaultExpenses() {
			l.AddOperatingExpense(e.Name, e.Amount, e.Kind, e.Category)
		}
	} else {
		for _, e := range s.OperatingExpenses {
			kind, ok := ledger.ParseExpenseKind(e.Kind)
			if !ok {
				continue
			}
			l.AddOperatingExpense(e.Name, e.Amount, kind, e.Category)
		}
	}

	if s.DirectCosts == nil {
		for _, c := range ledger.DefaultDirectCosts() {
			l.AddDirectCost(c.Name, c.Amount)
		}
	} else {
		for _, c := range s.DirectCosts {
			l.AddDirectCost(c.Name, c.Amount)
		}
	}

	return l
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	s := c.Scenario
	_, regimeKnown := ledger.ParseRegime(s.Regime)

	scenario := validation.ScenarioConfig{
		Regime:         s.Regime,
		RegimeKnown:    regimeKnown,
		Revenue:        s.Revenue,
		OwnerDraw:      s.OwnerDraw,
		FlatFee:        s.FlatFee,
		RevenueTaxRate: s.RevenueTaxRate,
		OtherTaxes:     s.OtherTaxes,
		AllocationTargets: map[string]float64{
			"reserve":      s.Allocation.Reserve,
			"futureTaxes":  s.Allocation.FutureTaxes,
			"reinvestment": s.Allocation.Reinvestment,
			"distribution": s.Allocation.Distribution,
		},
	}
	for _, e := range s.OperatingExpenses {
		_, kindKnown := ledger.ParseExpenseKind(e.Kind)
		scenario.Items = append(scenario.Items, validation.ItemConfig{
			List:      "operating expense",
			Name:      e.Name,
			Amount:    e.Amount,
			Kind:      e.Kind,
			KindKnown: kindKnown,
		})
	}
	for _, d := range s.DirectCosts {
		scenario.Items = append(scenario.Items, validation.ItemConfig{
			List:      "direct cost",
			Name:      d.Name,
			Amount:    d.Amount,
			KindKnown: true,
		})
	}

	validator := validation.ConfigValidator{
		Scenario: scenario,
		Store:    validation.StoreConfig{Backend: c.Store.Backend},
	}
	return validator.ValidateAll()
}
