// Package ledger holds the editable inputs of the calculator: the tax regime,
// revenue and tax parameters, the profit allocation targets, and the two
// user-managed item lists with their mutation operations.
package ledger

import (
	"strings"

	"github.com/iwvelando/finance-pro/pkg/constants"
)

// Regime is the tax regime used to compute monthly taxes.
type Regime string

const (
	// RegimeFlatMonthlyFee pays a fixed monthly amount (MEI DAS).
	RegimeFlatMonthlyFee Regime = "mei"

	// RegimeRevenuePercentage pays an effective rate over revenue (Simples Nacional).
	RegimeRevenuePercentage Regime = "simples"
)

// DefaultRegime is used when no regime, or an unknown one, is given.
const DefaultRegime = RegimeFlatMonthlyFee

// ParseRegime accepts the canonical values and a few common aliases.
func ParseRegime(s string) (Regime, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mei", "flat", "flat-fee", "flatmonthlyfee":
		return RegimeFlatMonthlyFee, true
	case "simples", "simples-nacional", "percentage", "revenuepercentage":
		return RegimeRevenuePercentage, true
	}
	return "", false
}

// Label returns the name shown to users.
func (r Regime) Label() string {
	switch r {
	case RegimeFlatMonthlyFee:
		return "MEI"
	case RegimeRevenuePercentage:
		return "Simples Nacional"
	}
	return string(r)
}

// ExpenseKind classifies an operating expense.
type ExpenseKind string

const (
	KindFixed    ExpenseKind = "fixed"
	KindVariable ExpenseKind = "variable"
)

// ParseExpenseKind accepts English and Portuguese spellings.
func ParseExpenseKind(s string) (ExpenseKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fixed", "fixa", "fixo":
		return KindFixed, true
	case "variable", "variável", "variavel":
		return KindVariable, true
	}
	return "", false
}

// Label returns the export/display label of the kind.
func (k ExpenseKind) Label() string {
	switch k {
	case KindFixed:
		return "Fixa"
	case KindVariable:
		return "Variável"
	}
	return string(k)
}

// OperatingExpense is a monthly overhead line.
type OperatingExpense struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Amount   float64     `json:"amount"`
	Kind     ExpenseKind `json:"kind"`
	Category string      `json:"category,omitempty"`
}

// DirectCost is a monthly (averaged) cost tied to revenue-generating jobs.
type DirectCost struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// Allocation holds the four profit allocation targets in percent. They are
// independent dials and are not required to sum to 100.
type Allocation struct {
	Reserve      float64 `json:"reserve"`
	FutureTaxes  float64 `json:"futureTaxes"`
	Reinvestment float64 `json:"reinvestment"`
	Distribution float64 `json:"distribution"`
}

// Total returns the sum of the four targets.
func (a Allocation) Total() float64 {
	return a.Reserve + a.FutureTaxes + a.Reinvestment + a.Distribution
}

// Inputs is the scalar part of the ledger.
type Inputs struct {
	Regime         Regime     `json:"regime"`
	Revenue        float64    `json:"revenue"`
	OwnerDraw      float64    `json:"ownerDraw"`
	FlatFee        float64    `json:"flatFee"`
	RevenueTaxRate float64    `json:"revenueTaxRate"`
	OtherTaxes     float64    `json:"otherTaxes"`
	Allocation     Allocation `json:"allocation"`
}

// DefaultAllocation returns the default allocation targets.
func DefaultAllocation() Allocation {
	return Allocation{
		Reserve:      constants.DefaultReservePct,
		FutureTaxes:  constants.DefaultFutureTaxesPct,
		Reinvestment: constants.DefaultReinvestmentPct,
		Distribution: constants.DefaultDistributionPct,
	}
}

// DefaultInputs returns the default scalar inputs.
func DefaultInputs() Inputs {
	return Inputs{
		Regime:         DefaultRegime,
		Revenue:        constants.DefaultRevenue,
		OwnerDraw:      constants.DefaultOwnerDraw,
		FlatFee:        constants.DefaultFlatFee,
		RevenueTaxRate: constants.DefaultRevenueTaxRate,
		OtherTaxes:     constants.DefaultOtherTaxes,
		Allocation:     DefaultAllocation(),
	}
}
