// Package report derives the monthly financial picture from a ledger: totals,
// taxes, margins, the break-even estimate and the profit allocation plan.
package report

import (
	"github.com/iwvelando/finance-pro/internal/ledger"
	"github.com/iwvelando/finance-pro/pkg/adapters"
	"github.com/iwvelando/finance-pro/pkg/constants"
	"github.com/iwvelando/finance-pro/pkg/finance"
	"github.com/iwvelando/finance-pro/pkg/mathutil"
	"go.uber.org/zap"
)

// Report holds every value derived from a ledger. Percentages are raw; round
// them only for display.
type Report struct {
	Regime    ledger.Regime `json:"regime"`
	Revenue   float64       `json:"revenue"`
	OwnerDraw float64       `json:"ownerDraw"`
	Taxes     float64       `json:"taxes"`

	DirectCostsTotal       float64 `json:"directCostsTotal"`
	FixedExpensesTotal     float64 `json:"fixedExpensesTotal"`
	VariableExpensesTotal  float64 `json:"variableExpensesTotal"`
	OperatingExpensesTotal float64 `json:"operatingExpensesTotal"`

	GrossProfit        float64 `json:"grossProfit"`
	OperatingResult    float64 `json:"operatingResult"`
	GrossMarginPct     float64 `json:"grossMarginPct"`
	OperatingMarginPct float64 `json:"operatingMarginPct"`

	RevenueShare RevenueShare   `json:"revenueShare"`
	BreakEven    BreakEven      `json:"breakEven"`
	Allocation   AllocationPlan `json:"allocation"`

	Expenses    []ExpenseLine `json:"expenses"`
	DirectCosts []CostLine    `json:"directCosts"`
}

// RevenueShare is the percent of revenue taken by each outflow group.
type RevenueShare struct {
	DirectCosts       float64 `json:"directCosts"`
	FixedExpenses     float64 `json:"fixedExpenses"`
	VariableExpenses  float64 `json:"variableExpenses"`
	OperatingExpenses float64 `json:"operatingExpenses"`
}

// BreakEven is the break-even revenue estimate and its intermediate values.
//
// The estimate treats direct costs as proportional to revenue at the current
// ratio and every other outflow as fixed. Under the revenue-percentage regime
// the tax amount is the one computed at current revenue, not re-derived at
// the break-even level.
type BreakEven struct {
	DirectCostRatio    float64 `json:"directCostRatio"`
	FixedBurden        float64 `json:"fixedBurden"`
	ContributionMargin float64 `json:"contributionMargin"`
	Revenue            float64 `json:"revenue"`
}

// AllocationPlan splits the positive operating result across the four targets.
type AllocationPlan struct {
	Targets          ledger.Allocation `json:"targets"`
	Profit           float64           `json:"profit"`
	Reserve          float64           `json:"reserve"`
	FutureTaxes      float64           `json:"futureTaxes"`
	Reinvestment     float64           `json:"reinvestment"`
	Distribution     float64           `json:"distribution"`
	Unallocated      float64           `json:"unallocated"`
	PercentTotal     float64           `json:"percentTotal"`
	OverAllocated    bool              `json:"overAllocated"`
	NoPositiveProfit bool              `json:"noPositiveProfit"`
}

// ExpenseLine is an operating expense with its share of revenue.
type ExpenseLine struct {
	ledger.OperatingExpense
	RevenuePct float64 `json:"revenuePct"`
}

// CostLine is a direct cost with its share of revenue.
type CostLine struct {
	ledger.DirectCost
	RevenuePct float64 `json:"revenuePct"`
}

// PercentOfRevenue returns v as a percent of revenue, or 0 without revenue.
func (r Report) PercentOfRevenue(v float64) float64 {
	return mathutil.CalculatePercentage(v, r.Revenue)
}

// GetReport recomputes every derived value from the ledger.
func GetReport(logger *zap.Logger, l *ledger.Ledger) Report {
	if logger == nil {
		logger = zap.NewNop()
	}

	in := l.Inputs()
	expenses := l.Expenses()
	costs := l.DirectCosts()
	aggregator := finance.NewAggregator(logger)

	r := Report{
		Regime:    in.Regime,
		Revenue:   in.Revenue,
		OwnerDraw: in.OwnerDraw,
		Taxes:     Taxes(in),
	}

	r.DirectCostsTotal = aggregator.Sum(adapters.DirectCostsToFinanceItems(costs))
	r.FixedExpensesTotal, r.VariableExpensesTotal = aggregator.SplitByKind(adapters.ExpensesToFinanceItems(expenses))
	r.OperatingExpensesTotal = finance.Add(r.FixedExpensesTotal, r.VariableExpensesTotal)

	r.GrossProfit = finance.Subtract(r.Revenue, r.DirectCostsTotal)
	r.OperatingResult = finance.Subtract(r.GrossProfit, r.OperatingExpensesTotal, r.OwnerDraw, r.Taxes)
	r.GrossMarginPct = r.PercentOfRevenue(r.GrossProfit)
	r.OperatingMarginPct = r.PercentOfRevenue(r.OperatingResult)

	r.RevenueShare = RevenueShare{
		DirectCosts:       r.PercentOfRevenue(r.DirectCostsTotal),
		FixedExpenses:     r.PercentOfRevenue(r.FixedExpensesTotal),
		VariableExpenses:  r.PercentOfRevenue(r.VariableExpensesTotal),
		OperatingExpenses: r.PercentOfRevenue(r.OperatingExpensesTotal),
	}

	be := finance.EstimateBreakEven(r.Revenue, r.DirectCostsTotal, r.OperatingExpensesTotal, r.OwnerDraw, r.Taxes)
	r.BreakEven = BreakEven{
		DirectCostRatio:    be.DirectCostRatio,
		FixedBurden:        be.FixedBurden,
		ContributionMargin: be.ContributionMargin,
		Revenue:            be.Revenue,
	}

	r.Allocation = allocate(r.OperatingResult, in.Allocation)

	r.Expenses = make([]ExpenseLine, 0, len(expenses))
	for _, e := range expenses {
		r.Expenses = append(r.Expenses, ExpenseLine{OperatingExpense: e, RevenuePct: r.PercentOfRevenue(e.Amount)})
	}
	r.DirectCosts = make([]CostLine, 0, len(costs))
	for _, c := range costs {
		r.DirectCosts = append(r.DirectCosts, CostLine{DirectCost: c, RevenuePct: r.PercentOfRevenue(c.Amount)})
	}

	logger.Debug("report computed",
		zap.String("op", "report.GetReport"),
		zap.String("regime", string(r.Regime)),
		zap.Float64("operatingResult", r.OperatingResult),
		zap.Float64("breakEven", r.BreakEven.Revenue),
	)

	return r
}

// Taxes returns the monthly tax bill for the inputs' regime. Unknown regimes
// are taxed like the default regime.
func Taxes(in ledger.Inputs) float64 {
	if in.Regime == ledger.RegimeRevenuePercentage {
		return finance.RevenuePercentageTaxes(in.Revenue, in.RevenueTaxRate, in.OtherTaxes)
	}
	return finance.FlatFeeTaxes(in.FlatFee, in.OtherTaxes)
}

func allocate(operatingResult float64, targets ledger.Allocation) AllocationPlan {
	alloc := finance.Allocate(operatingResult,
		targets.Reserve, targets.FutureTaxes, targets.Reinvestment, targets.Distribution)

	return AllocationPlan{
		Targets:          targets,
		Profit:           alloc.Profit,
		Reserve:          alloc.Amounts[0],
		FutureTaxes:      alloc.Amounts[1],
		Reinvestment:     alloc.Amounts[2],
		Distribution:     alloc.Amounts[3],
		Unallocated:      alloc.Unallocated,
		PercentTotal:     targets.Total(),
		OverAllocated:    targets.Total() > constants.MaxPercentage,
		NoPositiveProfit: operatingResult <= 0,
	}
}
