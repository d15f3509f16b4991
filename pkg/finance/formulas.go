package finance

import (
	"github.com/iwvelando/finance-pro/pkg/constants"
	"github.com/iwvelando/finance-pro/pkg/mathutil"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// FlatFeeTaxes is the monthly tax bill under a fixed-fee regime (MEI).
func FlatFeeTaxes(flatFee, otherTaxes float64) float64 {
	return Add(flatFee, otherTaxes)
}

// RevenuePercentageTaxes is the monthly tax bill when taxes are an effective
// rate over revenue (Simples Nacional).
func RevenuePercentageTaxes(revenue, ratePct, otherTaxes float64) float64 {
	return Add(mathutil.ApplyPercentage(revenue, ratePct), otherTaxes)
}

// BreakEven holds the intermediate values of a break-even estimate.
type BreakEven struct {
	DirectCostRatio    float64
	FixedBurden        float64
	ContributionMargin float64
	Revenue            float64
}

// EstimateBreakEven estimates the revenue at which the operating result is
// zero. Direct costs are treated as proportional to revenue at the current
// ratio and every other outflow (including taxes) as a constant. When revenue
// is zero the ratio falls back to constants.FallbackDirectCostRatio.
func EstimateBreakEven(revenue, directCosts, operatingExpenses, ownerDraw, taxes float64) BreakEven {
	be := BreakEven{
		DirectCostRatio: mathutil.Ratio(directCosts, revenue, constants.FallbackDirectCostRatio),
		FixedBurden:     Add(operatingExpenses, ownerDraw, taxes),
	}
	be.ContributionMargin = 1 - be.DirectCostRatio
	if be.ContributionMargin > 0 {
		be.Revenue = be.FixedBurden / be.ContributionMargin
	}
	return be
}

// Allocation is the split of a profit across target percentages.
type Allocation struct {
	Profit      float64
	Amounts     []float64
	Unallocated float64
}

// Allocate splits max(0, result) by each percentage, each bounded to 0..100.
// Percentages are not normalised: when they sum past 100 the unallocated
// remainder is floored at 0.
func Allocate(result float64, percentages ...float64) Allocation {
	alloc := Allocation{
		Profit:  mathutil.Max(0, result),
		Amounts: make([]float64, len(percentages)),
	}
	profit := decimal.NewFromFloat(alloc.Profit)
	for i, pct := range percentages {
		share := decimal.NewFromFloat(mathutil.Clamp(pct, 0, constants.MaxPercentage)).Div(hundred)
		alloc.Amounts[i] = profit.Mul(share).InexactFloat64()
	}
	alloc.Unallocated = mathutil.Max(0, Subtract(alloc.Profit, alloc.Amounts...))
	return alloc
}
