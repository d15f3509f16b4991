package finance

import (
	"math"
	"testing"
)

func TestTaxes(t *testing.T) {
	tests := []struct {
		name     string
		compute  func() float64
		expected float64
	}{
		{"MEI flat fee", func() float64 { return FlatFeeTaxes(75, 0) }, 75},
		{"MEI with other taxes", func() float64 { return FlatFeeTaxes(75, 30.5) }, 105.5},
		{"Simples 6%", func() float64 { return RevenuePercentageTaxes(15000, 6, 0) }, 900},
		{"Simples with other taxes", func() float64 { return RevenuePercentageTaxes(15000, 6, 100) }, 1000},
		{"Simples zero revenue", func() float64 { return RevenuePercentageTaxes(0, 6, 12) }, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.compute(); math.Abs(got-tt.expected) > 0.001 {
				t.Errorf("got %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestEstimateBreakEven(t *testing.T) {
	tests := []struct {
		name              string
		revenue           float64
		directCosts       float64
		operatingExpenses float64
		ownerDraw         float64
		taxes             float64
		expectedRatio     float64
		expectedRevenue   float64
	}{
		{
			name:              "Default scenario",
			revenue:           15000,
			directCosts:       860,
			operatingExpenses: 1544.9,
			ownerDraw:         2500,
			taxes:             75,
			expectedRatio:     860.0 / 15000.0,
			expectedRevenue:   4119.9 / (1 - 860.0/15000.0),
		},
		{
			name:              "Zero revenue falls back to half",
			revenue:           0,
			directCosts:       860,
			operatingExpenses: 1000,
			ownerDraw:         500,
			taxes:             0,
			expectedRatio:     0.5,
			expectedRevenue:   3000,
		},
		{
			name:              "Direct costs exceed revenue",
			revenue:           1000,
			directCosts:       1500,
			operatingExpenses: 100,
			expectedRatio:     1.5,
			expectedRevenue:   0,
		},
		{
			name:              "Direct costs equal revenue",
			revenue:           1000,
			directCosts:       1000,
			operatingExpenses: 100,
			expectedRatio:     1,
			expectedRevenue:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			be := EstimateBreakEven(tt.revenue, tt.directCosts, tt.operatingExpenses, tt.ownerDraw, tt.taxes)
			if math.Abs(be.DirectCostRatio-tt.expectedRatio) > 1e-9 {
				t.Errorf("DirectCostRatio = %v, expected %v", be.DirectCostRatio, tt.expectedRatio)
			}
			if math.Abs(be.Revenue-tt.expectedRevenue) > 0.001 {
				t.Errorf("Revenue = %v, expected %v", be.Revenue, tt.expectedRevenue)
			}
		})
	}
}

func TestAllocate(t *testing.T) {
	t.Run("Default targets", func(t *testing.T) {
		alloc := Allocate(1000, 10, 5, 10, 20)
		expected := []float64{100, 50, 100, 200}
		for i := range expected {
			if math.Abs(alloc.Amounts[i]-expected[i]) > 0.001 {
				t.Errorf("bucket %d = %v, expected %v", i, alloc.Amounts[i], expected[i])
			}
		}
		if math.Abs(alloc.Unallocated-550) > 0.001 {
			t.Errorf("Unallocated = %v, expected 550", alloc.Unallocated)
		}
	})

	t.Run("Over-allocation floors unallocated", func(t *testing.T) {
		alloc := Allocate(1000, 40, 40, 40, 40)
		for i, amount := range alloc.Amounts {
			if math.Abs(amount-400) > 0.001 {
				t.Errorf("bucket %d = %v, expected 400", i, amount)
			}
		}
		if alloc.Unallocated != 0 {
			t.Errorf("Unallocated = %v, expected 0", alloc.Unallocated)
		}
	})

	t.Run("Loss allocates nothing", func(t *testing.T) {
		alloc := Allocate(-5000, 10, 5, 10, 20)
		if alloc.Profit != 0 || alloc.Unallocated != 0 {
			t.Errorf("expected zero profit and unallocated, got %+v", alloc)
		}
		for i, amount := range alloc.Amounts {
			if amount != 0 {
				t.Errorf("bucket %d = %v, expected 0", i, amount)
			}
		}
	})

	t.Run("Buckets stay within profit", func(t *testing.T) {
		alloc := Allocate(750, -20, 0, 100, 250)
		for i, amount := range alloc.Amounts {
			if amount < 0 || amount > alloc.Profit {
				t.Errorf("bucket %d = %v outside [0, %v]", i, amount, alloc.Profit)
			}
		}
		if alloc.Unallocated < 0 {
			t.Errorf("Unallocated = %v, expected non-negative", alloc.Unallocated)
		}
	})
}
