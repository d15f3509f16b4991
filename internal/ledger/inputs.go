package ledger

// The setters below do not re-validate values: bounds are enforced by the
// input surfaces (CLI and HTTP server) before they reach the ledger.
// Switching regime keeps both tax parameters so the user can switch back.

// SetRegime changes the tax regime. Unknown regimes are rejected.
func (l *Ledger) SetRegime(r Regime) bool {
	if r != RegimeFlatMonthlyFee && r != RegimeRevenuePercentage {
		return false
	}
	l.inputs.Regime = r
	return true
}

// SetRevenue sets the monthly revenue.
func (l *Ledger) SetRevenue(v float64) {
	l.inputs.Revenue = v
}

// SetOwnerDraw sets the monthly pro-labore.
func (l *Ledger) SetOwnerDraw(v float64) {
	l.inputs.OwnerDraw = v
}

// SetFlatFee sets the monthly flat-fee tax amount.
func (l *Ledger) SetFlatFee(v float64) {
	l.inputs.FlatFee = v
}

// SetRevenueTaxRate sets the effective rate (%) over revenue.
func (l *Ledger) SetRevenueTaxRate(v float64) {
	l.inputs.RevenueTaxRate = v
}

// SetOtherTaxes sets other monthly taxes and fees.
func (l *Ledger) SetOtherTaxes(v float64) {
	l.inputs.OtherTaxes = v
}

// SetAllocation replaces all four allocation targets.
func (l *Ledger) SetAllocation(a Allocation) {
	l.inputs.Allocation = a
}
