// Package adapters provides adapter implementations between different package interfaces.
package adapters

import (
	"github.com/iwvelando/finance-pro/internal/ledger"
	"github.com/iwvelando/finance-pro/pkg/finance"
)

// ExpenseAdapter wraps ledger.OperatingExpense to implement finance.ClassifiedItem
type ExpenseAdapter struct {
	Expense ledger.OperatingExpense
}

// GetName returns the expense name
func (w ExpenseAdapter) GetName() string {
	return w.Expense.Name
}

// GetAmount returns the expense amount
func (w ExpenseAdapter) GetAmount() float64 {
	return w.Expense.Amount
}

// IsFixed reports whether the expense is fixed rather than variable
func (w ExpenseAdapter) IsFixed() bool {
	return w.Expense.Kind == ledger.KindFixed
}

// ExpensesToFinanceItems converts ledger expenses to finance.ClassifiedItem slices
func ExpensesToFinanceItems(expenses []ledger.OperatingExpense) []finance.ClassifiedItem {
	if expenses == nil {
		return nil
	}

	items := make([]finance.ClassifiedItem, 0, len(expenses))
	for _, expense := range expenses {
		items = append(items, ExpenseAdapter{Expense: expense})
	}
	return items
}

// DirectCostAdapter wraps ledger.DirectCost to implement finance.AmountItem
type DirectCostAdapter struct {
	Cost ledger.DirectCost
}

// GetName returns the direct cost name
func (w DirectCostAdapter) GetName() string {
	return w.Cost.Name
}

// GetAmount returns the direct cost amount
func (w DirectCostAdapter) GetAmount() float64 {
	return w.Cost.Amount
}

// DirectCostsToFinanceItems converts ledger direct costs to finance.AmountItem slices
func DirectCostsToFinanceItems(costs []ledger.DirectCost) []finance.AmountItem {
	if costs == nil {
		return nil
	}

	items := make([]finance.AmountItem, 0, len(costs))
	for _, cost := range costs {
		items = append(items, DirectCostAdapter{Cost: cost})
	}
	return items
}
