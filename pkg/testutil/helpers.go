// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/finance-pro/internal/ledger"
	"github.com/iwvelando/finance-pro/internal/report"
)

// FindExpense finds an operating expense by name.
// Returns a pointer to the expense if found, nil otherwise.
func FindExpense(expenses []ledger.OperatingExpense, name string) *ledger.OperatingExpense {
	for i := range expenses {
		if expenses[i].Name == name {
			return &expenses[i]
		}
	}
	return nil
}

// FindDirectCost finds a direct cost by name.
func FindDirectCost(costs []ledger.DirectCost, name string) *ledger.DirectCost {
	for i := range costs {
		if costs[i].Name == name {
			return &costs[i]
		}
	}
	return nil
}

// FindExpenseLine finds a report line by expense name.
func FindExpenseLine(lines []report.ExpenseLine, name string) *report.ExpenseLine {
	for i := range lines {
		if lines[i].Name == name {
			return &lines[i]
		}
	}
	return nil
}
