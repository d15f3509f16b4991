package ledger

import (
	"strings"

	"github.com/google/uuid"
	"github.com/iwvelando/finance-pro/pkg/validation"
)

// Ledger owns the inputs and both item lists. It is not safe for concurrent
// use; callers serialise access (see the session package).
//
// Mutations that fail validation are no-ops and report false.
type Ledger struct {
	inputs   Inputs
	expenses []OperatingExpense
	costs    []DirectCost

	newID  func() string
	issued map[string]struct{}
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithIDGenerator replaces the uuid-based id generator.
func WithIDGenerator(gen func() string) Option {
	return func(l *Ledger) {
		if gen != nil {
			l.newID = gen
		}
	}
}

// New builds a ledger from inputs and item lists. Items missing an id, or
// repeating one already seen in the same list, receive a fresh id.
func New(inputs Inputs, expenses []OperatingExpense, costs []DirectCost, opts ...Option) *Ledger {
	l := &Ledger{
		inputs: inputs,
		newID:  uuid.NewString,
		issued: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}

	seen := make(map[string]struct{}, len(expenses))
	for _, e := range expenses {
		if _, dup := seen[e.ID]; e.ID == "" || dup {
			e.ID = l.nextID()
		}
		seen[e.ID] = struct{}{}
		l.issued[e.ID] = struct{}{}
		l.expenses = append(l.expenses, e)
	}

	seen = make(map[string]struct{}, len(costs))
	for _, c := range costs {
		if _, dup := seen[c.ID]; c.ID == "" || dup {
			c.ID = l.nextID()
		}
		seen[c.ID] = struct{}{}
		l.issued[c.ID] = struct{}{}
		l.costs = append(l.costs, c)
	}

	return l
}

// Default returns the starter scenario: three fixed expenses, two direct
// costs and the default inputs.
func Default(opts ...Option) *Ledger {
	return New(DefaultInputs(), DefaultExpenses(), DefaultDirectCosts(), opts...)
}

// DefaultExpenses returns the starter operating expenses (without ids).
func DefaultExpenses() []OperatingExpense {
	return []OperatingExpense{
		{Name: "Adobe CC", Amount: 224.9, Kind: KindFixed, Category: "Software"},
		{Name: "Internet", Amount: 120, Kind: KindFixed, Category: "Infra"},
		{Name: "Aluguel sala", Amount: 1200, Kind: KindFixed, Category: "Aluguel"},
	}
}

// DefaultDirectCosts returns the starter direct costs (without ids).
func DefaultDirectCosts() []DirectCost {
	return []DirectCost{
		{Name: "Banco de música (job)", Amount: 60},
		{Name: "Freela edição (job)", Amount: 800},
	}
}

// nextID returns an id never issued by this ledger, so ids of deleted items
// are not handed out again.
func (l *Ledger) nextID() string {
	for {
		id := l.newID()
		if _, used := l.issued[id]; !used && id != "" {
			l.issued[id] = struct{}{}
			return id
		}
	}
}

// Inputs returns a copy of the scalar inputs.
func (l *Ledger) Inputs() Inputs {
	return l.inputs
}

// Expenses returns a copy of the operating expense list in display order.
func (l *Ledger) Expenses() []OperatingExpense {
	return append([]OperatingExpense(nil), l.expenses...)
}

// DirectCosts returns a copy of the direct cost list in display order.
func (l *Ledger) DirectCosts() []DirectCost {
	return append([]DirectCost(nil), l.costs...)
}

// Clone returns a deep copy that shares no state with l.
func (l *Ledger) Clone() *Ledger {
	c := &Ledger{
		inputs:   l.inputs,
		expenses: l.Expenses(),
		costs:    l.DirectCosts(),
		newID:    l.newID,
		issued:   make(map[string]struct{}, len(l.issued)),
	}
	for id := range l.issued {
		c.issued[id] = struct{}{}
	}
	return c
}

// AddOperatingExpense appends a new expense. It is rejected when the name is
// empty, the amount is not positive or the kind is unknown.
func (l *Ledger) AddOperatingExpense(name string, amount float64, kind ExpenseKind, category string) (OperatingExpense, bool) {
	if !validExpense(name, amount, kind) {
		return OperatingExpense{}, false
	}
	e := OperatingExpense{
		ID:       l.nextID(),
		Name:     strings.TrimSpace(name),
		Amount:   amount,
		Kind:     kind,
		Category: strings.TrimSpace(category),
	}
	l.expenses = append(l.expenses, e)
	return e, true
}

// EditOperatingExpense replaces every field but the id of an expense, keeping
// its position. Unknown ids and invalid fields are rejected.
func (l *Ledger) EditOperatingExpense(id, name string, amount float64, kind ExpenseKind, category string) bool {
	if !validExpense(name, amount, kind) {
		return false
	}
	for i := range l.expenses {
		if l.expenses[i].ID == id {
			l.expenses[i] = OperatingExpense{
				ID:       id,
				Name:     strings.TrimSpace(name),
				Amount:   amount,
				Kind:     kind,
				Category: strings.TrimSpace(category),
			}
			return true
		}
	}
	return false
}

// RemoveOperatingExpense deletes an expense. Unknown ids are a no-op.
func (l *Ledger) RemoveOperatingExpense(id string) bool {
	for i := range l.expenses {
		if l.expenses[i].ID == id {
			l.expenses = append(l.expenses[:i:i], l.expenses[i+1:]...)
			return true
		}
	}
	return false
}

// AddDirectCost appends a new direct cost.
func (l *Ledger) AddDirectCost(name string, amount float64) (DirectCost, bool) {
	if validation.ValidateItem(name, amount) != nil {
		return DirectCost{}, false
	}
	c := DirectCost{ID: l.nextID(), Name: strings.TrimSpace(name), Amount: amount}
	l.costs = append(l.costs, c)
	return c, true
}

// EditDirectCost replaces the name and amount of a direct cost in place.
func (l *Ledger) EditDirectCost(id, name string, amount float64) bool {
	if validation.ValidateItem(name, amount) != nil {
		return false
	}
	for i := range l.costs {
		if l.costs[i].ID == id {
			l.costs[i] = DirectCost{ID: id, Name: strings.TrimSpace(name), Amount: amount}
			return true
		}
	}
	return false
}

// RemoveDirectCost deletes a direct cost. Unknown ids are a no-op.
func (l *Ledger) RemoveDirectCost(id string) bool {
	for i := range l.costs {
		if l.costs[i].ID == id {
			l.costs = append(l.costs[:i:i], l.costs[i+1:]...)
			return true
		}
	}
	return false
}

func validExpense(name string, amount float64, kind ExpenseKind) bool {
	if validation.ValidateItem(name, amount) != nil {
		return false
	}
	return kind == KindFixed || kind == KindVariable
}
