// Package snapshot converts a ledger to and from the single JSON document that
// is persisted in the key-value store.
//
// Documents written by older clients used Portuguese field names
// (faturamentoMensal, despesas, ...). They are still read; writes always use
// the current names.
package snapshot

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iwvelando/finance-pro/internal/ledger"
	"go.uber.org/zap"
)

// Document is the persisted form of a ledger. Pointer fields distinguish an
// absent field from a zero value so that absent ones take their defaults.
type Document struct {
	Regime         *string             `json:"regime,omitempty"`
	Revenue        *float64            `json:"revenue,omitempty"`
	OwnerDraw      *float64            `json:"ownerDraw,omitempty"`
	FlatFee        *float64            `json:"flatFee,omitempty"`
	RevenueTaxRate *float64            `json:"revenueTaxRate,omitempty"`
	OtherTaxes     *float64            `json:"otherTaxes,omitempty"`
	Expenses       []Item              `json:"operatingExpenses"`
	DirectCosts    []Item              `json:"directCosts"`
	Allocation     *AllocationDocument `json:"allocation,omitempty"`

	// Older field names.
	LegacyRevenue        *float64 `json:"faturamentoMensal,omitempty"`
	LegacyOwnerDraw      *float64 `json:"proLabore,omitempty"`
	LegacyFlatFee        *float64 `json:"meiDasFixo,omitempty"`
	LegacyRevenueTaxRate *float64 `json:"aliquotaEfetiva,omitempty"`
	LegacyOtherTaxes     *float64 `json:"outrosImpostos,omitempty"`
	LegacyExpenses       []Item   `json:"despesas,omitempty"`
	LegacyDirectCosts    []Item   `json:"custosDiretos,omitempty"`
}

// Item is a persisted list entry of either list. Kind and Category are only
// meaningful for operating expenses.
type Item struct {
	ID       string   `json:"id"`
	Name     string   `json:"name,omitempty"`
	Amount   *float64 `json:"amount,omitempty"`
	Kind     string   `json:"kind,omitempty"`
	Category string   `json:"category,omitempty"`

	LegacyName     string   `json:"nome,omitempty"`
	LegacyAmount   *float64 `json:"valor,omitempty"`
	LegacyKind     string   `json:"tipo,omitempty"`
	LegacyCategory string   `json:"categoria,omitempty"`
}

// AllocationDocument holds the persisted allocation targets.
type AllocationDocument struct {
	Reserve      *float64 `json:"reserve,omitempty"`
	FutureTaxes  *float64 `json:"futureTaxes,omitempty"`
	Reinvestment *float64 `json:"reinvestment,omitempty"`
	Distribution *float64 `json:"distribution,omitempty"`
}

// Encode serialises the whole ledger as one JSON document.
func Encode(l *ledger.Ledger) ([]byte, error) {
	in := l.Inputs()
	regime := string(in.Regime)
	doc := Document{
		Regime:         &regime,
		Revenue:        &in.Revenue,
		OwnerDraw:      &in.OwnerDraw,
		FlatFee:        &in.FlatFee,
		RevenueTaxRate: &in.RevenueTaxRate,
		OtherTaxes:     &in.OtherTaxes,
		Expenses:       []Item{},
		DirectCosts:    []Item{},
		Allocation: &AllocationDocument{
			Reserve:      &in.Allocation.Reserve,
			FutureTaxes:  &in.Allocation.FutureTaxes,
			Reinvestment: &in.Allocation.Reinvestment,
			Distribution: &in.Allocation.Distribution,
		},
	}
	for _, e := range l.Expenses() {
		amount := e.Amount
		doc.Expenses = append(doc.Expenses, Item{ID: e.ID, Name: e.Name, Amount: &amount, Kind: string(e.Kind), Category: e.Category})
	}
	for _, c := range l.DirectCosts() {
		amount := c.Amount
		doc.DirectCosts = append(doc.DirectCosts, Item{ID: c.ID, Name: c.Name, Amount: &amount})
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return data, nil
}

// Parse decodes a document into a ledger. Absent fields take the default
// values, except the item lists which default to empty. An unknown regime
// falls back to the default regime. Entries with an empty name, a missing or
// negative amount, or an unknown kind are dropped; missing or duplicate ids are
// replaced. Parse fails when data is not a well-formed document.
func Parse(data []byte, logger *zap.Logger, opts ...ledger.Option) (*ledger.Ledger, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}

	in := ledger.DefaultInputs()
	if doc.Regime != nil {
		if r, ok := ledger.ParseRegime(*doc.Regime); ok {
			in.Regime = r
		} else {
			logger.Warn("Unknown regime in snapshot, using default",
				zap.String("op", "snapshot.Parse"),
				zap.String("regime", *doc.Regime),
			)
		}
	}
	setFloat(&in.Revenue, doc.Revenue, doc.LegacyRevenue)
	setFloat(&in.OwnerDraw, doc.OwnerDraw, doc.LegacyOwnerDraw)
	setFloat(&in.FlatFee, doc.FlatFee, doc.LegacyFlatFee)
	setFloat(&in.RevenueTaxRate, doc.RevenueTaxRate, doc.LegacyRevenueTaxRate)
	setFloat(&in.OtherTaxes, doc.OtherTaxes, doc.LegacyOtherTaxes)
	if a := doc.Allocation; a != nil {
		setFloat(&in.Allocation.Reserve, a.Reserve)
		setFloat(&in.Allocation.FutureTaxes, a.FutureTaxes)
		setFloat(&in.Allocation.Reinvestment, a.Reinvestment)
		setFloat(&in.Allocation.Distribution, a.Distribution)
	}

	expenseItems := doc.Expenses
	if expenseItems == nil {
		expenseItems = doc.LegacyExpenses
	}
	expenses := make([]ledger.OperatingExpense, 0, len(expenseItems))
	for _, item := range expenseItems {
		name, amount, ok := item.fields()
		kind, kindOK := ledger.ParseExpenseKind(firstNonEmpty(item.Kind, item.LegacyKind))
		if !ok || !kindOK {
			logger.Warn("Dropping invalid operating expense from snapshot",
				zap.String("op", "snapshot.Parse"),
				zap.String("id", item.ID),
				zap.String("name", name),
			)
			continue
		}
		expenses = append(expenses, ledger.OperatingExpense{
			ID:       item.ID,
			Name:     name,
			Amount:   amount,
			Kind:     kind,
			Category: firstNonEmpty(item.Category, item.LegacyCategory),
		})
	}

	costItems := doc.DirectCosts
	if costItems == nil {
		costItems = doc.LegacyDirectCosts
	}
	costs := make([]ledger.DirectCost, 0, len(costItems))
	for _, item := range costItems {
		name, amount, ok := item.fields()
		if !ok {
			logger.Warn("Dropping invalid direct cost from snapshot",
				zap.String("op", "snapshot.Parse"),
				zap.String("id", item.ID),
				zap.String("name", name),
			)
			continue
		}
		costs = append(costs, ledger.DirectCost{ID: item.ID, Name: name, Amount: amount})
	}

	return ledger.New(in, expenses, costs, opts...), nil
}

// Decode is Parse that never fails: data that cannot be parsed yields the
// full default scenario.
func Decode(data []byte, logger *zap.Logger, opts ...ledger.Option) *ledger.Ledger {
	l, err := Parse(data, logger, opts...)
	if err != nil {
		if logger != nil {
			logger.Warn("Unreadable snapshot, using default scenario",
				zap.String("op", "snapshot.Decode"),
				zap.Error(err),
			)
		}
		return ledger.Default(opts...)
	}
	return l
}

func (i Item) fields() (name string, amount float64, ok bool) {
	name = strings.TrimSpace(firstNonEmpty(i.Name, i.LegacyName))
	v := i.Amount
	if v == nil {
		v = i.LegacyAmount
	}
	if name == "" || v == nil || *v < 0 {
		return name, 0, false
	}
	return name, *v, true
}

// setFloat assigns the first non-nil candidate to dst.
func setFloat(dst *float64, candidates ...*float64) {
	for _, c := range candidates {
		if c != nil {
			*dst = *c
			return
		}
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
