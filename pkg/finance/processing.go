// Package finance provides common financial calculation utilities.
package finance

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AmountItem is anything carrying a named monthly amount.
type AmountItem interface {
	GetName() string
	GetAmount() float64
}

// ClassifiedItem is an AmountItem that is either a fixed or a variable outflow.
type ClassifiedItem interface {
	AmountItem
	IsFixed() bool
}

// Aggregator sums item lists. Accumulation happens on decimals so that
// currency values such as 224.9 + 120 + 1200 add up to exactly 1544.9.
type Aggregator struct {
	logger *zap.Logger
}

// NewAggregator creates a new aggregator with the given logger.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewAggregator(logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{logger: logger}
}

// Sum returns the total amount of items. An empty list sums to 0.
func (a *Aggregator) Sum(items []AmountItem) float64 {
	return a.SumWhere(items, nil)
}

// SumWhere returns the total amount of the items accepted by include. A nil
// include accepts every item.
func (a *Aggregator) SumWhere(items []AmountItem, include func(AmountItem) bool) float64 {
	total := decimal.Zero
	for _, item := range items {
		if item == nil {
			a.logger.Warn("Skipping nil item")
			continue
		}
		if include != nil && !include(item) {
			continue
		}
		a.logger.Debug("Item summed",
			zap.String("item", item.GetName()),
			zap.Float64("amount", item.GetAmount()),
		)
		total = total.Add(decimal.NewFromFloat(item.GetAmount()))
	}
	return total.InexactFloat64()
}

// SplitByKind returns the fixed and variable totals of items.
func (a *Aggregator) SplitByKind(items []ClassifiedItem) (fixed, variable float64) {
	amounts := make([]AmountItem, 0, len(items))
	for _, item := range items {
		if item == nil {
			a.logger.Warn("Skipping nil item")
			continue
		}
		amounts = append(amounts, item)
	}
	fixed = a.SumWhere(amounts, func(item AmountItem) bool {
		return item.(ClassifiedItem).IsFixed()
	})
	variable = a.SumWhere(amounts, func(item AmountItem) bool {
		return !item.(ClassifiedItem).IsFixed()
	})
	return fixed, variable
}

// Add sums plain values with the same decimal accumulation as Sum.
func Add(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total.InexactFloat64()
}

// Subtract returns value minus every amount in amounts, on decimals.
func Subtract(value float64, amounts ...float64) float64 {
	total := decimal.NewFromFloat(value)
	for _, v := range amounts {
		total = total.Sub(decimal.NewFromFloat(v))
	}
	return total.InexactFloat64()
}
