// Package format renders amounts and percentages the way they are shown to
// users: Brazilian Portuguese separators and the real (R$) symbol.
package format

import (
	"math"

	"github.com/iwvelando/finance-pro/pkg/mathutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

// Currency returns a currency string with the real symbol and separators (e.g., "-R$ 1.234,56").
func Currency(amount float64) string {
	formatted := NumericCurrency(math.Abs(amount))
	if amount < 0 && formatted != "0,00" {
		return "-R$ " + formatted
	}
	return "R$ " + formatted
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1.234,56").
func NumericCurrency(amount float64) string {
	rounded := mathutil.Round(amount)
	if rounded == 0 {
		rounded = 0
	}
	return printer.Sprintf("%.2f", rounded)
}

// WholeCurrency rounds to whole units (e.g., "R$ 4.370"), used for estimates.
func WholeCurrency(amount float64) string {
	rounded := math.Round(amount)
	if rounded == 0 {
		rounded = 0 // drop negative zero
	}
	if rounded < 0 {
		return "-R$ " + printer.Sprintf("%.0f", -rounded)
	}
	return "R$ " + printer.Sprintf("%.0f", rounded)
}

// Percent returns a percentage with one decimal place (e.g., "66,8%").
func Percent(pct float64) string {
	rounded := mathutil.RoundTenth(pct)
	if rounded == 0 {
		rounded = 0
	}
	return printer.Sprintf("%.1f%%", rounded)
}
