// Package output provides utilities for formatting and displaying report results.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/iwvelando/finance-pro/internal/ledger"
	"github.com/iwvelando/finance-pro/internal/report"
	"github.com/iwvelando/finance-pro/pkg/constants"
	"github.com/iwvelando/finance-pro/pkg/format"
	"github.com/iwvelando/finance-pro/pkg/mathutil"
	"github.com/shopspring/decimal"
)

// ExpenseCSVHeader is the header row of the expense export.
var ExpenseCSVHeader = []string{"nome", "tipo", "categoria", "valor"}

// PrettyFormat outputs a human-readable rather than machine-readable report.
func PrettyFormat(w io.Writer, r report.Report) error {
	pw := &errWriter{w: w}

	pw.printf("--- Resumo mensal (%s) ---\n", r.Regime.Label())
	pw.printf("Faturamento            | %s\n", format.Currency(r.Revenue))
	pw.printf("Custos diretos         | %s | %s\n", format.Currency(r.DirectCostsTotal), format.Percent(r.RevenueShare.DirectCosts))
	pw.printf("Lucro bruto            | %s | margem %s\n", format.Currency(r.GrossProfit), format.Percent(r.GrossMarginPct))
	pw.printf("Despesas fixas         | %s | %s\n", format.Currency(r.FixedExpensesTotal), format.Percent(r.RevenueShare.FixedExpenses))
	pw.printf("Despesas variáveis     | %s | %s\n", format.Currency(r.VariableExpensesTotal), format.Percent(r.RevenueShare.VariableExpenses))
	pw.printf("Despesas operacionais  | %s | %s\n", format.Currency(r.OperatingExpensesTotal), format.Percent(r.RevenueShare.OperatingExpenses))
	pw.printf("Pró-labore             | %s\n", format.Currency(r.OwnerDraw))
	pw.printf("Impostos               | %s\n", format.Currency(r.Taxes))
	pw.printf("Resultado operacional  | %s | margem %s\n", format.Currency(r.OperatingResult), format.Percent(r.OperatingMarginPct))
	pw.printf("Ponto de equilíbrio    | %s\n", format.WholeCurrency(r.BreakEven.Revenue))

	pw.printf("\n--- Despesas operacionais ---\n")
	if len(r.Expenses) == 0 {
		pw.printf("(nenhuma)\n")
	}
	for _, e := range r.Expenses {
		category := e.Category
		if category == "" {
			category = "-"
		}
		pw.printf("%s | %s | %s | %s | %s | %s\n", e.ID, e.Name, e.Kind.Label(), category, format.Currency(e.Amount), format.Percent(e.RevenuePct))
	}

	pw.printf("\n--- Custos diretos ---\n")
	if len(r.DirectCosts) == 0 {
		pw.printf("(nenhum)\n")
	}
	for _, c := range r.DirectCosts {
		pw.printf("%s | %s | %s | %s\n", c.ID, c.Name, format.Currency(c.Amount), format.Percent(c.RevenuePct))
	}

	a := r.Allocation
	pw.printf("\n--- Distribuição do lucro ---\n")
	if a.NoPositiveProfit {
		pw.printf("Sem lucro positivo para distribuir.\n")
	}
	pw.printf("Reserva de emergência  | %s | %s\n", format.Percent(a.Targets.Reserve), format.Currency(a.Reserve))
	pw.printf("Impostos futuros       | %s | %s\n", format.Percent(a.Targets.FutureTaxes), format.Currency(a.FutureTaxes))
	pw.printf("Reinvestimento         | %s | %s\n", format.Percent(a.Targets.Reinvestment), format.Currency(a.Reinvestment))
	pw.printf("Distribuição           | %s | %s\n", format.Percent(a.Targets.Distribution), format.Currency(a.Distribution))
	pw.printf("Não alocado            | %s\n", format.Currency(a.Unallocated))
	if a.OverAllocated {
		pw.printf("Atenção: os percentuais somam %s e excedem o lucro.\n", format.Percent(a.PercentTotal))
	}

	return pw.err
}

// CsvFormat outputs the report summary as ';'-separated metric/value rows.
func CsvFormat(w io.Writer, r report.Report) error {
	cw := csv.NewWriter(w)
	cw.Comma = constants.ExportSeparator

	rows := [][]string{
		{"indicador", "valor"},
		{"regime", string(r.Regime)},
		{"faturamento", ExportAmount(r.Revenue)},
		{"custos_diretos", ExportAmount(r.DirectCostsTotal)},
		{"despesas_fixas", ExportAmount(r.FixedExpensesTotal)},
		{"despesas_variaveis", ExportAmount(r.VariableExpensesTotal)},
		{"despesas_operacionais", ExportAmount(r.OperatingExpensesTotal)},
		{"pro_labore", ExportAmount(r.OwnerDraw)},
		{"impostos", ExportAmount(r.Taxes)},
		{"lucro_bruto", ExportAmount(r.GrossProfit)},
		{"resultado_operacional", ExportAmount(r.OperatingResult)},
		{"margem_bruta_pct", ExportAmount(mathutil.RoundTenth(r.GrossMarginPct))},
		{"margem_operacional_pct", ExportAmount(mathutil.RoundTenth(r.OperatingMarginPct))},
		{"ponto_equilibrio", ExportAmount(math.Round(r.BreakEven.Revenue))},
		{"reserva", ExportAmount(mathutil.Round(r.Allocation.Reserve))},
		{"impostos_futuros", ExportAmount(mathutil.Round(r.Allocation.FutureTaxes))},
		{"reinvestimento", ExportAmount(mathutil.Round(r.Allocation.Reinvestment))},
		{"distribuicao", ExportAmount(mathutil.Round(r.Allocation.Distribution))},
		{"nao_alocado", ExportAmount(mathutil.Round(r.Allocation.Unallocated))},
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

// WriteExpensesCSV writes the operating expenses as ';'-separated rows with
// a header. Amounts use the shortest decimal form with a comma separator.
func WriteExpensesCSV(w io.Writer, expenses []ledger.OperatingExpense) error {
	cw := csv.NewWriter(w)
	cw.Comma = constants.ExportSeparator

	if err := cw.Write(ExpenseCSVHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, e := range expenses {
		row := []string{e.Name, e.Kind.Label(), e.Category, ExportAmount(e.Amount)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row %s: %w", e.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}

// ExportAmount renders 224.9 as "224,9" and 1200 as "1200".
func ExportAmount(amount float64) string {
	return strings.Replace(decimal.NewFromFloat(amount).String(), ".", ",", 1)
}

// JSONFormat writes v as indented JSON.
func JSONFormat(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}

// errWriter keeps the first write error so printing code stays linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(layout string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, layout, args...)
}
