package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/iwvelando/finance-pro/internal/ledger"
	"github.com/iwvelando/finance-pro/internal/session"
	"github.com/iwvelando/finance-pro/pkg/constants"
	"github.com/iwvelando/finance-pro/pkg/output"
	"github.com/iwvelando/finance-pro/pkg/validation"
)

var errUsage = errors.New("invalid arguments, see -help")

type command struct {
	session      *session.Session
	outputFormat string
	exportPath   string
	stdout       io.Writer
}

func (c command) run(args []string) error {
	if len(args) == 0 {
		return c.report()
	}

	name, rest := args[0], args[1:]
	switch name {
	case "report":
		return c.report()
	case "export":
		return c.export()
	case "add-expense":
		return c.addExpense(rest)
	case "edit-expense":
		return c.editExpense(rest)
	case "remove-expense":
		return c.remove(rest, "operating expense", c.session.RemoveOperatingExpense)
	case "add-cost":
		return c.addCost(rest)
	case "edit-cost":
		return c.editCost(rest)
	case "remove-cost":
		return c.remove(rest, "direct cost", c.session.RemoveDirectCost)
	case "set":
		return c.set(rest)
	case "reset":
		c.session.Reset()
		fmt.Fprintln(c.stdout, "starting scenario restored")
		return nil
	}
	return fmt.Errorf("unknown command %q", name)
}

func (c command) report() error {
	switch c.outputFormat {
	case constants.OutputFormatCSV:
		return output.CsvFormat(c.stdout, c.session.Report())
	case constants.OutputFormatJSON:
		return output.JSONFormat(c.stdout, c.session.State())
	default:
		return output.PrettyFormat(c.stdout, c.session.Report())
	}
}

func (c command) export() error {
	expenses := c.session.Expenses()
	if c.exportPath == "-" {
		return output.WriteExpensesCSV(c.stdout, expenses)
	}

	f, err := os.Create(c.exportPath)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	if err := output.WriteExpensesCSV(f, expenses); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing export file: %w", err)
	}
	fmt.Fprintf(c.stdout, "%d operating expenses written to %s\n", len(expenses), c.exportPath)
	return nil
}

func (c command) addExpense(args []string) error {
	if len(args) < 3 || len(args) > 4 {
		return errUsage
	}
	amount, kind, err := parseExpenseArgs(args[1], args[2])
	if err != nil {
		return err
	}
	item, ok := c.session.AddOperatingExpense(args[0], amount, kind, optional(args, 3))
	if !ok {
		return rejected(args[0], amount)
	}
	fmt.Fprintln(c.stdout, item.ID)
	return nil
}

func (c command) editExpense(args []string) error {
	if len(args) < 4 || len(args) > 5 {
		return errUsage
	}
	id := args[0]
	amount, kind, err := parseExpenseArgs(args[2], args[3])
	if err != nil {
		return err
	}
	if !c.hasExpense(id) {
		return fmt.Errorf("operating expense %q not found", id)
	}
	if !c.session.EditOperatingExpense(id, args[1], amount, kind, optional(args, 4)) {
		return rejected(args[1], amount)
	}
	fmt.Fprintf(c.stdout, "operating expense %s updated\n", id)
	return nil
}

func (c command) addCost(args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	amount, err := parseAmount(args[1])
	if err != nil {
		return err
	}
	item, ok := c.session.AddDirectCost(args[0], amount)
	if !ok {
		return rejected(args[0], amount)
	}
	fmt.Fprintln(c.stdout, item.ID)
	return nil
}

func (c command) editCost(args []string) error {
	if len(args) != 3 {
		return errUsage
	}
	id := args[0]
	amount, err := parseAmount(args[2])
	if err != nil {
		return err
	}
	if !c.hasCost(id) {
		return fmt.Errorf("direct cost %q not found", id)
	}
	if !c.session.EditDirectCost(id, args[1], amount) {
		return rejected(args[1], amount)
	}
	fmt.Fprintf(c.stdout, "direct cost %s updated\n", id)
	return nil
}

func (c command) remove(args []string, list string, fn func(string) bool) error {
	if len(args) != 1 {
		return errUsage
	}
	if !fn(args[0]) {
		return fmt.Errorf("%s %q not found", list, args[0])
	}
	fmt.Fprintf(c.stdout, "%s %s removed\n", list, args[0])
	return nil
}

func (c command) set(args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	field, raw := args[0], args[1]
	in := c.session.Ledger().Inputs()

	if field == "regime" {
		regime, ok := ledger.ParseRegime(raw)
		if !ok {
			return fmt.Errorf("unknown regime %q", raw)
		}
		in.Regime = regime
	} else {
		value, err := parseAmount(raw)
		if err != nil {
			return err
		}
		target, pct := inputField(&in, field)
		if target == nil {
			return fmt.Errorf("unknown field %q", field)
		}
		if pct {
			err = validation.ValidatePercentage(field, value)
		} else {
			err = validation.ValidateNonNegative(field, value)
		}
		if err != nil {
			return err
		}
		*target = value
	}

	if !c.session.SetInputs(in) {
		return fmt.Errorf("%s rejected", field)
	}
	fmt.Fprintf(c.stdout, "%s set to %s\n", field, raw)
	return nil
}

// inputField returns the numeric input named field and whether it is a
// percentage.
func inputField(in *ledger.Inputs, field string) (*float64, bool) {
	switch field {
	case "revenue":
		return &in.Revenue, false
	case "ownerDraw":
		return &in.OwnerDraw, false
	case "flatFee":
		return &in.FlatFee, false
	case "otherTaxes":
		return &in.OtherTaxes, false
	case "revenueTaxRate":
		return &in.RevenueTaxRate, true
	case "reserve":
		return &in.Allocation.Reserve, true
	case "futureTaxes":
		return &in.Allocation.FutureTaxes, true
	case "reinvestment":
		return &in.Allocation.Reinvestment, true
	case "distribution":
		return &in.Allocation.Distribution, true
	}
	return nil, false
}

func (c command) hasExpense(id string) bool {
	for _, e := range c.session.Expenses() {
		if e.ID == id {
			return true
		}
	}
	return false
}

func (c command) hasCost(id string) bool {
	for _, d := range c.session.Ledger().DirectCosts() {
		if d.ID == id {
			return true
		}
	}
	return false
}

func parseExpenseArgs(rawAmount, rawKind string) (float64, ledger.ExpenseKind, error) {
	amount, err := parseAmount(rawAmount)
	if err != nil {
		return 0, "", err
	}
	kind, ok := ledger.ParseExpenseKind(rawKind)
	if !ok {
		return 0, "", fmt.Errorf("unknown kind %q", rawKind)
	}
	return amount, kind, nil
}

// parseAmount accepts "80.35" as well as the Brazilian "80,35" and "1.234,56".
func parseAmount(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", raw)
	}
	if err := validation.ValidateNonNegative("amount", v); err != nil {
		return 0, err
	}
	return v, nil
}

func optional(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func rejected(name string, amount float64) error {
	if err := validation.ValidateItem(name, amount); err != nil {
		return fmt.Errorf("rejected: %w", err)
	}
	return errors.New("rejected")
}
