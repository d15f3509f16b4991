package validation

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/finance-pro/pkg/constants"
)

// ErrEmptyName is returned for items whose name is blank.
var ErrEmptyName = errors.New("name must not be empty")

// ErrNonPositiveAmount is returned for items whose amount is not a positive number.
var ErrNonPositiveAmount = errors.New("amount must be greater than zero")

// ValidateItem checks the fields shared by expenses and direct costs.
func ValidateItem(name string, amount float64) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if !(amount > 0) || math.IsInf(amount, 1) {
		return fmt.Errorf("%w, got %v", ErrNonPositiveAmount, amount)
	}
	return nil
}

// ValidateNonNegative checks a monetary input such as revenue or owner draw.
func ValidateNonNegative(field string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return fmt.Errorf("%s must be a non-negative number, got %v", field, value)
	}
	return nil
}

// ValidatePercentage checks a rate or allocation dial (0..100).
func ValidatePercentage(field string, value float64) error {
	if math.IsNaN(value) || value < 0 || value > constants.MaxPercentage {
		return fmt.Errorf("%s must be between 0 and %.0f, got %v", field, constants.MaxPercentage, value)
	}
	return nil
}
