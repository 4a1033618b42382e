package calculation

import (
	"errors"

	"github.com/axisacco/AXIS-ACCOUTING/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidRegime aliases the domain sentinel so callers can match either
	ErrInvalidRegime = domain.ErrInvalidRegime
	// ErrInvalidActivity aliases the domain sentinel
	ErrInvalidActivity = domain.ErrInvalidActivity
	// ErrNegativeAmount rejects negative monetary inputs
	ErrNegativeAmount = errors.New("negative monetary amount")
	// ErrInvalidTable is returned by ValidateTable
	ErrInvalidTable = errors.New("invalid bracket table")
)

// CalculationError represents errors raised by the tax calculators
type CalculationError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *CalculationError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *CalculationError) Unwrap() error {
	return e.Cause
}

// amount pairs an input name with its value for validation messages
type amount struct {
	name  string
	value decimal.Decimal
}

// requireNonNegative fails with ErrNegativeAmount naming the first offending field
func requireNonNegative(operation string, fields ...amount) error {
	for _, f := range fields {
		if f.value.IsNegative() {
			return &CalculationError{Operation: operation, Message: f.name + " cannot be negative", Cause: ErrNegativeAmount}
		}
	}
	return nil
}
