package calculator

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by the typed errors below via errors.Is.
var (
	ErrInvalidAmount   = errors.New("invalid loan amount")
	ErrInvalidDuration = errors.New("invalid loan duration")
	ErrCalculation     = errors.New("unable to calculate")
	ErrInvalidBudget   = errors.New("monthly budget must be a finite positive number")
)

// InvalidAmountError reports an amount that is not a finite positive number
// or lies outside the loan type's bounds.
type InvalidAmountError struct {
	LoanTypeID string
	Amount     float64
	Min        float64
	Max        float64
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("amount must be between %.2f and %.2f", e.Min, e.Max)
}

// Is reports whether target is ErrInvalidAmount.
func (e *InvalidAmountError) Is(target error) bool {
	return target == ErrInvalidAmount
}

// Bound returns the bound that was violated: Max when the amount is above
// the range, otherwise Min.
func (e *InvalidAmountError) Bound() float64 {
	if e.Amount > e.Max {
		return e.Max
	}
	return e.Min
}

// InvalidDurationError reports a term that is not positive or lies outside
// the loan type's bounds.
type InvalidDurationError struct {
	LoanTypeID string
	Duration   int
	Min        int
	Max        int
}

func (e *InvalidDurationError) Error() string {
	return fmt.Sprintf("duration must be between %d and %d months", e.Min, e.Max)
}

// Is reports whether target is ErrInvalidDuration.
func (e *InvalidDurationError) Is(target error) bool {
	return target == ErrInvalidDuration
}

// Bound returns the bound that was violated.
func (e *InvalidDurationError) Bound() int {
	if e.Duration > e.Max {
		return e.Max
	}
	return e.Min
}

// CalculationError reports a non-finite or otherwise impossible result.
type CalculationError struct {
	LoanTypeID string
	Field      string
	Value      float64
}

func (e *CalculationError) Error() string {
	return fmt.Sprintf("unable to calculate loan quote for %s: %s is %v", e.LoanTypeID, e.Field, e.Value)
}

// Is reports whether target is ErrCalculation.
func (e *CalculationError) Is(target error) bool {
	return target == ErrCalculation
}
