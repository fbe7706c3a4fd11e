// Package loans provides common loan processing utilities.
package loans

import (
	"math"

	"github.com/iwvelando/loan-calculator/pkg/constants"
	"github.com/iwvelando/loan-calculator/pkg/mathutil"
)

// CalculateServiceFee returns the upfront fee deducted from principal.
// serviceFeeRate is a percentage, e.g. 2 for 2%.
func CalculateServiceFee(principal, serviceFeeRate float64) float64 {
	return mathutil.ApplyPercentage(principal, serviceFeeRate)
}

// CalculateMonthlyPayment calculates the monthly payment for a loan using the standard amortization formula.
// monthlyInterestRate is a per-period percentage, e.g. 7 for 7% a month.
// A non-positive term yields a non-finite result; callers must check.
func CalculateMonthlyPayment(principal, monthlyInterestRate float64, termMonths int) float64 {
	if monthlyInterestRate == 0 {
		// For zero interest, simply divide the principal by term
		return principal / float64(termMonths)
	}

	r := monthlyInterestRate / constants.PercentageMultiplier
	power := math.Pow(1.00+r, float64(termMonths))
	return principal * r * power / (power - 1.00)
}

// CalculateInterestPayment calculates the interest portion of a payment.
func CalculateInterestPayment(remainingPrincipal, monthlyInterestRate float64) float64 {
	return remainingPrincipal * monthlyInterestRate / constants.PercentageMultiplier
}

// CalculatePrincipalForPayment is the inverse of CalculateMonthlyPayment: the
// principal that a level payment amortizes over termMonths.
func CalculatePrincipalForPayment(payment, monthlyInterestRate float64, termMonths int) float64 {
	if monthlyInterestRate == 0 {
		return payment * float64(termMonths)
	}

	r := monthlyInterestRate / constants.PercentageMultiplier
	power := math.Pow(1.00+r, float64(termMonths))
	return payment * (power - 1.00) / (r * power)
}
