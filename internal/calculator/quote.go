// Package calculator validates loan requests against their loan type and
// computes quotes and repayment schedules. Everything here is a pure
// function of its inputs.
package calculator

import (
	"math"

	"github.com/iwvelando/loan-calculator/internal/catalog"
	"github.com/iwvelando/loan-calculator/pkg/loans"
	"github.com/iwvelando/loan-calculator/pkg/mathutil"
)

// LoanQuoteRequest is a requested amount and term for a loan type.
type LoanQuoteRequest struct {
	LoanTypeID     string  `json:"loanTypeId"`
	Amount         float64 `json:"amount"`
	DurationMonths int     `json:"durationMonths"`
}

// LoanQuote is the derived cost of a loan. TotalRepayment is always
// MonthlyPayment * DurationMonths and NetAmountReceived is always
// LoanAmount - ServiceFee.
type LoanQuote struct {
	LoanTypeID                   string  `json:"loanTypeId"`
	LoanAmount                   float64 `json:"loanAmount"`
	ServiceFee                   float64 `json:"serviceFee"`
	NetAmountReceived            float64 `json:"netAmountReceived"`
	MonthlyPayment               float64 `json:"monthlyPayment"`
	TotalRepayment               float64 `json:"totalRepayment"`
	TotalInterest                float64 `json:"totalInterest"`
	EffectiveMonthlyInterestRate float64 `json:"effectiveMonthlyInterestRate"`
	DurationMonths               int     `json:"durationMonths"`
}

// ValidateRequest checks amount and duration against the loan type's
// inclusive bounds.
func ValidateRequest(config catalog.LoanTypeConfig, amount float64, durationMonths int) error {
	if !mathutil.IsFinite(amount) || amount <= 0 || amount < config.MinAmount || amount > config.MaxAmount {
		return &InvalidAmountError{
			LoanTypeID: config.ID,
			Amount:     amount,
			Min:        config.MinAmount,
			Max:        config.MaxAmount,
		}
	}
	if durationMonths <= 0 || durationMonths < config.MinDuration || durationMonths > config.MaxDuration {
		return &InvalidDurationError{
			LoanTypeID: config.ID,
			Duration:   durationMonths,
			Min:        config.MinDuration,
			Max:        config.MaxDuration,
		}
	}
	return nil
}

// ComputeQuote validates the request and computes its quote. The monthly
// payment uses the annuity formula, or a straight-line split when the loan
// type charges no interest.
func ComputeQuote(config catalog.LoanTypeConfig, amount float64, durationMonths int) (LoanQuote, error) {
	if err := ValidateRequest(config, amount, durationMonths); err != nil {
		return LoanQuote{}, err
	}

	serviceFee := loans.CalculateServiceFee(amount, config.ServiceFeeRate)
	monthlyPayment := loans.CalculateMonthlyPayment(amount, config.MonthlyInterestRate, durationMonths)

	quote := LoanQuote{
		LoanTypeID:                   config.ID,
		LoanAmount:                   amount,
		ServiceFee:                   serviceFee,
		NetAmountReceived:            amount - serviceFee,
		MonthlyPayment:               monthlyPayment,
		TotalRepayment:               monthlyPayment * float64(durationMonths),
		EffectiveMonthlyInterestRate: config.MonthlyInterestRate,
		DurationMonths:               durationMonths,
	}
	quote.TotalInterest = quote.TotalRepayment - quote.LoanAmount

	if err := checkQuote(quote); err != nil {
		return LoanQuote{}, err
	}
	return quote, nil
}

// checkQuote rejects quotes holding NaN, infinities or negative money.
func checkQuote(q LoanQuote) error {
	fields := []struct {
		name  string
		value float64
	}{
		{"serviceFee", q.ServiceFee},
		{"netAmountReceived", q.NetAmountReceived},
		{"monthlyPayment", q.MonthlyPayment},
		{"totalRepayment", q.TotalRepayment},
		{"totalInterest", q.TotalInterest},
	}
	for _, f := range fields {
		if !mathutil.IsFinite(f.value) {
			return &CalculationError{LoanTypeID: q.LoanTypeID, Field: f.name, Value: f.value}
		}
	}
	for _, f := range fields[:4] {
		if f.value < 0 {
			return &CalculationError{LoanTypeID: q.LoanTypeID, Field: f.name, Value: f.value}
		}
	}
	return nil
}

// MaxAffordableAmount finds the largest amount, in whole cents and within the
// loan type's bounds, whose monthly payment does not exceed monthlyBudget,
// and returns its quote. A budget too small for the minimum amount yields an
// InvalidAmountError carrying the affordable principal.
func MaxAffordableAmount(config catalog.LoanTypeConfig, monthlyBudget float64, durationMonths int) (LoanQuote, error) {
	if !mathutil.IsFinite(monthlyBudget) || monthlyBudget <= 0 {
		return LoanQuote{}, ErrInvalidBudget
	}
	if err := ValidateRequest(config, config.MinAmount, durationMonths); err != nil {
		return LoanQuote{}, err
	}

	principal := loans.CalculatePrincipalForPayment(monthlyBudget, config.MonthlyInterestRate, durationMonths)
	if !mathutil.IsFinite(principal) {
		return LoanQuote{}, &CalculationError{LoanTypeID: config.ID, Field: "affordablePrincipal", Value: principal}
	}

	amount := math.Floor(principal*100) / 100
	if amount > config.MaxAmount {
		amount = config.MaxAmount
	}
	return ComputeQuote(config, amount, durationMonths)
}
