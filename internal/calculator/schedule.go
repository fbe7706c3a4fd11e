package calculator

import (
	"iter"
	"time"

	"github.com/iwvelando/loan-calculator/pkg/loans"
)

// RepaymentScheduleEntry is one month of a repayment schedule.
type RepaymentScheduleEntry struct {
	Month            int       `json:"month"`
	PaymentDate      time.Time `json:"paymentDate"`
	MonthlyPayment   float64   `json:"monthlyPayment"`
	PrincipalPayment float64   `json:"principalPayment"`
	InterestPayment  float64   `json:"interestPayment"`
	RemainingBalance float64   `json:"remainingBalance"`
}

// ScheduleSummary totals a schedule.
type ScheduleSummary struct {
	TotalPrincipal float64 `json:"totalPrincipal"`
	TotalInterest  float64 `json:"totalInterest"`
	TotalPaid      float64 `json:"totalPaid"`
}

var defaultGenerator = loans.NewAmortizationScheduleGenerator(nil)

// Schedule lazily yields quote.DurationMonths entries. Payments fall every
// 30 days after startDate and the final entry always leaves a zero balance.
func Schedule(quote LoanQuote, startDate time.Time) iter.Seq[RepaymentScheduleEntry] {
	return scheduleWith(defaultGenerator, quote, startDate)
}

// GenerateSchedule collects Schedule into a slice.
func GenerateSchedule(quote LoanQuote, startDate time.Time) []RepaymentScheduleEntry {
	return collectSchedule(Schedule(quote, startDate), quote.DurationMonths)
}

// SummarizeSchedule sums the principal, interest and payments of entries.
func SummarizeSchedule(entries []RepaymentScheduleEntry) ScheduleSummary {
	var s ScheduleSummary
	for _, e := range entries {
		s.TotalPrincipal += e.PrincipalPayment
		s.TotalInterest += e.InterestPayment
		s.TotalPaid += e.MonthlyPayment
	}
	return s
}

func scheduleWith(g *loans.AmortizationScheduleGenerator, quote LoanQuote, startDate time.Time) iter.Seq[RepaymentScheduleEntry] {
	params := loans.ScheduleParams{
		Principal:           quote.LoanAmount,
		MonthlyPayment:      quote.MonthlyPayment,
		MonthlyInterestRate: quote.EffectiveMonthlyInterestRate,
		Term:                quote.DurationMonths,
		StartDate:           startDate,
	}
	return func(yield func(RepaymentScheduleEntry) bool) {
		for p := range g.Payments(params) {
			entry := RepaymentScheduleEntry{
				Month:            p.Period,
				PaymentDate:      p.Date,
				MonthlyPayment:   p.Payment,
				PrincipalPayment: p.Principal,
				InterestPayment:  p.Interest,
				RemainingBalance: p.RemainingPrincipal,
			}
			if !yield(entry) {
				return
			}
		}
	}
}

func collectSchedule(seq iter.Seq[RepaymentScheduleEntry], n int) []RepaymentScheduleEntry {
	entries := make([]RepaymentScheduleEntry, 0, max(n, 0))
	for e := range seq {
		entries = append(entries, e)
	}
	return entries
}
