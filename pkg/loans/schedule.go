package loans

import (
	"iter"
	"time"

	"github.com/iwvelando/loan-calculator/pkg/datetime"
	"go.uber.org/zap"
)

// Payment holds the values for a given payment.
type Payment struct {
	Period             int
	Date               time.Time
	Payment            float64
	Principal          float64
	Interest           float64
	RemainingPrincipal float64
}

// ScheduleParams describes the loan being amortized.
type ScheduleParams struct {
	Principal           float64
	MonthlyPayment      float64
	MonthlyInterestRate float64 // percent per period
	Term                int     // months
	StartDate           time.Time
}

// AmortizationScheduleGenerator provides utilities for generating loan amortization schedules
type AmortizationScheduleGenerator struct {
	logger *zap.Logger
}

// NewAmortizationScheduleGenerator creates a new generator instance
func NewAmortizationScheduleGenerator(logger *zap.Logger) *AmortizationScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AmortizationScheduleGenerator{logger: logger}
}

// Payments yields one Payment per period. Interest is charged on the balance
// carried into each period; the last period pays off whatever balance is
// left so the principal portions sum to params.Principal.
func (g *AmortizationScheduleGenerator) Payments(params ScheduleParams) iter.Seq[Payment] {
	return func(yield func(Payment) bool) {
		balance := params.Principal

		for period := 1; period <= params.Term; period++ {
			var current Payment
			current.Period = period
			current.Date = datetime.PaymentDate(params.StartDate, period)
			current.Interest = CalculateInterestPayment(balance, params.MonthlyInterestRate)
			current.Principal = params.MonthlyPayment - current.Interest
			current.Payment = params.MonthlyPayment

			if period == params.Term || current.Principal > balance {
				if period == params.Term && current.Principal != balance {
					g.logger.Debug("absorbing rounding remainder into final principal payment",
						zap.String("op", "loans.Payments"),
						zap.Int("period", period),
						zap.Float64("scheduled_principal", current.Principal),
						zap.Float64("remaining_balance", balance),
					)
				}
				// We will get machine error otherwise so pay the balance exactly.
				current.Principal = balance
				current.Payment = current.Principal + current.Interest
				current.RemainingPrincipal = 0
			} else {
				current.RemainingPrincipal = balance - current.Principal
			}
			balance = current.RemainingPrincipal

			if !yield(current) {
				return
			}
		}
	}
}

// GenerateSchedule creates a complete amortization schedule for a loan
func (g *AmortizationScheduleGenerator) GenerateSchedule(params ScheduleParams) []Payment {
	schedule := make([]Payment, 0, max(params.Term, 0))
	for payment := range g.Payments(params) {
		schedule = append(schedule, payment)
	}
	return schedule
}
