package calculator

import (
	"errors"
	"time"

	"github.com/iwvelando/loan-calculator/internal/catalog"
	"github.com/iwvelando/loan-calculator/internal/metrics"
	"github.com/iwvelando/loan-calculator/pkg/loans"
	"go.uber.org/zap"
)

// Service resolves loan types through a catalog and computes quotes,
// recording logs and metrics. It holds no mutable state.
type Service struct {
	catalog   *catalog.Catalog
	logger    *zap.Logger
	generator *loans.AmortizationScheduleGenerator
}

// NewService constructs a Service over the given catalog.
func NewService(c *catalog.Catalog, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if c == nil {
		c = catalog.Default()
	}
	return &Service{
		catalog:   c,
		logger:    logger,
		generator: loans.NewAmortizationScheduleGenerator(logger),
	}
}

// Catalog returns the catalog the service resolves loan types from.
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// Quote resolves req.LoanTypeID and computes its quote.
func (s *Service) Quote(req LoanQuoteRequest) (LoanQuote, error) {
	config, err := s.catalog.GetLoanType(req.LoanTypeID)
	if err != nil {
		s.record(metrics.UnknownLoanTypeLabel, err)
		s.logger.Debug("quote rejected",
			zap.String("op", "calculator.Quote"),
			zap.String("loan_type", req.LoanTypeID),
			zap.Error(err),
		)
		return LoanQuote{}, err
	}

	quote, err := ComputeQuote(config, req.Amount, req.DurationMonths)
	s.record(config.ID, err)
	if err != nil {
		s.logFailure("calculator.Quote", config.ID, req.Amount, req.DurationMonths, err)
		return LoanQuote{}, err
	}

	metrics.QuoteAmount.WithLabelValues(config.ID).Observe(quote.LoanAmount)
	s.logger.Debug("quote computed",
		zap.String("op", "calculator.Quote"),
		zap.String("loan_type", config.ID),
		zap.Float64("amount", quote.LoanAmount),
		zap.Int("duration_months", quote.DurationMonths),
		zap.Float64("monthly_payment", quote.MonthlyPayment),
	)
	return quote, nil
}

// Affordability returns the quote for the largest amount of the loan type
// whose monthly payment fits monthlyBudget over durationMonths.
func (s *Service) Affordability(loanTypeID string, monthlyBudget float64, durationMonths int) (LoanQuote, error) {
	config, err := s.catalog.GetLoanType(loanTypeID)
	if err != nil {
		return LoanQuote{}, err
	}

	quote, err := MaxAffordableAmount(config, monthlyBudget, durationMonths)
	if err != nil {
		s.logFailure("calculator.Affordability", config.ID, monthlyBudget, durationMonths, err)
		return LoanQuote{}, err
	}
	return quote, nil
}

// Schedule generates the repayment schedule of quote starting at startDate.
func (s *Service) Schedule(quote LoanQuote, startDate time.Time) []RepaymentScheduleEntry {
	return collectSchedule(scheduleWith(s.generator, quote, startDate), quote.DurationMonths)
}

func (s *Service) logFailure(op, loanTypeID string, amount float64, duration int, err error) {
	fields := []zap.Field{
		zap.String("op", op),
		zap.String("loan_type", loanTypeID),
		zap.Float64("amount", amount),
		zap.Int("duration_months", duration),
		zap.Error(err),
	}
	if errors.Is(err, ErrCalculation) {
		s.logger.Error("loan calculation failed", fields...)
		return
	}
	s.logger.Debug("quote rejected", fields...)
}

func (s *Service) record(loanTypeID string, err error) {
	metrics.QuotesTotal.WithLabelValues(loanTypeID, Outcome(err)).Inc()
}

// Outcome maps a quote error to its metrics outcome label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, catalog.ErrUnknownLoanType):
		return metrics.OutcomeUnknownLoanType
	case errors.Is(err, ErrInvalidAmount):
		return metrics.OutcomeInvalidAmount
	case errors.Is(err, ErrInvalidDuration):
		return metrics.OutcomeInvalidDuration
	case errors.Is(err, ErrCalculation):
		return metrics.OutcomeCalculationError
	default:
		return metrics.OutcomeError
	}
}
