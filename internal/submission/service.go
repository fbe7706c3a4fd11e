package submission

import (
	"context"
	"strings"
	"time"

	"github.com/iwvelando/loan-calculator/internal/calculator"
	"github.com/iwvelando/loan-calculator/internal/draft"
	"github.com/iwvelando/loan-calculator/internal/metrics"
	"go.uber.org/zap"
)

// Result is the outcome of a successful submission.
type Result struct {
	ApplicationID string               `json:"applicationId"`
	Quote         calculator.LoanQuote `json:"quote"`
	Record        Record               `json:"-"`
}

// Service validates drafts and hands them to a Repository.
type Service struct {
	calculator *calculator.Service
	repo       Repository
	logger     *zap.Logger
	now        func() time.Time
}

// NewService creates a submission service.
func NewService(calc *calculator.Service, repo Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		calculator: calc,
		repo:       repo,
		logger:     logger,
		now:        time.Now,
	}
}

// Submit recomputes the draft's quote, checks that the applicant details and
// required documents are present and stores the application.
func (s *Service) Submit(ctx context.Context, app *draft.Application) (Result, error) {
	if app == nil {
		return Result{}, NewInvalidApplicationError("application is required")
	}

	quote, err := s.calculator.Quote(calculator.LoanQuoteRequest{
		LoanTypeID:     app.LoanTypeID,
		Amount:         app.Amount,
		DurationMonths: app.DurationMonths,
	})
	if err != nil {
		return Result{}, err
	}

	if err := s.validate(app, quote.LoanTypeID); err != nil {
		metrics.ApplicationsSubmitted.WithLabelValues(quote.LoanTypeID, string(CodeInvalidApplication)).Inc()
		s.logger.Debug("application rejected",
			zap.String("op", "submission.Submit"),
			zap.String("draft_id", app.ID),
			zap.Error(err),
		)
		return Result{}, err
	}

	record := NewRecord(app, quote, s.now())
	id, err := s.repo.CreateApplication(ctx, record)
	if err != nil {
		outcome := string(CodeOf(err))
		if outcome == "" {
			outcome = metrics.OutcomeError
		}
		metrics.ApplicationsSubmitted.WithLabelValues(quote.LoanTypeID, outcome).Inc()
		s.logger.Error("failed to submit application",
			zap.String("op", "submission.Submit"),
			zap.String("draft_id", app.ID),
			zap.Bool("retryable", IsRetryable(err)),
			zap.Error(err),
		)
		return Result{}, err
	}

	metrics.ApplicationsSubmitted.WithLabelValues(quote.LoanTypeID, metrics.OutcomeOK).Inc()
	s.logger.Info("application submitted",
		zap.String("op", "submission.Submit"),
		zap.String("draft_id", app.ID),
		zap.String("application_id", id),
		zap.String("loan_type", quote.LoanTypeID),
		zap.Float64("amount", quote.LoanAmount),
	)
	return Result{ApplicationID: id, Quote: quote, Record: record}, nil
}

// UploadDocument stores a document for a submitted application.
func (s *Service) UploadDocument(ctx context.Context, applicationID, documentType, filename string, data []byte) (string, error) {
	p, err := s.repo.UploadDocument(ctx, applicationID, documentType, filename, data)
	if err != nil {
		outcome := string(CodeOf(err))
		if outcome == "" {
			outcome = metrics.OutcomeError
		}
		metrics.DocumentsUploaded.WithLabelValues(outcome).Inc()
		return "", err
	}

	metrics.DocumentsUploaded.WithLabelValues(metrics.OutcomeOK).Inc()
	s.logger.Info("document uploaded",
		zap.String("op", "submission.UploadDocument"),
		zap.String("application_id", applicationID),
		zap.String("document_type", documentType),
		zap.Int("size_bytes", len(data)),
	)
	return p, nil
}

func (s *Service) validate(app *draft.Application, loanTypeID string) error {
	var missing []string
	if strings.TrimSpace(app.Personal.FullName) == "" {
		missing = append(missing, "personal.fullName")
	}
	if strings.TrimSpace(app.Personal.NRCNumber) == "" {
		missing = append(missing, "personal.nrcNumber")
	}
	if strings.TrimSpace(app.Personal.Phone) == "" {
		missing = append(missing, "personal.phone")
	}
	if strings.TrimSpace(app.Banking.AccountNumber) == "" {
		missing = append(missing, "banking.accountNumber")
	}
	if len(missing) > 0 {
		return NewInvalidApplicationError("missing fields: " + strings.Join(missing, ", "))
	}

	config, err := s.calculator.Catalog().GetLoanType(loanTypeID)
	if err != nil {
		return err
	}
	var docs []string
	for _, doc := range config.RequiredDocuments {
		if !app.HasDocument(doc) {
			docs = append(docs, doc)
		}
	}
	if len(docs) > 0 {
		return NewInvalidApplicationError("missing required documents: " + strings.Join(docs, ", "))
	}
	return nil
}
