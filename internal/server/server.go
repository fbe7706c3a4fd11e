package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/loan-calculator/internal/calculator"
	"github.com/iwvelando/loan-calculator/internal/catalog"
	"github.com/iwvelando/loan-calculator/internal/draft"
	"github.com/iwvelando/loan-calculator/internal/metrics"
	"github.com/iwvelando/loan-calculator/internal/submission"
	"github.com/iwvelando/loan-calculator/pkg/constants"
	"github.com/iwvelando/loan-calculator/pkg/datetime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Options holds the collaborators served by the API handler.
type Options struct {
	Logger      *zap.Logger
	Calculator  *calculator.Service
	Drafts      draft.Store
	Submissions *submission.Service
	MaxBodySize int64
	Version     string
}

type handler struct {
	logger      *zap.Logger
	calculator  *calculator.Service
	drafts      draft.Store
	submissions *submission.Service
	maxBodySize int64
	version     string
	now         func() time.Time
}

// NewHandler constructs the HTTP handler that serves the loan API.
func NewHandler(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	maxBodySize := opts.MaxBodySize
	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	calc := opts.Calculator
	if calc == nil {
		calc = calculator.NewService(nil, logger)
	}
	drafts := opts.Drafts
	if drafts == nil {
		drafts = draft.NewMemoryStore()
	}
	submissions := opts.Submissions
	if submissions == nil {
		submissions = submission.NewService(calc, submission.NewMemoryRepository(), logger)
	}

	h := &handler{
		logger:      logger,
		calculator:  calc,
		drafts:      drafts,
		submissions: submissions,
		maxBodySize: maxBodySize,
		version:     trimmedVersion,
		now:         time.Now,
	}

	mux := http.NewServeMux()
	h.route(mux, "GET /api/loan-types", h.handleListLoanTypes)
	h.route(mux, "GET /api/loan-types/{id}", h.handleGetLoanType)
	h.route(mux, "POST /api/quote", h.handleQuote)
	h.route(mux, "POST /api/affordability", h.handleAffordability)
	h.route(mux, "POST /api/drafts", h.handleCreateDraft)
	h.route(mux, "PUT /api/drafts/{id}", h.handleSaveDraft)
	h.route(mux, "GET /api/drafts/{id}", h.handleGetDraft)
	h.route(mux, "DELETE /api/drafts/{id}", h.handleDeleteDraft)
	h.route(mux, "POST /api/applications", h.handleSubmit)
	h.route(mux, "POST /api/applications/{id}/documents/{type}", h.handleUploadDocument)
	h.route(mux, "GET /api/version", h.handleVersion)
	mux.Handle("GET /metrics", promhttp.Handler())

	return mux
}

// route registers fn under pattern and records its latency.
func (h *handler) route(mux *http.ServeMux, pattern string, fn http.HandlerFunc) {
	method, path, _ := strings.Cut(pattern, " ")
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		fn(rec, r)
		metrics.HTTPRequestDuration.
			WithLabelValues(path, method, strconv.Itoa(rec.status)).
			Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

type loanTypesResponse struct {
	LoanTypes []catalog.LoanTypeConfig `json:"loanTypes" yaml:"loanTypes"`
}

type quoteRequest struct {
	LoanTypeID      string  `json:"loanTypeId"`
	Amount          float64 `json:"amount"`
	DurationMonths  int     `json:"durationMonths"`
	StartDate       string  `json:"startDate,omitempty"`
	IncludeSchedule bool    `json:"includeSchedule,omitempty"`
}

type scheduleEntry struct {
	Month            int     `json:"month"`
	PaymentDate      string  `json:"paymentDate"`
	MonthlyPayment   float64 `json:"monthlyPayment"`
	PrincipalPayment float64 `json:"principalPayment"`
	InterestPayment  float64 `json:"interestPayment"`
	RemainingBalance float64 `json:"remainingBalance"`
}

type quoteResponse struct {
	Quote    calculator.LoanQuote        `json:"quote"`
	Schedule []scheduleEntry             `json:"schedule,omitempty"`
	Summary  *calculator.ScheduleSummary `json:"summary,omitempty"`
}

type affordabilityRequest struct {
	LoanTypeID     string  `json:"loanTypeId"`
	MonthlyBudget  float64 `json:"monthlyBudget"`
	DurationMonths int     `json:"durationMonths"`
}

type submitRequest struct {
	DraftID string `json:"draftId"`
}

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Min       any    `json:"min,omitempty"`
	Max       any    `json:"max,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
}

func (h *handler) handleListLoanTypes(w http.ResponseWriter, r *http.Request) {
	h.writeFormatted(w, r, http.StatusOK, loanTypesResponse{LoanTypes: h.calculator.Catalog().ListLoanTypes()})
}

func (h *handler) handleGetLoanType(w http.ResponseWriter, r *http.Request) {
	lt, err := h.calculator.Catalog().GetLoanType(r.PathValue("id"))
	if err != nil {
		h.respondDomainError(w, err, "server.handleGetLoanType")
		return
	}
	h.writeFormatted(w, r, http.StatusOK, lt)
}

func (h *handler) handleQuote(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleQuote"

	var req quoteRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}

	start, err := datetime.ParseDate(req.StartDate, h.now())
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, errorResponse{
			Error: fmt.Sprintf("invalid startDate, expected %s", datetime.DateLayout),
			Code:  "INVALID_START_DATE",
		}, op)
		return
	}

	quote, err := h.calculator.Quote(calculator.LoanQuoteRequest{
		LoanTypeID:     req.LoanTypeID,
		Amount:         req.Amount,
		DurationMonths: req.DurationMonths,
	})
	if err != nil {
		h.respondDomainError(w, err, op)
		return
	}

	resp := quoteResponse{Quote: quote}
	if req.IncludeSchedule {
		entries := h.calculator.Schedule(quote, start)
		resp.Schedule = make([]scheduleEntry, len(entries))
		for i, e := range entries {
			resp.Schedule[i] = scheduleEntry{
				Month:            e.Month,
				PaymentDate:      datetime.Format(e.PaymentDate),
				MonthlyPayment:   e.MonthlyPayment,
				PrincipalPayment: e.PrincipalPayment,
				InterestPayment:  e.InterestPayment,
				RemainingBalance: e.RemainingBalance,
			}
		}
		summary := calculator.SummarizeSchedule(entries)
		resp.Summary = &summary
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleAffordability(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAffordability"

	var req affordabilityRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}

	quote, err := h.calculator.Affordability(req.LoanTypeID, req.MonthlyBudget, req.DurationMonths)
	if err != nil {
		h.respondDomainError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, quoteResponse{Quote: quote})
}

func (h *handler) handleCreateDraft(w http.ResponseWriter, r *http.Request) {
	app := draft.New()
	if err := h.drafts.Save(r.Context(), app); err != nil {
		metrics.DraftsSaved.WithLabelValues(metrics.OutcomeError).Inc()
		h.respondDomainError(w, err, "server.handleCreateDraft")
		return
	}
	metrics.DraftsSaved.WithLabelValues(metrics.OutcomeOK).Inc()
	h.writeJSON(w, http.StatusCreated, app)
}

func (h *handler) handleSaveDraft(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSaveDraft"

	body, ok := h.readBody(w, r, op)
	if !ok {
		return
	}

	app, err := draft.Decode(body)
	if err != nil {
		metrics.DraftsSaved.WithLabelValues(metrics.OutcomeError).Inc()
		h.respondDomainError(w, err, op)
		return
	}
	if app.ID != r.PathValue("id") {
		h.respondErrorWithOp(w, http.StatusBadRequest, errorResponse{
			Error: "draft id does not match the request path",
			Code:  "INVALID_DRAFT",
		}, op)
		return
	}

	if err := h.drafts.Save(r.Context(), app); err != nil {
		metrics.DraftsSaved.WithLabelValues(metrics.OutcomeError).Inc()
		h.respondDomainError(w, err, op)
		return
	}
	metrics.DraftsSaved.WithLabelValues(metrics.OutcomeOK).Inc()
	h.writeJSON(w, http.StatusOK, app)
}

func (h *handler) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	app, err := h.drafts.Load(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondDomainError(w, err, "server.handleGetDraft")
		return
	}
	h.writeJSON(w, http.StatusOK, app)
}

func (h *handler) handleDeleteDraft(w http.ResponseWriter, r *http.Request) {
	if err := h.drafts.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.respondDomainError(w, err, "server.handleDeleteDraft")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSubmit"

	var req submitRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}

	app, err := h.drafts.Load(r.Context(), req.DraftID)
	if err != nil {
		h.respondDomainError(w, err, op)
		return
	}

	result, err := h.submissions.Submit(r.Context(), app)
	if err != nil {
		h.respondDomainError(w, err, op)
		return
	}

	if err := h.drafts.Delete(r.Context(), app.ID); err != nil && !errors.Is(err, draft.ErrDraftNotFound) {
		h.logger.Warn("failed to delete submitted draft",
			zap.String("op", op),
			zap.String("draft_id", app.ID),
			zap.Error(err),
		)
	}
	h.writeJSON(w, http.StatusCreated, result)
}

func (h *handler) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleUploadDocument"

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	if err := r.ParseMultipartForm(h.maxBodySize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge, errorResponse{
				Error: fmt.Sprintf("upload exceeds limit of %d bytes", h.maxBodySize),
			}, op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, errorResponse{
			Error: fmt.Sprintf("failed to parse upload: %v", err),
		}, op)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, errorResponse{
			Error: "missing document file",
			Code:  string(submission.CodeInvalidDocument),
		}, op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, errorResponse{
			Error: fmt.Sprintf("failed to read document: %v", err),
		}, op)
		return
	}

	p, err := h.submissions.UploadDocument(r.Context(), r.PathValue("id"), r.PathValue("type"), header.Filename, data)
	if err != nil {
		h.respondDomainError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]string{"path": p})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) readBody(w http.ResponseWriter, r *http.Request, op string) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodySize))
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge, errorResponse{
				Error: fmt.Sprintf("request exceeds limit of %d bytes", h.maxBodySize),
			}, op)
			return nil, false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, errorResponse{
			Error: fmt.Sprintf("failed to read request: %v", err),
		}, op)
		return nil, false
	}
	return body, true
}

func (h *handler) decodeJSON(w http.ResponseWriter, r *http.Request, v any, op string) bool {
	body, ok := h.readBody(w, r, op)
	if !ok {
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, errorResponse{
			Error: fmt.Sprintf("failed to decode request: %v", err),
		}, op)
		return false
	}
	return true
}

// respondDomainError maps calculator, catalog, draft and submission errors
// to HTTP responses.
func (h *handler) respondDomainError(w http.ResponseWriter, err error, op string) {
	var (
		amountErr   *calculator.InvalidAmountError
		durationErr *calculator.InvalidDurationError
		submitErr   *submission.Error
	)

	switch {
	case errors.As(err, &amountErr):
		h.respondErrorWithOp(w, http.StatusBadRequest, errorResponse{
			Error: amountErr.Error(), Code: "INVALID_AMOUNT", Min: amountErr.Min, Max: amountErr.Max,
		}, op)
	case errors.As(err, &durationErr):
		h.respondErrorWithOp(w, http.StatusBadRequest, errorResponse{
			Error: durationErr.Error(), Code: "INVALID_DURATION", Min: durationErr.Min, Max: durationErr.Max,
		}, op)
	case errors.Is(err, calculator.ErrInvalidBudget):
		h.respondErrorWithOp(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Code: "INVALID_BUDGET"}, op)
	case errors.Is(err, catalog.ErrUnknownLoanType):
		h.respondErrorWithOp(w, http.StatusNotFound, errorResponse{Error: err.Error(), Code: "UNKNOWN_LOAN_TYPE"}, op)
	case errors.Is(err, calculator.ErrCalculation):
		h.respondErrorWithOp(w, http.StatusInternalServerError, errorResponse{Error: "unable to calculate", Code: "CALCULATION_ERROR"}, op)
	case errors.Is(err, draft.ErrDraftNotFound):
		h.respondErrorWithOp(w, http.StatusNotFound, errorResponse{Error: err.Error(), Code: "DRAFT_NOT_FOUND"}, op)
	case errors.Is(err, draft.ErrInvalidDraft), errors.Is(err, draft.ErrUnsupportedVersion):
		h.respondErrorWithOp(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Code: "INVALID_DRAFT"}, op)
	case errors.As(err, &submitErr):
		status := http.StatusInternalServerError
		switch submitErr.Code {
		case submission.CodeApplicationNotFound:
			status = http.StatusNotFound
		case submission.CodeInvalidApplication, submission.CodeInvalidDocument:
			status = http.StatusBadRequest
		default:
			if submitErr.Retryable {
				status = http.StatusServiceUnavailable
			}
		}
		h.respondErrorWithOp(w, status, errorResponse{
			Error: submitErr.Message, Code: string(submitErr.Code), Retryable: submitErr.Retryable,
		}, op)
	default:
		h.logger.Error("unexpected error",
			zap.String("op", op),
			zap.Error(err),
		)
		h.respondErrorWithOp(w, http.StatusInternalServerError, errorResponse{Error: "internal error"}, op)
	}
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, resp errorResponse, op string) {
	fields := []zap.Field{
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", resp.Error),
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", fields...)
	} else {
		h.logger.Debug("request rejected", fields...)
	}

	h.writeJSON(w, status, resp)
}

// writeFormatted writes payload as YAML when the request asks for
// ?format=yaml and as JSON otherwise.
func (h *handler) writeFormatted(w http.ResponseWriter, r *http.Request, status int, payload any) {
	if !strings.EqualFold(r.URL.Query().Get("format"), "yaml") {
		h.writeJSON(w, status, payload)
		return
	}

	data, err := yaml.Marshal(payload)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, errorResponse{
			Error: fmt.Sprintf("failed to encode YAML: %v", err),
		}, "server.writeFormatted")
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		h.logger.Error("failed to write YAML response", zap.Error(err))
	}
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
