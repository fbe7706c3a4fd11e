// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeOK               = "ok"
	OutcomeInvalidAmount    = "invalid_amount"
	OutcomeInvalidDuration  = "invalid_duration"
	OutcomeUnknownLoanType  = "unknown_loan_type"
	OutcomeCalculationError = "calculation_error"
	OutcomeError            = "error"
)

// UnknownLoanTypeLabel replaces loan type ids that are not in the catalog so
// user input cannot grow label cardinality.
const UnknownLoanTypeLabel = "unknown"

var (
	QuotesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_quotes_total",
			Help: "Total number of loan quote calculations by outcome",
		},
		[]string{"loan_type", "outcome"},
	)

	QuoteAmount = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "loan_quote_amount",
			Help:    "Requested principal of successfully computed quotes",
			Buckets: prometheus.ExponentialBuckets(500, 2, 11),
		},
		[]string{"loan_type"},
	)

	DraftsSaved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_drafts_saved_total",
			Help: "Total number of draft applications saved",
		},
		[]string{"outcome"},
	)

	ApplicationsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_applications_submitted_total",
			Help: "Total number of loan applications submitted to the persistence backend",
		},
		[]string{"loan_type", "outcome"},
	)

	DocumentsUploaded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_documents_uploaded_total",
			Help: "Total number of application documents uploaded",
		},
		[]string{"outcome"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "loan_http_request_duration_seconds",
			Help: "Duration of API requests in seconds",
		},
		[]string{"route", "method", "status"},
	)
)
