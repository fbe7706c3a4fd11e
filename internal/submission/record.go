// Package submission turns a completed draft into a stored loan application
// and stores its supporting documents.
package submission

import (
	"time"

	"github.com/iwvelando/loan-calculator/internal/calculator"
	"github.com/iwvelando/loan-calculator/internal/draft"
)

// StatusSubmitted is the status of a newly created application.
const StatusSubmitted = "submitted"

// Record is the application handed to the persistence backend. The quote
// fields come from a server-side recomputation, never from the client.
type Record struct {
	DraftID             string                  `json:"draftId"`
	LoanTypeID          string                  `json:"loanTypeId"`
	Amount              float64                 `json:"amount"`
	DurationMonths      int                     `json:"durationMonths"`
	ServiceFee          float64                 `json:"serviceFee"`
	NetAmountReceived   float64                 `json:"netAmountReceived"`
	MonthlyPayment      float64                 `json:"monthlyPayment"`
	TotalRepayment      float64                 `json:"totalRepayment"`
	MonthlyInterestRate float64                 `json:"monthlyInterestRate"`
	Applicant           draft.PersonalDetails   `json:"applicant"`
	Employment          draft.EmploymentDetails `json:"employment"`
	Banking             draft.BankingDetails    `json:"banking"`
	Documents           []draft.Document        `json:"documents,omitempty"`
	Status              string                  `json:"status"`
	SubmittedAt         time.Time               `json:"submittedAt"`
}

// NewRecord builds a Record from a draft and its recomputed quote.
func NewRecord(app *draft.Application, quote calculator.LoanQuote, submittedAt time.Time) Record {
	docs := make([]draft.Document, len(app.Documents))
	copy(docs, app.Documents)

	return Record{
		DraftID:             app.ID,
		LoanTypeID:          quote.LoanTypeID,
		Amount:              quote.LoanAmount,
		DurationMonths:      quote.DurationMonths,
		ServiceFee:          quote.ServiceFee,
		NetAmountReceived:   quote.NetAmountReceived,
		MonthlyPayment:      quote.MonthlyPayment,
		TotalRepayment:      quote.TotalRepayment,
		MonthlyInterestRate: quote.EffectiveMonthlyInterestRate,
		Applicant:           app.Personal,
		Employment:          app.Employment,
		Banking:             app.Banking,
		Documents:           docs,
		Status:              StatusSubmitted,
		SubmittedAt:         submittedAt.UTC(),
	}
}
