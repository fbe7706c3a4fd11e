// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/loan-calculator/internal/catalog"
	"github.com/iwvelando/loan-calculator/internal/draft"
)

// FindLoanType finds a loan type by id in the loanTypes slice.
// Returns a pointer to the loan type if found, nil otherwise.
func FindLoanType(loanTypes []catalog.LoanTypeConfig, id string) *catalog.LoanTypeConfig {
	for i := range loanTypes {
		if loanTypes[i].ID == id {
			return &loanTypes[i]
		}
	}
	return nil
}

// CompleteDraft returns a draft for lt that is ready to submit: applicant
// details are filled in and every required document is attached.
func CompleteDraft(lt catalog.LoanTypeConfig, amount float64, durationMonths int) *draft.Application {
	app := draft.New()
	app.LoanTypeID = lt.ID
	app.Amount = amount
	app.DurationMonths = durationMonths
	app.Personal = draft.PersonalDetails{
		FullName:  "Mutale Banda",
		NRCNumber: "123456/10/1",
		Phone:     "+260977000000",
		Email:     "mutale.banda@example.com",
	}
	app.Employment = draft.EmploymentDetails{EmployerName: "Zambia Sugar", MonthlyIncome: 8500}
	app.Banking = draft.BankingDetails{BankName: "Zanaco", BranchCode: "001", AccountNumber: "0012345678"}
	for _, doc := range lt.RequiredDocuments {
		app.AttachDocument(draft.Document{Type: doc, Filename: "scan.pdf"})
	}
	return app
}
