// Package draft holds the versioned draft loan application that a client
// builds up across form steps, and the stores that keep it between requests.
package draft

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/loan-calculator/internal/calculator"
	"github.com/xeipuuv/gojsonschema"
)

// SchemaVersion is the current serialized form of Application.
const SchemaVersion = 1

var (
	// ErrInvalidDraft is returned by Decode for data that does not match the
	// draft schema.
	ErrInvalidDraft = errors.New("invalid draft application")
	// ErrUnsupportedVersion is returned by Decode for a draft written with a
	// schema version this build does not understand.
	ErrUnsupportedVersion = errors.New("unsupported draft version")
)

//go:embed schema.json
var schemaJSON string

var schema = mustLoadSchema()

func mustLoadSchema() *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		panic(fmt.Sprintf("draft schema: %v", err))
	}
	return s
}

// PersonalDetails identifies the applicant.
type PersonalDetails struct {
	FullName    string `json:"fullName,omitempty"`
	NRCNumber   string `json:"nrcNumber,omitempty"`
	DateOfBirth string `json:"dateOfBirth,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	Address     string `json:"address,omitempty"`
}

// EmploymentDetails describes the applicant's income source.
type EmploymentDetails struct {
	EmployerName   string  `json:"employerName,omitempty"`
	JobTitle       string  `json:"jobTitle,omitempty"`
	EmployeeNumber string  `json:"employeeNumber,omitempty"`
	MonthlyIncome  float64 `json:"monthlyIncome,omitempty"`
}

// BankingDetails is where the loan is disbursed.
type BankingDetails struct {
	BankName      string `json:"bankName,omitempty"`
	BranchCode    string `json:"branchCode,omitempty"`
	AccountNumber string `json:"accountNumber,omitempty"`
}

// Document references a file attached to the draft. Path is set once the
// file has been uploaded to the persistence backend.
type Document struct {
	Type     string `json:"type"`
	Filename string `json:"filename"`
	Path     string `json:"path,omitempty"`
}

// Application is a loan application in progress. Quote is informational;
// submission recomputes it.
type Application struct {
	Version        int                   `json:"version"`
	ID             string                `json:"id"`
	LoanTypeID     string                `json:"loanTypeId,omitempty"`
	Amount         float64               `json:"amount,omitempty"`
	DurationMonths int                   `json:"durationMonths,omitempty"`
	Personal       PersonalDetails       `json:"personal"`
	Employment     EmploymentDetails     `json:"employment"`
	Banking        BankingDetails        `json:"banking"`
	Documents      []Document            `json:"documents,omitempty"`
	Quote          *calculator.LoanQuote `json:"quote,omitempty"`
	UpdatedAt      time.Time             `json:"updatedAt"`
}

// New returns an empty draft with a fresh id.
func New() *Application {
	return &Application{
		Version: SchemaVersion,
		ID:      uuid.NewString(),
	}
}

// HasDocument reports whether a document of documentType is attached.
func (a *Application) HasDocument(documentType string) bool {
	for _, d := range a.Documents {
		if d.Type == documentType {
			return true
		}
	}
	return false
}

// AttachDocument records a document, replacing any earlier one of the same
// type.
func (a *Application) AttachDocument(doc Document) {
	for i, d := range a.Documents {
		if d.Type == doc.Type {
			a.Documents[i] = doc
			return
		}
	}
	a.Documents = append(a.Documents, doc)
}

// Encode serializes a draft at the current schema version.
func Encode(a *Application) ([]byte, error) {
	if a == nil {
		return nil, fmt.Errorf("%w: nil application", ErrInvalidDraft)
	}
	if strings.TrimSpace(a.ID) == "" {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidDraft)
	}
	out := *a
	out.Version = SchemaVersion
	return json.Marshal(&out)
}

// Decode parses and validates a serialized draft.
func Decode(data []byte) (*Application, error) {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDraft, err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidDraft, strings.Join(errs, "; "))
	}

	var app Application
	if err := json.Unmarshal(data, &app); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDraft, err)
	}
	if app.Version != SchemaVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, app.Version)
	}
	return &app, nil
}
