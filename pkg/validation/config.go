// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"
)

const (
	// LongTermMonths is the duration above which a loan type is flagged.
	LongTermMonths = 60
	// HighMonthlyRate is the monthly interest rate (percent) above which a
	// loan type is flagged.
	HighMonthlyRate = 10.0
)

// LoanTypeInfo carries the loan type fields inspected for warnings.
type LoanTypeInfo struct {
	ID                  string
	MaxDuration         int
	MonthlyInterestRate float64
	RequiredDocuments   int
	EligibilityCriteria int
}

// ValidateLoanType returns advisory warnings for a loan type that passed
// structural validation but looks unusual.
func ValidateLoanType(lt LoanTypeInfo) []string {
	var warnings []string

	if lt.MaxDuration > LongTermMonths {
		warnings = append(warnings, fmt.Sprintf("Loan type '%s' allows durations up to %d months (more than %d)",
			lt.ID, lt.MaxDuration, LongTermMonths))
	}
	if lt.MonthlyInterestRate > HighMonthlyRate {
		warnings = append(warnings, fmt.Sprintf("Loan type '%s' has a monthly interest rate of %.2f%% (more than %.2f%%)",
			lt.ID, lt.MonthlyInterestRate, HighMonthlyRate))
	}
	if lt.RequiredDocuments == 0 {
		warnings = append(warnings, fmt.Sprintf("Loan type '%s' requires no documents", lt.ID))
	}
	if lt.EligibilityCriteria == 0 {
		warnings = append(warnings, fmt.Sprintf("Loan type '%s' lists no eligibility criteria", lt.ID))
	}

	return warnings
}

// ConfigValidator collects the configuration values that produce warnings.
type ConfigValidator struct {
	LoanTypes     []LoanTypeInfo
	RedisAddress  string
	DatabaseDSN   string
	DraftTTLHours float64
}

// ValidateAll validates the entire configuration and returns warnings
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string

	for _, lt := range cv.LoanTypes {
		warnings = append(warnings, ValidateLoanType(lt)...)
	}

	if cv.RedisAddress == "" {
		warnings = append(warnings, "No redis address configured - draft applications are kept in memory and lost on restart")
	} else if cv.DraftTTLHours <= 0 {
		warnings = append(warnings, "redis.draftTTL is not positive - draft applications never expire")
	}

	if cv.DatabaseDSN == "" {
		warnings = append(warnings, "No database DSN configured - submitted applications are kept in memory")
	}

	return warnings
}
