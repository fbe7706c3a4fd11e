// Package catalog holds the fixed set of loan products and their bounds,
// rates, required documents and eligibility rules.
package catalog

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
)

// ErrUnknownLoanType is matched by UnknownLoanTypeError via errors.Is.
var ErrUnknownLoanType = errors.New("unknown loan type")

// UnknownLoanTypeError reports a loan type id that is not in the catalog.
type UnknownLoanTypeError struct {
	ID string
}

func (e *UnknownLoanTypeError) Error() string {
	return fmt.Sprintf("unknown loan type %q", e.ID)
}

// Is reports whether target is ErrUnknownLoanType.
func (e *UnknownLoanTypeError) Is(target error) bool {
	return target == ErrUnknownLoanType
}

// LoanTypeConfig describes one loan product.
type LoanTypeConfig struct {
	ID                  string   `mapstructure:"id" yaml:"id" json:"id"`
	Name                string   `mapstructure:"name" yaml:"name" json:"name"`
	Description         string   `mapstructure:"description" yaml:"description,omitempty" json:"description,omitempty"`
	MinAmount           float64  `mapstructure:"minAmount" yaml:"minAmount" json:"minAmount"`
	MaxAmount           float64  `mapstructure:"maxAmount" yaml:"maxAmount" json:"maxAmount"`
	MinDuration         int      `mapstructure:"minDuration" yaml:"minDuration" json:"minDuration"` // months
	MaxDuration         int      `mapstructure:"maxDuration" yaml:"maxDuration" json:"maxDuration"` // months
	MonthlyInterestRate float64  `mapstructure:"monthlyInterestRate" yaml:"monthlyInterestRate" json:"monthlyInterestRate"`
	ServiceFeeRate      float64  `mapstructure:"serviceFeeRate" yaml:"serviceFeeRate" json:"serviceFeeRate"`
	RequiredDocuments   []string `mapstructure:"requiredDocuments" yaml:"requiredDocuments" json:"requiredDocuments"`
	EligibilityCriteria []string `mapstructure:"eligibilityCriteria" yaml:"eligibilityCriteria" json:"eligibilityCriteria"`
}

// Validate checks the bounds and rate invariants of a single loan type.
func (lt LoanTypeConfig) Validate() error {
	if strings.TrimSpace(lt.ID) == "" {
		return errors.New("loan type id is required")
	}
	if !(lt.MinAmount > 0) || !(lt.MaxAmount >= lt.MinAmount) || math.IsInf(lt.MaxAmount, 1) {
		return fmt.Errorf("loan type %s: amount bounds must satisfy 0 < minAmount <= maxAmount, got [%v, %v]",
			lt.ID, lt.MinAmount, lt.MaxAmount)
	}
	if lt.MinDuration <= 0 || lt.MinDuration > lt.MaxDuration {
		return fmt.Errorf("loan type %s: duration bounds must satisfy 0 < minDuration <= maxDuration, got [%d, %d]",
			lt.ID, lt.MinDuration, lt.MaxDuration)
	}
	if !(lt.MonthlyInterestRate >= 0) || math.IsInf(lt.MonthlyInterestRate, 1) {
		return fmt.Errorf("loan type %s: monthly interest rate must be >= 0, got %v", lt.ID, lt.MonthlyInterestRate)
	}
	if !(lt.ServiceFeeRate >= 0) || lt.ServiceFeeRate > 100 {
		return fmt.Errorf("loan type %s: service fee rate must be between 0 and 100, got %v", lt.ID, lt.ServiceFeeRate)
	}
	return nil
}

// RequiresDocument reports whether documentType is one of the loan type's
// required documents.
func (lt LoanTypeConfig) RequiresDocument(documentType string) bool {
	return slices.Contains(lt.RequiredDocuments, documentType)
}

func (lt LoanTypeConfig) clone() LoanTypeConfig {
	lt.RequiredDocuments = slices.Clone(lt.RequiredDocuments)
	lt.EligibilityCriteria = slices.Clone(lt.EligibilityCriteria)
	return lt
}

// Catalog is an immutable, ordered set of loan types. It is safe for
// concurrent use.
type Catalog struct {
	types []LoanTypeConfig
	index map[string]int
}

// New builds a catalog from configs in the given order. Every record must
// pass Validate and ids must be unique (case-insensitively).
func New(configs []LoanTypeConfig) (*Catalog, error) {
	if len(configs) == 0 {
		return nil, errors.New("catalog must contain at least one loan type")
	}

	c := &Catalog{
		types: make([]LoanTypeConfig, 0, len(configs)),
		index: make(map[string]int, len(configs)),
	}
	for _, lt := range configs {
		lt.ID = strings.TrimSpace(lt.ID)
		if err := lt.Validate(); err != nil {
			return nil, err
		}
		key := normalizeID(lt.ID)
		if _, dup := c.index[key]; dup {
			return nil, fmt.Errorf("duplicate loan type id %s", lt.ID)
		}
		c.index[key] = len(c.types)
		c.types = append(c.types, lt.clone())
	}
	return c, nil
}

// GetLoanType returns the loan type with the given id. Lookup ignores case
// and surrounding whitespace.
func (c *Catalog) GetLoanType(id string) (LoanTypeConfig, error) {
	i, ok := c.index[normalizeID(id)]
	if !ok {
		return LoanTypeConfig{}, &UnknownLoanTypeError{ID: id}
	}
	return c.types[i].clone(), nil
}

// ListLoanTypes returns every loan type in declaration order.
func (c *Catalog) ListLoanTypes() []LoanTypeConfig {
	out := make([]LoanTypeConfig, len(c.types))
	for i, lt := range c.types {
		out[i] = lt.clone()
	}
	return out
}

// Len returns the number of loan types.
func (c *Catalog) Len() int {
	return len(c.types)
}

func normalizeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}
