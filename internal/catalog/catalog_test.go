package catalog

import (
	"errors"
	"strings"
	"testing"
)

func TestDefaultCatalogIsValid(t *testing.T) {
	c := Default()
	if c.Len() != 5 {
		t.Fatalf("expected 5 loan types, got %d", c.Len())
	}
	for _, lt := range c.ListLoanTypes() {
		if err := lt.Validate(); err != nil {
			t.Errorf("default loan type %s invalid: %v", lt.ID, err)
		}
		if len(lt.RequiredDocuments) == 0 {
			t.Errorf("default loan type %s has no required documents", lt.ID)
		}
		if lt.MaxDuration > 60 {
			t.Errorf("default loan type %s exceeds 60 months", lt.ID)
		}
	}
}

func TestListLoanTypesOrder(t *testing.T) {
	c := Default()
	expected := []string{GRZ, Personal, Business, Asset, SalaryAdvance}

	for run := 0; run < 2; run++ {
		types := c.ListLoanTypes()
		if len(types) != len(expected) {
			t.Fatalf("run %d: expected %d types, got %d", run, len(expected), len(types))
		}
		for i, id := range expected {
			if types[i].ID != id {
				t.Errorf("run %d: position %d = %s, expected %s", run, i, types[i].ID, id)
			}
		}
	}
}

func TestListLoanTypesReturnsCopies(t *testing.T) {
	c := Default()
	types := c.ListLoanTypes()
	types[0].MaxAmount = 1
	types[0].RequiredDocuments[0] = "tampered"

	again := c.ListLoanTypes()
	if again[0].MaxAmount == 1 {
		t.Errorf("mutating a listed loan type changed the catalog")
	}
	if again[0].RequiredDocuments[0] == "tampered" {
		t.Errorf("mutating listed documents changed the catalog")
	}
}

func TestGetLoanType(t *testing.T) {
	c := Default()

	tests := []struct {
		name       string
		id         string
		expectedID string
		wantErr    bool
	}{
		{name: "Exact id", id: "PERSONAL", expectedID: Personal},
		{name: "Lower case", id: "grz", expectedID: GRZ},
		{name: "Whitespace", id: "  salary_advance ", expectedID: SalaryAdvance},
		{name: "Unknown", id: "NONEXISTENT", wantErr: true},
		{name: "Empty", id: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lt, err := c.GetLoanType(tt.id)
			if tt.wantErr {
				var unknown *UnknownLoanTypeError
				if !errors.As(err, &unknown) {
					t.Fatalf("GetLoanType(%q) error = %v, expected UnknownLoanTypeError", tt.id, err)
				}
				if unknown.ID != tt.id {
					t.Errorf("UnknownLoanTypeError.ID = %q, expected %q", unknown.ID, tt.id)
				}
				if !errors.Is(err, ErrUnknownLoanType) {
					t.Errorf("expected errors.Is(err, ErrUnknownLoanType)")
				}
				return
			}
			if err != nil {
				t.Fatalf("GetLoanType(%q) unexpected error: %v", tt.id, err)
			}
			if lt.ID != tt.expectedID {
				t.Errorf("GetLoanType(%q).ID = %s, expected %s", tt.id, lt.ID, tt.expectedID)
			}
		})
	}
}

func TestPersonalLoanParameters(t *testing.T) {
	lt, err := Default().GetLoanType(Personal)
	if err != nil {
		t.Fatalf("GetLoanType() error = %v", err)
	}
	if lt.MinAmount != 2000 || lt.MaxAmount != 50000 {
		t.Errorf("amount bounds = [%v, %v], expected [2000, 50000]", lt.MinAmount, lt.MaxAmount)
	}
	if lt.MonthlyInterestRate != 7 || lt.ServiceFeeRate != 2 {
		t.Errorf("rates = %v/%v, expected 7/2", lt.MonthlyInterestRate, lt.ServiceFeeRate)
	}
	if !lt.RequiresDocument(DocNRC) {
		t.Errorf("expected personal loan to require %s", DocNRC)
	}
	if lt.RequiresDocument("Business Plan") {
		t.Errorf("personal loan should not require a business plan")
	}
}

func TestNewRejectsInvalidConfigs(t *testing.T) {
	valid := LoanTypeConfig{
		ID: "TEST", Name: "Test", MinAmount: 100, MaxAmount: 1000,
		MinDuration: 1, MaxDuration: 12, MonthlyInterestRate: 5, ServiceFeeRate: 1,
	}

	tests := []struct {
		name    string
		mutate  func(*LoanTypeConfig)
		errText string
	}{
		{"Missing id", func(lt *LoanTypeConfig) { lt.ID = " " }, "id is required"},
		{"Zero minimum amount", func(lt *LoanTypeConfig) { lt.MinAmount = 0 }, "amount bounds"},
		{"Inverted amounts", func(lt *LoanTypeConfig) { lt.MaxAmount = 50 }, "amount bounds"},
		{"Zero minimum duration", func(lt *LoanTypeConfig) { lt.MinDuration = 0 }, "duration bounds"},
		{"Inverted durations", func(lt *LoanTypeConfig) { lt.MaxDuration = 0 }, "duration bounds"},
		{"Negative interest", func(lt *LoanTypeConfig) { lt.MonthlyInterestRate = -1 }, "interest rate"},
		{"Negative fee", func(lt *LoanTypeConfig) { lt.ServiceFeeRate = -0.5 }, "service fee"},
		{"Fee above principal", func(lt *LoanTypeConfig) { lt.ServiceFeeRate = 101 }, "service fee"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lt := valid
			tt.mutate(&lt)
			_, err := New([]LoanTypeConfig{lt})
			if err == nil {
				t.Fatalf("New() expected error")
			}
			if !strings.Contains(err.Error(), tt.errText) {
				t.Errorf("New() error = %q, expected to contain %q", err.Error(), tt.errText)
			}
		})
	}
}

func TestNewRejectsDuplicatesAndEmpty(t *testing.T) {
	lt := DefaultLoanTypes()[1]
	dup := lt
	dup.ID = strings.ToLower(lt.ID)

	if _, err := New([]LoanTypeConfig{lt, dup}); err == nil {
		t.Errorf("New() expected duplicate id error")
	}
	if _, err := New(nil); err == nil {
		t.Errorf("New() expected error for empty catalog")
	}
}
