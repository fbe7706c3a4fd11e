package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/iwvelando/loan-calculator/internal/calculator"
	"github.com/iwvelando/loan-calculator/internal/catalog"
	"github.com/iwvelando/loan-calculator/pkg/datetime"
)

func personalQuote(t *testing.T) (calculator.LoanQuote, []calculator.RepaymentScheduleEntry) {
	t.Helper()
	config, err := catalog.Default().GetLoanType(catalog.Personal)
	if err != nil {
		t.Fatalf("GetLoanType() error = %v", err)
	}
	quote, err := calculator.ComputeQuote(config, 10000, 12)
	if err != nil {
		t.Fatalf("ComputeQuote() error = %v", err)
	}
	start := datetime.MustParseTime(datetime.DateLayout, "2026-01-01")
	return quote, calculator.GenerateSchedule(quote, start)
}

func TestPrettyFormat(t *testing.T) {
	quote, schedule := personalQuote(t)

	var buf bytes.Buffer
	PrettyFormat(&buf, quote, schedule)
	output := buf.String()

	expected := []string{
		"--- Quote for loan type PERSONAL ---",
		"Loan amount         | K10,000.00",
		"Service fee         | K200.00",
		"Net amount received | K9,800.00",
		"Monthly payment     | K1,259.02",
		"Total repayment     | K15,108.24",
		"Monthly rate        | 7.00%",
		"Duration            | 12 months",
		"Month | Date       | Payment | Principal | Interest | Balance",
		"1 | 2026-01-31 | K1,259.02 | K559.02 | K700.00 | K9,440.98",
		"| K0.00\n",
		"Total | | K15,108.24 | K10,000.00 |",
	}
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("PrettyFormat() output missing %q\n%s", want, output)
		}
	}
}

func TestPrettyFormatWithoutSchedule(t *testing.T) {
	quote, _ := personalQuote(t)

	var buf bytes.Buffer
	PrettyFormat(&buf, quote, nil)

	if strings.Contains(buf.String(), "Month | Date") {
		t.Errorf("PrettyFormat() printed a schedule table for an empty schedule")
	}
}

func TestCsvFormat(t *testing.T) {
	quote, schedule := personalQuote(t)

	var buf bytes.Buffer
	CsvFormat(&buf, quote, schedule)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")

	if len(lines) != len(schedule)+1 {
		t.Fatalf("CsvFormat() produced %d lines, expected %d", len(lines), len(schedule)+1)
	}
	if lines[0] != `"loan type","month","date","payment","principal","interest","remaining balance"` {
		t.Errorf("CsvFormat() header = %s", lines[0])
	}
	if lines[1] != `"PERSONAL","1","2026-01-31","1259.02","559.02","700.00","9440.98"` {
		t.Errorf("CsvFormat() first row = %s", lines[1])
	}
	if !strings.HasSuffix(lines[12], `"0.00"`) {
		t.Errorf("CsvFormat() last row should end with a zero balance, got %s", lines[12])
	}
}

func TestWrite(t *testing.T) {
	quote, schedule := personalQuote(t)

	tests := []struct {
		name      string
		format    string
		prefix    string
		expectErr bool
	}{
		{name: "Pretty", format: "pretty", prefix: "--- Quote"},
		{name: "CSV", format: "csv", prefix: `"loan type"`},
		{name: "Unsupported", format: "json", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := Write(&buf, tt.format, quote, schedule)
			if tt.expectErr {
				if err == nil {
					t.Errorf("Write(%s) expected error but got none", tt.format)
				}
				return
			}
			if err != nil {
				t.Fatalf("Write(%s) error = %v", tt.format, err)
			}
			if !strings.HasPrefix(buf.String(), tt.prefix) {
				t.Errorf("Write(%s) output starts with %q, expected prefix %q", tt.format, buf.String()[:20], tt.prefix)
			}
		})
	}
}

func TestWriteLoanTypes(t *testing.T) {
	loanTypes := catalog.Default().ListLoanTypes()

	var pretty bytes.Buffer
	if err := WriteLoanTypes(&pretty, "pretty", loanTypes); err != nil {
		t.Fatalf("WriteLoanTypes(pretty) error = %v", err)
	}
	if !strings.Contains(pretty.String(), "K2,000.00 - K50,000.00") {
		t.Errorf("WriteLoanTypes(pretty) missing PERSONAL amount range:\n%s", pretty.String())
	}

	var csv bytes.Buffer
	if err := WriteLoanTypes(&csv, "csv", loanTypes); err != nil {
		t.Fatalf("WriteLoanTypes(csv) error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(csv.String()), "\n")
	if len(lines) != len(loanTypes)+1 {
		t.Fatalf("WriteLoanTypes(csv) produced %d lines, expected %d", len(lines), len(loanTypes)+1)
	}
	if !strings.HasPrefix(lines[2], `"PERSONAL","Personal Loan","2000.00","50000.00","3","36","7.00","2.00"`) {
		t.Errorf("WriteLoanTypes(csv) PERSONAL row = %s", lines[2])
	}

	if err := WriteLoanTypes(&csv, "xml", loanTypes); err == nil {
		t.Errorf("WriteLoanTypes(xml) expected error")
	}
}
