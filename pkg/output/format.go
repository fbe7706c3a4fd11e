// Package output provides utilities for formatting and displaying loan quotes
// and repayment schedules.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/loan-calculator/internal/calculator"
	"github.com/iwvelando/loan-calculator/internal/catalog"
	"github.com/iwvelando/loan-calculator/pkg/constants"
	"github.com/iwvelando/loan-calculator/pkg/datetime"
	"github.com/iwvelando/loan-calculator/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat outputs a human-readable rather than machine-readable quote
// summary followed by the repayment table.
func PrettyFormat(w io.Writer, quote calculator.LoanQuote, schedule []calculator.RepaymentScheduleEntry) {
	p := message.NewPrinter(language.English)
	sym := constants.CurrencySymbol

	_, _ = fmt.Fprintf(w, "--- Quote for loan type %s ---\n", quote.LoanTypeID)
	_, _ = fmt.Fprintf(w, "Loan amount         | %s\n", format.Currency(quote.LoanAmount))
	_, _ = fmt.Fprintf(w, "Service fee         | %s\n", format.Currency(quote.ServiceFee))
	_, _ = fmt.Fprintf(w, "Net amount received | %s\n", format.Currency(quote.NetAmountReceived))
	_, _ = fmt.Fprintf(w, "Monthly payment     | %s\n", format.Currency(quote.MonthlyPayment))
	_, _ = fmt.Fprintf(w, "Total repayment     | %s\n", format.Currency(quote.TotalRepayment))
	_, _ = fmt.Fprintf(w, "Total interest      | %s\n", format.Currency(quote.TotalInterest))
	_, _ = fmt.Fprintf(w, "Monthly rate        | %s\n", format.Percent(quote.EffectiveMonthlyInterestRate))
	_, _ = fmt.Fprintf(w, "Duration            | %d months\n", quote.DurationMonths)

	if len(schedule) == 0 {
		return
	}

	_, _ = fmt.Fprintf(w, "\n")
	_, _ = fmt.Fprintf(w, "Month | Date       | Payment | Principal | Interest | Balance\n")
	_, _ = fmt.Fprintf(w, "_____ | __________ | _______ | _________ | ________ | _______\n")
	for _, entry := range schedule {
		_, _ = p.Fprintf(w, "%d | %s | %s%.2f | %s%.2f | %s%.2f | %s%.2f\n",
			entry.Month, datetime.Format(entry.PaymentDate),
			sym, entry.MonthlyPayment,
			sym, entry.PrincipalPayment,
			sym, entry.InterestPayment,
			sym, entry.RemainingBalance,
		)
	}

	summary := calculator.SummarizeSchedule(schedule)
	_, _ = p.Fprintf(w, "Total | | %s%.2f | %s%.2f | %s%.2f |\n",
		sym, summary.TotalPaid, sym, summary.TotalPrincipal, sym, summary.TotalInterest)
}

// CsvFormat outputs the repayment schedule in comma-separated value format.
// Every row repeats the loan type so concatenated outputs stay separable.
func CsvFormat(w io.Writer, quote calculator.LoanQuote, schedule []calculator.RepaymentScheduleEntry) {
	_, _ = fmt.Fprintf(w, `"loan type","month","date","payment","principal","interest","remaining balance"`)
	_, _ = fmt.Fprintf(w, "\n")
	for _, entry := range schedule {
		_, _ = fmt.Fprintf(w, `"%s","%d","%s","%.2f","%.2f","%.2f","%.2f"`,
			quote.LoanTypeID, entry.Month, datetime.Format(entry.PaymentDate),
			entry.MonthlyPayment, entry.PrincipalPayment, entry.InterestPayment, entry.RemainingBalance)
		_, _ = fmt.Fprintf(w, "\n")
	}
}

// Write renders quote and schedule in the named output format.
func Write(w io.Writer, outputFormat string, quote calculator.LoanQuote, schedule []calculator.RepaymentScheduleEntry) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		PrettyFormat(w, quote, schedule)
	case constants.OutputFormatCSV:
		CsvFormat(w, quote, schedule)
	default:
		return fmt.Errorf("unsupported output format %s", outputFormat)
	}
	return nil
}

// PrettyLoanTypes outputs the loan type catalog as a human-readable table.
func PrettyLoanTypes(w io.Writer, loanTypes []catalog.LoanTypeConfig) {
	p := message.NewPrinter(language.English)
	_, _ = fmt.Fprintf(w, "ID             | Name                   | Amount                    | Months | Rate   | Fee\n")
	_, _ = fmt.Fprintf(w, "__             | ____                   | ______                    | ______ | ____   | ___\n")
	for _, lt := range loanTypes {
		_, _ = p.Fprintf(w, "%-14s | %-22s | %s%.2f - %s%.2f | %d-%d | %s | %s\n",
			lt.ID, lt.Name,
			constants.CurrencySymbol, lt.MinAmount, constants.CurrencySymbol, lt.MaxAmount,
			lt.MinDuration, lt.MaxDuration,
			format.Percent(lt.MonthlyInterestRate), format.Percent(lt.ServiceFeeRate),
		)
	}
}

// CsvLoanTypes outputs the loan type catalog in comma-separated value format.
func CsvLoanTypes(w io.Writer, loanTypes []catalog.LoanTypeConfig) {
	_, _ = fmt.Fprintf(w, `"id","name","min amount","max amount","min duration","max duration","monthly interest rate","service fee rate","required documents"`)
	_, _ = fmt.Fprintf(w, "\n")
	for _, lt := range loanTypes {
		_, _ = fmt.Fprintf(w, `"%s","%s","%.2f","%.2f","%d","%d","%.2f","%.2f","%s"`,
			lt.ID, lt.Name, lt.MinAmount, lt.MaxAmount, lt.MinDuration, lt.MaxDuration,
			lt.MonthlyInterestRate, lt.ServiceFeeRate, strings.Join(lt.RequiredDocuments, ";"))
		_, _ = fmt.Fprintf(w, "\n")
	}
}

// WriteLoanTypes renders the loan type catalog in the named output format.
func WriteLoanTypes(w io.Writer, outputFormat string, loanTypes []catalog.LoanTypeConfig) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		PrettyLoanTypes(w, loanTypes)
	case constants.OutputFormatCSV:
		CsvLoanTypes(w, loanTypes)
	default:
		return fmt.Errorf("unsupported output format %s", outputFormat)
	}
	return nil
}
