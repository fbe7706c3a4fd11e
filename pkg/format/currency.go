// Package format renders monetary values for display.
package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/loan-calculator/pkg/constants"
)

// Currency returns a currency string with the Kwacha symbol and thousands separators (e.g., "-K1,234.56").
func Currency(amount float64) string {
	formatted := formatPositiveCurrency(math.Abs(amount))
	if amount < 0 && formatted != "0.00" {
		return "-" + constants.CurrencySymbol + formatted
	}
	return constants.CurrencySymbol + formatted
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	formatted := formatPositiveCurrency(math.Abs(amount))
	if amount < 0 && formatted != "0.00" {
		return "-" + formatted
	}
	return formatted
}

// Percent renders a rate such as 7 or 2.5 as "7.00%".
func Percent(rate float64) string {
	return fmt.Sprintf("%.2f%%", rate)
}

func formatPositiveCurrency(value float64) string {
	formatted := fmt.Sprintf("%.2f", value)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "." + decPart
}
