// Package datetime provides date and time utility functions.
package datetime

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/loan-calculator/pkg/constants"
)

const (
	// DateLayout is the format expected for dates in config files, on the
	// CLI and in API payloads. It is also the output date format.
	DateLayout = constants.DateLayout
)

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseDate parses a DateLayout date. An empty string yields fallback
// truncated to midnight UTC.
func ParseDate(value string, fallback time.Time) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		y, m, d := fallback.UTC().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse(DateLayout, trimmed)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected format %s: %w", value, DateLayout, err)
	}
	return t, nil
}

// PaymentDate returns the due date of the given 1-indexed payment period
// counted from start in fixed 30-day steps.
func PaymentDate(start time.Time, period int) time.Time {
	return start.AddDate(0, 0, period*constants.DaysPerPaymentPeriod)
}

// Format renders t in DateLayout.
func Format(t time.Time) string {
	return t.Format(DateLayout)
}
