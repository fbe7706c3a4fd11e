package datetime

import (
	"testing"
	"time"
)

func TestMustParseTime(t *testing.T) {
	tests := []struct {
		name     string
		layout   string
		dateStr  string
		expected string
	}{
		{
			name:     "Valid date",
			layout:   DateLayout,
			dateStr:  "2025-01-15",
			expected: "2025-01-15",
		},
		{
			name:     "Leap day",
			layout:   DateLayout,
			dateStr:  "2028-02-29",
			expected: "2028-02-29",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MustParseTime(tt.layout, tt.dateStr)
			if result.Format(tt.layout) != tt.expected {
				t.Errorf("MustParseTime() = %s, expected %s", result.Format(tt.layout), tt.expected)
			}
		})
	}
}

func TestMustParseTimePanic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Expected MustParseTime to panic with invalid date")
		}
	}()

	MustParseTime(DateLayout, "invalid-date")
}

func TestParseDate(t *testing.T) {
	fallback := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

	tests := []struct {
		name     string
		value    string
		expected string
		wantErr  bool
	}{
		{name: "Explicit date", value: "2026-01-01", expected: "2026-01-01"},
		{name: "Surrounding whitespace", value: " 2026-01-01 ", expected: "2026-01-01"},
		{name: "Empty uses fallback", value: "", expected: "2026-03-14"},
		{name: "Month only", value: "2026-01", wantErr: true},
		{name: "Garbage", value: "tomorrow", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseDate(tt.value, fallback)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseDate(%q) expected error", tt.value)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) unexpected error: %v", tt.value, err)
			}
			if Format(result) != tt.expected {
				t.Errorf("ParseDate(%q) = %s, expected %s", tt.value, Format(result), tt.expected)
			}
			if result.Hour() != 0 || result.Minute() != 0 {
				t.Errorf("ParseDate(%q) should be truncated to midnight, got %v", tt.value, result)
			}
		})
	}
}

func TestPaymentDate(t *testing.T) {
	start := MustParseTime(DateLayout, "2026-01-01")

	tests := []struct {
		period   int
		expected string
	}{
		{1, "2026-01-31"},
		{2, "2026-03-02"},
		{12, "2026-12-27"},
	}

	for _, tt := range tests {
		result := Format(PaymentDate(start, tt.period))
		if result != tt.expected {
			t.Errorf("PaymentDate(%d) = %s, expected %s", tt.period, result, tt.expected)
		}
	}
}
