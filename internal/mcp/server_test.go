package mcp

import (
	"testing"
	"time"
)

// TestParseFlexDate verifies both accepted formats and rejection of junk.
func TestParseFlexDate(t *testing.T) {
	got, err := parseFlexDate("2025-06-15T10:30:00Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Hour() != 10 || got.Minute() != 30 {
		t.Errorf("parsed = %v, want 10:30", got)
	}

	got, err = parseFlexDate("2025-06-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Year() != 2025 || got.Month() != time.June || got.Day() != 15 {
		t.Errorf("parsed = %v, want 2025-06-15", got)
	}

	if _, err = parseFlexDate("not-a-date"); err == nil {
		t.Error("expected error for invalid date")
	}
}

// TestDefaultDateRange verifies the four-week default and explicit bounds.
func TestDefaultDateRange(t *testing.T) {
	from, to, err := defaultDateRange("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fromT, _ := time.Parse("2006-01-02", from)
	toT, _ := time.Parse("2006-01-02", to)
	if days := toT.Sub(fromT).Hours() / 24; days < 26 || days > 28 {
		t.Errorf("default range = %.0f days, want ~27", days)
	}

	from, to, err = defaultDateRange("2025-01-01", "2025-01-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if from != "2025-01-01" || to != "2025-01-31" {
		t.Errorf("range = %q..%q, want 2025-01-01..2025-01-31", from, to)
	}

	if _, _, err = defaultDateRange("junk", ""); err == nil {
		t.Error("expected error for invalid start")
	}
}
