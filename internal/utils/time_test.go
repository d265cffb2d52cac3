package utils

import (
	"testing"
	"time"
)

func TestFormatShortDateDropsLeadingZeros(t *testing.T) {
	at := time.Date(2025, time.June, 5, 0, 0, 0, 0, time.Local)
	if got := FormatShortDate(at); got != "6/5/2025" {
		t.Fatalf("expected 6/5/2025, got %q", got)
	}
	at = time.Date(2025, time.December, 25, 0, 0, 0, 0, time.Local)
	if got := FormatShortDate(at); got != "12/25/2025" {
		t.Fatalf("expected 12/25/2025, got %q", got)
	}
}

func TestFormatClockPadsToTwoDigits(t *testing.T) {
	at := time.Date(2025, time.June, 5, 8, 5, 0, 0, time.Local)
	if got := FormatClock(at); got != "08:05" {
		t.Fatalf("expected 08:05, got %q", got)
	}
}

func TestParseDateRoundTrip(t *testing.T) {
	at, err := ParseDate("2025-06-05")
	if err != nil {
		t.Fatalf("ParseDate error: %v", err)
	}
	if FormatDate(at) != "2025-06-05" {
		t.Fatalf("round trip mismatch: %q", FormatDate(at))
	}
}
