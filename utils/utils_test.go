package utils

import (
	"testing"
	"time"
)

func TestParseTimestamp_ISO8601WithZone(t *testing.T) {
	got, err := ParseTimestamp("2024-06-01T14:30:00+02:00")
	if err != nil {
		t.Fatalf("ParseTimestamp failed: %v", err)
	}

	want := time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if got.Location() != time.UTC {
		t.Errorf("location = %v, want UTC", got.Location())
	}
}

func TestParseTimestamp_NaiveDateTime(t *testing.T) {
	got, err := ParseTimestamp("2024-06-01 14:30:00")
	if err != nil {
		t.Fatalf("ParseTimestamp failed: %v", err)
	}

	want := time.Date(2024, 6, 1, 14, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v (naive input taken as UTC)", got, want)
	}
}

func TestParseTimestamp_Invalid(t *testing.T) {
	if _, err := ParseTimestamp(""); err == nil {
		t.Error("empty timestamp did not error")
	}
	if _, err := ParseTimestamp("not a time"); err == nil {
		t.Error("garbage timestamp did not error")
	}
}
