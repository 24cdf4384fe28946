package phone

import (
	"testing"
)

func TestNormalize_CommonFormats(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"+11234567890", "+11234567890"},
		{"11234567890", "+11234567890"},
		{"+1 (222) 333-4444", "+12223334444"},
		{"1.222.333.4444", "+12223334444"},
		{"2223334444", "+2223334444"},
		{"++11234567890", "+11234567890"},
		{"001-222-333-4444", "+0012223334444"},
		{"", ""},
		{"   ", ""},
		{"no digits here", ""},
	}

	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"+1 (222) 333-4444",
		"2223334444",
		"+11234567890",
		"",
		"abc",
		"+44 20 7946 0958",
	}

	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestDigits(t *testing.T) {
	if got := Digits("+1 (222) 333-4444"); got != "12223334444" {
		t.Errorf("Digits = %q, want %q", got, "12223334444")
	}
	if got := Digits("+"); got != "" {
		t.Errorf("Digits(\"+\") = %q, want empty", got)
	}
}

func TestMatchSuffix(t *testing.T) {
	if got := MatchSuffix("+1 (222) 333-4444", 10); got != "2223334444" {
		t.Errorf("MatchSuffix = %q, want %q", got, "2223334444")
	}
	// Shorter than the window: every digit is returned.
	if got := MatchSuffix("333-4444", 10); got != "3334444" {
		t.Errorf("MatchSuffix = %q, want %q", got, "3334444")
	}
	// Non-positive window falls back to the default.
	if got := MatchSuffix("+12223334444", 0); got != "2223334444" {
		t.Errorf("MatchSuffix = %q, want %q", got, "2223334444")
	}
}

func TestSameNumber(t *testing.T) {
	if !SameNumber("+1 (222) 333-4444", "12223334444") {
		t.Error("SameNumber = false, want true")
	}
	if SameNumber("", "") {
		t.Error("SameNumber on empty inputs = true, want false")
	}
	if SameNumber("2223334444", "12223334444") {
		t.Error("SameNumber across differing digit sequences = true, want false")
	}
}
