// Package phone canonicalizes raw phone-number strings for comparison.
// All functions are pure and safe for concurrent use.
package phone

import (
	"strings"
)

// DefaultSuffixLength is the number of significant digits used for fuzzy
// suffix matching. Ten digits covers a full national number in NANP-style
// plans while ignoring country-code variance between stored records.
const DefaultSuffixLength = 10

// Normalize reduces a raw phone string to the canonical "+digits" form.
// Spaces, dashes, parentheses, dots and any other non-digit characters are
// stripped; a single leading "+" is guaranteed on non-empty output. Empty or
// digit-free input yields the empty string. Normalize is idempotent.
func Normalize(raw string) string {
	digits := Digits(raw)
	if digits == "" {
		return ""
	}
	return "+" + digits
}

// Digits returns the normalized form without the leading "+": the bare digit
// sequence used for suffix and substring comparison.
func Digits(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// MatchSuffix returns the last n significant digits of raw, or every digit
// when fewer are available. n values below 1 fall back to
// DefaultSuffixLength.
func MatchSuffix(raw string, n int) string {
	if n < 1 {
		n = DefaultSuffixLength
	}
	digits := Digits(raw)
	if len(digits) <= n {
		return digits
	}
	return digits[len(digits)-n:]
}

// SameNumber reports whether two raw strings reduce to the same digit
// sequence, ignoring formatting and the leading "+".
func SameNumber(a, b string) bool {
	return Digits(a) != "" && Digits(a) == Digits(b)
}
