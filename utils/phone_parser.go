package utils

import (
	"regexp"
	"strings"
)

const (
	// CountryCode is prefixed to every accepted number.
	CountryCode = "91"
	// SignificantDigits is the length of a mobile number without the country code.
	SignificantDigits = 10
)

// Optional +91 / 91 / 0 / 00 prefix, then a mobile number starting with 6-9 whose
// ten digits may each be separated by a single space or hyphen.
var phonePattern = regexp.MustCompile(`(?:\+91|91|0{1,2})?[\s-]*([6-9](?:[\s-]?\d){9})`)

var canonicalPattern = regexp.MustCompile(`^91[6-9]\d{9}$`)

// PhoneMatch is one number found in OCR text.
type PhoneMatch struct {
	Canonical string
	Original  string
}

// ExtractPhoneNumbers scans OCR text for Indian mobile numbers and returns them in
// canonical "91" + 10 digit form, first occurrence first, without duplicates.
func ExtractPhoneNumbers(text string) []PhoneMatch {
	var matches []PhoneMatch
	seen := make(map[string]bool)

	pos := 0
	for pos < len(text) {
		loc := phonePattern.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		group := text[pos+loc[2] : pos+loc[3]]

		// A match glued to other digits is a fragment of a longer run.
		if touchesDigit(text, start, end) {
			pos = start + 1
			continue
		}
		pos = end

		digits := digitsOnly(group)
		if len(digits) != SignificantDigits {
			continue
		}

		canonical := CountryCode + digits
		if seen[canonical] {
			continue
		}
		seen[canonical] = true
		matches = append(matches, PhoneMatch{
			Canonical: canonical,
			Original:  strings.TrimSpace(text[start:end]),
		})
	}

	return matches
}

// CanonicalNumbers returns only the canonical strings of ExtractPhoneNumbers.
func CanonicalNumbers(text string) []string {
	matches := ExtractPhoneNumbers(text)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Canonical)
	}
	return out
}

// IsCanonical reports whether s is already in "91" + 10 digit form.
func IsCanonical(s string) bool {
	return canonicalPattern.MatchString(s)
}

func touchesDigit(text string, start, end int) bool {
	if start > 0 && isDigit(text[start-1]) {
		return true
	}
	if end < len(text) && isDigit(text[end]) {
		return true
	}
	return false
}

func digitsOnly(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if isDigit(s[i]) {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
