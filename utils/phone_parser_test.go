package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPhoneNumbersCanonicalForm(t *testing.T) {
	inputs := []string{
		"9656 50 1307",
		"+91 9656501307",
		"09656501307",
		"9656501307",
		"+91-96565-01307",
		"919656501307",
		"0091 9656501307",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, []string{"919656501307"}, CanonicalNumbers(in))
		})
	}
}

func TestExtractPhoneNumbersLeadingDigit(t *testing.T) {
	for _, in := range []string{"1234567890", "5123456789", "0123456789", "+91 4123456789"} {
		assert.Empty(t, CanonicalNumbers(in), in)
	}
}

func TestExtractPhoneNumbersLengthGuard(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"nine digits", "Call 965650130 now"},
		{"eleven digits", "Call 96565013071 now"},
		{"eleven digits with separators", "Call 9656 50 13071 now"},
		{"digit glued in front", "ref 19656501307"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, CanonicalNumbers(tt.text))
		})
	}
}

func TestExtractPhoneNumbersDeduplicatesWithinText(t *testing.T) {
	text := `
		Rahul Sharma 9656501307
		Office: +91 96565 01307
		Alt 7012345678
		Again 09656501307
	`

	matches := ExtractPhoneNumbers(text)

	assert.Len(t, matches, 2)
	assert.Equal(t, "919656501307", matches[0].Canonical)
	assert.Equal(t, "9656501307", matches[0].Original)
	assert.Equal(t, "917012345678", matches[1].Canonical)
}

func TestExtractPhoneNumbersMultipleOnOneLine(t *testing.T) {
	text := "Mob: 9876543210, 8765432109 / Ph 080 7012345678"

	assert.Equal(t,
		[]string{"919876543210", "918765432109", "917012345678"},
		CanonicalNumbers(text),
	)
}

func TestExtractPhoneNumbersNoMatch(t *testing.T) {
	assert.Empty(t, ExtractPhoneNumbers(""))
	assert.Empty(t, ExtractPhoneNumbers("no numbers here, only PIN 560001"))
}

func TestExtractPhoneNumbersIsRestartable(t *testing.T) {
	text := "9656501307 and 7012345678"
	assert.Equal(t, CanonicalNumbers(text), CanonicalNumbers(text))
}

func TestIsCanonical(t *testing.T) {
	assert.True(t, IsCanonical("919656501307"))
	assert.False(t, IsCanonical("9656501307"))
	assert.False(t, IsCanonical("911234567890"))
	assert.False(t, IsCanonical("91965650130a"))
}
