package copilot

import (
	"regexp"
	"strconv"
	"strings"
)

var numberPattern = regexp.MustCompile(`\d+(\.\d+)?`)

// ExtractNumber reads the first decimal number in text and scales it by a
// million when the text mentions "m" (which covers "million"), otherwise by
// a thousand for "k" or "thousand". The scale words may appear anywhere in
// the text. ok is false when the text has no digits.
func ExtractNumber(text string) (value float64, ok bool) {
	lower := strings.ToLower(text)
	match := numberPattern.FindString(lower)
	if match == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}

	switch {
	case strings.Contains(lower, "m"):
		value *= 1_000_000
	case strings.Contains(lower, "k"), strings.Contains(lower, "thousand"):
		value *= 1_000
	}
	return value, true
}

// extractAmount reads a money amount for the commands that set one. A zero
// amount counts as no answer.
func extractAmount(text string) (float64, bool) {
	v, ok := ExtractNumber(text)
	return v, ok && v != 0
}
