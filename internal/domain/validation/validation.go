// Package validation holds the pure helpers used to check prompt input.
package validation

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// IsBlank reports whether s is empty or only whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ParseNonNegativeInt accepts base-10 digit strings. The bool is false for
// anything non-numeric or negative.
func ParseNonNegativeInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseNonNegativeReal accepts either ',' or '.' as the decimal separator.
func ParseNonNegativeReal(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	d, err := decimal.NewFromString(strings.Replace(s, ",", ".", 1))
	if err != nil || d.IsNegative() {
		return 0, false
	}
	return d.InexactFloat64(), true
}

// IsAffirmative reports whether the answer to a s/N question is yes.
func IsAffirmative(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "s", "sim":
		return true
	}
	return false
}
