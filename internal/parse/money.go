// Package parse converts the locale-formatted strings that arrive on forms
// into canonical Go values.
package parse

import (
	"strconv"
	"strings"
	"time"
)

// Money parses a Brazilian-formatted money string ("R$ 1.234,56") into a
// float. Thousands use '.', decimals use ','. Empty or unparseable input is
// worth 0, never an error.
func Money(value string) float64 {
	f := moneyFloat(value)
	if f == nil {
		return 0
	}
	return *f
}

// MoneyPtr is Money for optional fields: empty or unparseable input is nil
func MoneyPtr(value string) *float64 {
	return moneyFloat(value)
}

func moneyFloat(value string) *float64 {
	v := strings.TrimSpace(value)
	if v == "" || v == "null" || v == "undefined" {
		return nil
	}
	v = strings.ReplaceAll(v, "R$", "")
	v = strings.ReplaceAll(v, " ", "")
	v = strings.ReplaceAll(v, ".", "")
	v = strings.ReplaceAll(v, ",", ".")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}

// Float parses a plain decimal number, returning 0 for empty or bad input
func Float(value string) float64 {
	v := strings.TrimSpace(value)
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}

// Date parses an ISO date (YYYY-MM-DD). Empty, "null", "undefined" or
// malformed input yields nil rather than an error; forms send all of those.
func Date(value string) *time.Time {
	v := strings.TrimSpace(value)
	if v == "" || v == "null" || v == "undefined" {
		return nil
	}
	d, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil
	}
	return &d
}
