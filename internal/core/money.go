// Package core holds the domain model and the financial aggregation engine.
//
// All monetary values are exact decimals (scale 2). Binary floating point is
// only ever used for the final percentage display value of a category
// breakdown, never for sums that feed further arithmetic.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is an exact decimal monetary value. It serializes to JSON as a
// decimal string, never as a binary float.
type Amount = decimal.Decimal

// ParseAmount parses a transaction amount from its string form.
//
// Malformed numbers and negative values are rejected; anything beyond two
// decimal places is rounded half-up to the stored scale.
//
// Examples:
//
//	ParseAmount("1000")   -> 1000, nil
//	ParseAmount("12.345") -> 12.35, nil
//	ParseAmount("-3")     -> error
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d.Round(2), nil
}
