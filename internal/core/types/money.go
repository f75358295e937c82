// Package types provides common type aliases and utilities.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors; stored as its string form.
type Money = decimal.Decimal

// NewMoneyFromString creates a Money value from a string.
// Both "1234.50" and "1234,50" are accepted.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(normalizeDecimalComma(s))
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := NewMoneyFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

func normalizeDecimalComma(s string) string {
	out := []byte(s)
	for i, c := range out {
		if c == ',' {
			out[i] = '.'
		}
	}
	return string(out)
}
