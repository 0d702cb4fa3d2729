// Package money provides the monetary value object used throughout the ledger.
//
// It is a value object wrapping an arbitrary-precision decimal.
// Invariants:
//   - Arithmetic is exact: a debit and its matching credit always conserve the sum.
//   - The zero value is a valid zero amount.
//   - Money is immutable; every operation returns a new value.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned when amount text cannot be parsed as a decimal number.
var ErrInvalidAmount = errors.New("invalid amount")

// Money represents a monetary amount in the ledger's single currency.
type Money struct {
	amount decimal.Decimal
}

// Parse converts amount text, as typed by a caller, into Money.
// Returns ErrInvalidAmount if the text is not a decimal number.
func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return Money{amount: d}, nil
}

// MustParse is like Parse but panics on invalid input.
// Intended for seeding and tests.
func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("money.MustParse(%q): %v", s, err))
	}
	return m
}

// Zero returns a zero amount.
func Zero() Money {
	return Money{}
}

// Add returns the sum of m and other.
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Sub returns the difference of m and other. The result can be negative.
func (m Money) Sub(other Money) Money {
	return Money{amount: m.amount.Sub(other.amount)}
}

// Cmp compares m and other: -1 if m < other, 0 if equal, +1 if m > other.
func (m Money) Cmp(other Money) int {
	return m.amount.Cmp(other.amount)
}

// GreaterThan reports whether m is strictly greater than other.
func (m Money) GreaterThan(other Money) bool {
	return m.amount.GreaterThan(other.amount)
}

// LessThan reports whether m is strictly less than other.
func (m Money) LessThan(other Money) bool {
	return m.amount.LessThan(other.amount)
}

// Equal reports whether m and other represent the same amount.
func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount)
}

// IsPositive reports whether the amount is greater than zero.
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// IsNegative reports whether the amount is less than zero.
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// String returns the canonical transaction-log form of the amount: trailing
// zeros trimmed, always with at least one fractional digit ("500" -> "500.0",
// "12.50" -> "12.5").
func (m Money) String() string {
	s := m.amount.String()
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// Fixed returns the two-decimal display form of the amount ("1000.00").
func (m Money) Fixed() string {
	return m.amount.StringFixed(2)
}

// MarshalJSON implements json.Marshaler using the two-decimal display form.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.Fixed() + `"`), nil
}
