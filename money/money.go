/*
Package money provides exact decimal monetary amounts.

PURPOSE:
  Every payroll figure in this system - salaries, bonuses, tax withholdings,
  deduction amounts, computed deltas - is a Money value. Money wraps
  decimal.Decimal so that arithmetic is exact: two pay periods that differ by
  $0.01 differ by exactly $0.01, never by 0.009999999.

KEY CONCEPTS:
  - Fixed scale: amounts carry at most 2 fractional digits. Constructors
    reject finer-grained input instead of silently rounding it.
  - Sign convention: deltas are current minus previous; positive means an
    increase. Display helpers render "$x", "+$x" and "-$x".

DESIGN PRINCIPLES:
  1. Immutability: Money values are never mutated, operations return new values
  2. Precision: decimal.Decimal underneath, no binary floating point anywhere
  3. Comparability: Cmp/Sign for ordering, never float equality

USAGE:
  m, err := money.Parse("150.00")
  delta := current.Sub(previous)
  if delta.Sign() < 0 { ... }

SEE ALSO:
  - payroll/types.go: the record types built from Money
  - payroll/analyzer.go: exact subtraction between periods
*/
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Exact decimal amount with 2 fractional digits
// =============================================================================

type Money struct {
	d decimal.Decimal
}

// Zero is the zero amount.
var Zero = Money{}

// Parse converts a decimal string into Money. Input with more than two
// fractional digits is rejected rather than truncated.
func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if d.Exponent() < -2 && !d.Equal(d.Round(2)) {
		return Money{}, fmt.Errorf("amount %q has more than 2 decimal places", s)
	}
	return Money{d: d}, nil
}

// MustParse is Parse for literals in tests and constants. Panics on bad input.
func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

// FromDecimal wraps an already-exact decimal value.
func FromDecimal(d decimal.Decimal) Money { return Money{d: d} }

// Decimal exposes the underlying decimal value.
func (m Money) Decimal() decimal.Decimal { return m.d }

// Arithmetic
func (m Money) Add(o Money) Money { return Money{d: m.d.Add(o.d)} }
func (m Money) Sub(o Money) Money { return Money{d: m.d.Sub(o.d)} }
func (m Money) Neg() Money        { return Money{d: m.d.Neg()} }
func (m Money) Abs() Money        { return Money{d: m.d.Abs()} }

// Comparison
func (m Money) Cmp(o Money) int          { return m.d.Cmp(o.d) }
func (m Money) Equal(o Money) bool       { return m.d.Equal(o.d) }
func (m Money) GreaterThan(o Money) bool { return m.d.GreaterThan(o.d) }
func (m Money) LessThan(o Money) bool    { return m.d.LessThan(o.d) }
func (m Money) Sign() int                { return m.d.Sign() }
func (m Money) IsZero() bool             { return m.d.IsZero() }
func (m Money) IsNegative() bool         { return m.d.IsNegative() }
func (m Money) IsPositive() bool         { return m.d.IsPositive() }

// String renders the amount with exactly two fractional digits ("150.00").
func (m Money) String() string { return m.d.StringFixed(2) }

// Display renders "$<abs>" with the sign in front for negatives ("-$12.34").
func (m Money) Display() string {
	if m.IsNegative() {
		return "-$" + m.Abs().String()
	}
	return "$" + m.String()
}

// SignedDisplay renders a delta with an explicit sign: "+$12.34" or "-$12.34".
// Zero renders as "+$0.00".
func (m Money) SignedDisplay() string {
	if m.Sign() < 0 {
		return "-$" + m.Abs().String()
	}
	return "+$" + m.String()
}

// =============================================================================
// JSON - amounts travel as plain numbers with 2 decimals
// =============================================================================

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.d.StringFixed(2)), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
