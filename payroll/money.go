/*
Package payroll is the core of the paytrack office-management tool.

PURPOSE:
  This package tracks which workers are assigned to which jobs, computes
  the money owed from a rate and a worked duration, and advances payments
  through a pending → completed lifecycle as a job is marked paid and
  later finalized.

KEY CONCEPTS IN THIS FILE (money.go):
  - Money: A fixed-point decimal amount, scale 6, rounded half-up

DESIGN PRINCIPLES:
  1. Immutability: Every value type produces new instances on change
  2. Precision: Uses decimal.Decimal to avoid floating-point errors
  3. Explicit errors: Business-rule violations are returned, never panicked

SEE ALSO:
  - rate.go: Money-per-duration conversion
  - payment.go: The payment lifecycle carrying Money amounts
*/
package payroll

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Fixed-point decimal amount
// =============================================================================

// MoneyScale is the number of fractional digits every Money carries.
const MoneyScale = 6

// Money is an arbitrary-precision decimal amount stored at a fixed scale of
// six fractional digits, rounded half-up at construction and after every
// arithmetic operation. Money itself is sign-agnostic: negativity checks
// belong to the caller (see Rate).
type Money struct {
	value decimal.Decimal
}

// NewMoney builds a Money from a raw decimal, applying the scale-6 rounding.
func NewMoney(d decimal.Decimal) Money {
	return Money{value: d.Round(MoneyScale)}
}

// MoneyFromInt builds a Money from a whole number of currency units.
func MoneyFromInt(n int64) Money {
	return NewMoney(decimal.NewFromInt(n))
}

// MoneyFromString parses a decimal literal such as "12.50".
// Malformed input fails with ErrMalformedDecimal.
func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrMalformedDecimal, s)
	}
	return NewMoney(d), nil
}

// MoneyFromFloat builds a Money from a float. NaN and ±Inf fail with
// ErrNonFiniteNumber; Money never holds a non-finite value.
func MoneyFromFloat(f float64) (Money, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Money{}, fmt.Errorf("%w: %v", ErrNonFiniteNumber, f)
	}
	return NewMoney(decimal.NewFromFloat(f)), nil
}

// MustMoney parses a decimal literal and panics on failure.
// For fixtures and tests only.
func MustMoney(s string) Money {
	m, err := MoneyFromString(s)
	if err != nil {
		panic(err)
	}
	return m
}

// =============================================================================
// ARITHMETIC - Every result is re-rounded to scale 6, half-up
// =============================================================================

func (m Money) Add(o Money) Money { return NewMoney(m.value.Add(o.value)) }
func (m Money) Sub(o Money) Money { return NewMoney(m.value.Sub(o.value)) }
func (m Money) Mul(o Money) Money { return NewMoney(m.value.Mul(o.value)) }
func (m Money) Neg() Money        { return NewMoney(m.value.Neg()) }

// MulDecimal scales by a dimensionless decimal factor, e.g. a duration ratio.
func (m Money) MulDecimal(d decimal.Decimal) Money {
	return NewMoney(m.value.Mul(d))
}

// Div divides by another Money. A zero divisor fails with ErrDivisionByZero.
func (m Money) Div(o Money) (Money, error) {
	if o.value.IsZero() {
		return Money{}, fmt.Errorf("%s / %s: %w", m, o, ErrDivisionByZero)
	}
	return NewMoney(m.value.Div(o.value)), nil
}

// =============================================================================
// COMPARISON
// =============================================================================

// Equal compares by normalized value: MustMoney("1") equals
// MustMoney("1.000000") regardless of how each was constructed.
func (m Money) Equal(o Money) bool { return m.value.Equal(o.value) }

// Cmp returns -1, 0 or 1 ordering m against o.
func (m Money) Cmp(o Money) int { return m.value.Cmp(o.value) }

func (m Money) IsZero() bool     { return m.value.IsZero() }
func (m Money) IsNegative() bool { return m.value.IsNegative() }
func (m Money) IsPositive() bool { return m.value.IsPositive() }

// Decimal exposes the underlying rounded decimal value.
func (m Money) Decimal() decimal.Decimal { return m.value }

// String renders the full-precision scale-6 form, e.g. "12.500000".
// This is also the persisted wire form; see the codec package.
func (m Money) String() string { return m.value.StringFixed(MoneyScale) }
