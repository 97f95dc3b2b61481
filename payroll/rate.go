package payroll

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RATE - Money per duration, e.g. "$12.50 per hour"
// =============================================================================

// Rate converts worked time into money owed. The invariants are enforced at
// construction: the amount is never negative and the period is strictly
// positive. The zero Rate is invalid; always build one through NewRate.
type Rate struct {
	amount Money
	period time.Duration
}

// NewRate validates and builds a Rate.
func NewRate(amount Money, period time.Duration) (Rate, error) {
	if amount.IsNegative() {
		return Rate{}, fmt.Errorf("rate amount %s: %w", amount, ErrNegativeMoney)
	}
	if period <= 0 {
		return Rate{}, fmt.Errorf("rate period %s: %w", period, ErrNonPositiveDuration)
	}
	return Rate{amount: amount, period: period}, nil
}

// MustRate builds a Rate and panics on failure. For fixtures and tests only.
func MustRate(amount Money, period time.Duration) Rate {
	r, err := NewRate(amount, period)
	if err != nil {
		panic(err)
	}
	return r
}

// AmountPerPeriod returns the money earned per full period.
func (r Rate) AmountPerPeriod() Money { return r.amount }

// Period returns the duration one amount is earned over.
func (r Rate) Period() time.Duration { return r.period }

// Amount converts a worked duration into money owed:
// amount × (worked / period), where the ratio is a real-valued quotient at
// nanosecond precision. Pay scales linearly and continuously with time, not
// in whole-period increments: 2h30m at $10/h is $25, not $20.
func (r Rate) Amount(worked time.Duration) Money {
	ratio := decimal.NewFromInt(worked.Nanoseconds()).
		Div(decimal.NewFromInt(r.period.Nanoseconds()))
	return r.amount.MulDecimal(ratio)
}

func (r Rate) Equal(o Rate) bool {
	return r.amount.Equal(o.amount) && r.period == o.period
}

func (r Rate) String() string {
	return fmt.Sprintf("%s per %s", r.amount, r.period)
}
