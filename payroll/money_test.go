package payroll_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/paytrack/payroll"
)

// =============================================================================
// CONSTRUCTION
// =============================================================================

func TestMoney_FromString_RoundsHalfUpToSixDigits(t *testing.T) {
	// GIVEN: A decimal with seven fractional digits, the seventh being 5
	// WHEN: Constructing a Money
	// THEN: The stored value is rounded half-up at the sixth digit

	m, err := payroll.MoneyFromString("1.2345675")
	require.NoError(t, err)
	assert.Equal(t, "1.234568", m.String())

	m, err = payroll.MoneyFromString("1.2345674")
	require.NoError(t, err)
	assert.Equal(t, "1.234567", m.String())
}

func TestMoney_String_AlwaysSixFractionalDigits(t *testing.T) {
	assert.Equal(t, "1.000000", payroll.MustMoney("1").String())
	assert.Equal(t, "0.000000", payroll.MoneyFromInt(0).String())
	assert.Equal(t, "12.500000", payroll.MustMoney("12.5").String())
}

func TestMoney_FromString_RejectsMalformedInput(t *testing.T) {
	for _, input := range []string{"", "abc", "1.2.3", "12,50", "$5"} {
		_, err := payroll.MoneyFromString(input)
		assert.ErrorIs(t, err, payroll.ErrMalformedDecimal, "input %q", input)
	}
}

func TestMoney_FromFloat_RejectsNonFiniteValues(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := payroll.MoneyFromFloat(f)
		assert.ErrorIs(t, err, payroll.ErrNonFiniteNumber)
	}

	m, err := payroll.MoneyFromFloat(2.5)
	require.NoError(t, err)
	assert.Equal(t, "2.500000", m.String())
}

// =============================================================================
// EQUALITY
// =============================================================================

func TestMoney_Equal_ByNormalizedValue(t *testing.T) {
	// GIVEN: Two values constructed differently but numerically equal
	// THEN: They compare equal

	assert.True(t, payroll.MustMoney("1").Equal(payroll.MustMoney("1.000000")))
	assert.True(t, payroll.MoneyFromInt(1).Equal(payroll.MustMoney("1.0")))
	assert.False(t, payroll.MustMoney("1").Equal(payroll.MustMoney("1.000001")))
}

// =============================================================================
// ARITHMETIC
// =============================================================================

func TestMoney_Arithmetic_RoundsEveryResult(t *testing.T) {
	a := payroll.MustMoney("0.3333333") // stored as 0.333333
	b := payroll.MustMoney("3")

	assert.Equal(t, "0.999999", a.Mul(b).String())
	assert.Equal(t, "3.333333", a.Add(b).String())
	assert.Equal(t, "-2.666667", a.Sub(b).String())
}

func TestMoney_Div(t *testing.T) {
	q, err := payroll.MustMoney("1").Div(payroll.MustMoney("3"))
	require.NoError(t, err)
	assert.Equal(t, "0.333333", q.String())
}

func TestMoney_Div_ByZeroFails(t *testing.T) {
	_, err := payroll.MustMoney("1").Div(payroll.MoneyFromInt(0))
	assert.ErrorIs(t, err, payroll.ErrDivisionByZero)
}

func TestMoney_AllowsNegativeValues(t *testing.T) {
	// Money itself carries no sign rule; Rate is where negativity is rejected.
	m := payroll.MustMoney("-4.2")
	assert.True(t, m.IsNegative())
	assert.Equal(t, "-4.200000", m.String())
}
