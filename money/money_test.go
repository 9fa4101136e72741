package money_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payroll-engine/money"
)

func TestParse_RejectsSubCentPrecision(t *testing.T) {
	// GIVEN: An amount with three fractional digits
	// WHEN: Parsing it
	// THEN: It is rejected, never truncated

	_, err := money.Parse("10.005")
	assert.Error(t, err)

	// Trailing zeros beyond scale 2 are still exact values
	m, err := money.Parse("10.500")
	require.NoError(t, err)
	assert.Equal(t, "10.50", m.String())
}

func TestSub_IsExact(t *testing.T) {
	a := money.MustParse("5000.00")
	b := money.MustParse("4800.00")

	diff := a.Sub(b)
	assert.Equal(t, "200.00", diff.String())
	assert.Equal(t, 1, diff.Sign())

	// The classic float trap: 0.30 - 0.10 must be exactly 0.20
	assert.Equal(t, "0.20", money.MustParse("0.30").Sub(money.MustParse("0.10")).String())
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, "$150.00", money.MustParse("150.00").Display())
	assert.Equal(t, "-$12.34", money.MustParse("-12.34").Display())
	assert.Equal(t, "+$12.34", money.MustParse("12.34").SignedDisplay())
	assert.Equal(t, "-$12.34", money.MustParse("-12.34").SignedDisplay())
	assert.Equal(t, "+$0.00", money.Zero.SignedDisplay())
}

func TestJSON_RoundTrip(t *testing.T) {
	b, err := json.Marshal(money.MustParse("99.90"))
	require.NoError(t, err)
	assert.Equal(t, "99.90", string(b))

	var m money.Money
	require.NoError(t, json.Unmarshal([]byte(`"150.00"`), &m))
	assert.True(t, m.Equal(money.MustParse("150.00")))

	require.NoError(t, json.Unmarshal([]byte(`200`), &m))
	assert.Equal(t, "200.00", m.String())
}

func TestCompare_NeverFloat(t *testing.T) {
	a := money.MustParse("1.00")
	b := money.MustParse("1.01")

	assert.True(t, b.GreaterThan(a))
	assert.True(t, a.LessThan(b))
	assert.Equal(t, 0, a.Cmp(money.MustParse("1.00")))
	assert.True(t, a.Abs().Equal(money.MustParse("-1.00").Abs()))
}
