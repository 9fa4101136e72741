package payroll_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payroll-engine/payroll"
)

func TestParseMonth(t *testing.T) {
	m, err := payroll.ParseMonth("2025-04")
	require.NoError(t, err)
	assert.Equal(t, payroll.NewMonth(2025, time.April), m)
	assert.Equal(t, "2025-04", m.String())

	_, err = payroll.ParseMonth("April 2025")
	assert.Error(t, err)
	_, err = payroll.ParseMonth("2025-13")
	assert.Error(t, err)
}

func TestMonth_PrevAcrossYearBoundary(t *testing.T) {
	jan := payroll.NewMonth(2025, time.January)
	assert.Equal(t, payroll.NewMonth(2024, time.December), jan.Prev())
	assert.Equal(t, payroll.NewMonth(2025, time.February), jan.Next())
}

func TestMonth_Bounds(t *testing.T) {
	feb := payroll.NewMonth(2024, time.February) // leap year
	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), feb.Start())
	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), feb.End())
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), feb.StartOfYear())

	assert.True(t, feb.Contains(time.Date(2024, time.February, 15, 12, 0, 0, 0, time.UTC)))
	assert.False(t, feb.Contains(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)))
}

func TestMonth_Names(t *testing.T) {
	m := payroll.NewMonth(2025, time.March)
	assert.Equal(t, "march", m.Name())
	assert.Equal(t, "March", m.DisplayName())
}

func TestMonth_Before(t *testing.T) {
	assert.True(t, payroll.NewMonth(2024, time.December).Before(payroll.NewMonth(2025, time.January)))
	assert.False(t, payroll.NewMonth(2025, time.April).Before(payroll.NewMonth(2025, time.April)))
}
