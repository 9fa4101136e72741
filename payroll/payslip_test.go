package payroll_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payroll-engine/payroll"
)

func TestAssemblePayslip_MergesAllFields(t *testing.T) {
	// GIVEN: A payroll record, its deductions, and precomputed YTD sums
	// WHEN: Assembling the payslip
	// THEN: Fields are carried over verbatim; YTD sums are not recomputed

	m := month(2025, time.April)
	rec := record(m, "4500.00", "5000.00", "250.00", "0.00", "550.00")
	deductions := []payroll.DeductionItem{
		deduction("healthcare", "150.00"),
		deduction("retirement", "200.00"),
	}

	slip := payroll.AssemblePayslip(rec, deductions, usd("20000.00"), usd("18000.00"))
	require.NotNil(t, slip)

	assert.Equal(t, "emp-1", slip.EmployeeID)
	assert.Equal(t, rec.PeriodStart, slip.PeriodStart)
	assert.Equal(t, rec.PeriodEnd, slip.PeriodEnd)
	assert.Equal(t, "5000.00", slip.BaseSalary.String())
	assert.Equal(t, "250.00", slip.Bonus.String())
	assert.Equal(t, "4500.00", slip.NetPay.String())
	assert.Equal(t, "USD", slip.Currency)
	assert.Len(t, slip.Deductions, 2)
	assert.Equal(t, "20000.00", slip.YearToDateGrossPay.String())
	assert.Equal(t, "18000.00", slip.YearToDateNetPay.String())
}

func TestAssemblePayslip_AbsentWithoutPayrollRecord(t *testing.T) {
	slip := payroll.AssemblePayslip(nil, nil, usd("0.00"), usd("0.00"))
	assert.Nil(t, slip)
}
