package payroll

import "github.com/warp/payroll-engine/money"

// =============================================================================
// PAYSLIP ASSEMBLER - Pure struct merge
// =============================================================================

// AssemblePayslip merges the month's payroll totals, its deduction items, and
// the precomputed year-to-date sums into a payslip view. Returns nil when the
// payroll record is absent. The year-to-date sums are supplied by the
// persistence collaborator (sum of gross/net over all periods ending within
// the calendar year through the target month); the assembler never recomputes
// them.
func AssemblePayslip(record *PeriodRecord, deductions []DeductionItem, ytdGross, ytdNet money.Money) *Payslip {
	if record == nil {
		return nil
	}
	return &Payslip{
		EmployeeID:         record.EmployeeID,
		PeriodStart:        record.PeriodStart,
		PeriodEnd:          record.PeriodEnd,
		BaseSalary:         record.BaseSalary,
		Bonus:              record.Bonus,
		Overtime:           record.Overtime,
		GrossPay:           record.GrossPay,
		TaxWithheld:        record.TaxWithheld,
		TotalDeductions:    record.TotalDeductions,
		Deductions:         deductions,
		NetPay:             record.NetPay,
		Currency:           record.Currency,
		YearToDateGrossPay: ytdGross,
		YearToDateNetPay:   ytdNet,
	}
}
