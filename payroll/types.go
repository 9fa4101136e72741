/*
Package payroll provides the core payroll comparison engine.

PURPOSE:
  This package contains the value objects and pure algorithms for comparing
  two pay periods: the records a pay period is made of, the field-by-field
  diff between two periods (analyzer.go), and the payslip assembly
  (payslip.go). It performs no I/O - records arrive already fetched through
  the narrow store interfaces in store.go.

KEY CONCEPTS IN THIS FILE (types.go):
  - PeriodRecord: one month's payroll totals plus its itemized deductions
  - DeductionItem: a single typed deduction within a period
  - PayChange: the derived diff between two periods (never persisted)
  - Payslip: the assembled per-month view with year-to-date sums

DESIGN PRINCIPLES:
  1. Immutability: records are read-only once fetched; diffs are recomputed
     per request, never cached
  2. Precision: every amount is a money.Money, no floating point
  3. Sign convention: change = current - previous, positive means increase

SEE ALSO:
  - analyzer.go: Diff between two PeriodRecords
  - month.go: the Month period key
  - store.go: collaborator interfaces that supply records
*/
package payroll

import (
	"time"

	"github.com/warp/payroll-engine/money"
)

// =============================================================================
// PERIOD RECORD - One month's payroll totals
// =============================================================================

// PeriodRecord is one month of payroll for one employee, as loaded from the
// persistence collaborator. Identity is (EmployeeID, month of PeriodEnd).
type PeriodRecord struct {
	EmployeeID      string
	PeriodStart     time.Time
	PeriodEnd       time.Time
	GrossPay        money.Money
	NetPay          money.Money
	BaseSalary      money.Money
	Bonus           money.Money
	Overtime        money.Money
	TaxWithheld     money.Money
	TotalDeductions money.Money
	Currency        string
	LoadDate        time.Time

	// Itemized deductions for the period. Attached by the caller after
	// fetching; the analyzer consumes them read-only.
	Deductions []DeductionItem
}

// Month returns the period key for this record.
func (r *PeriodRecord) Month() Month { return MonthOf(r.PeriodEnd) }

// DeductionItem is a single deduction line within a period. DeductionType is
// free-form ("healthcare", "retirement"); matching rules differ per handler
// and are documented where they apply.
type DeductionItem struct {
	EmployeeID    string
	PeriodEnd     time.Time
	DeductionType string
	Amount        money.Money
	EmployerMatch *money.Money
	Category      string
}

// =============================================================================
// PAY CHANGE - Derived diff between two periods
// =============================================================================

// PayChange is the structured diff between two periods. It is derived on every
// request and never cached: the engine is read-through, so there is no
// staleness window. All deltas follow change = current - previous.
type PayChange struct {
	CurrentMonth          Month
	PreviousMonth         Month
	NetPayChange          money.Money
	BasePayChange         money.Money
	BonusChange           money.Money
	OvertimeChange        money.Money
	TaxChange             money.Money
	TotalDeductionsChange money.Money

	// DeductionChanges maps deduction type to its delta. Only nonzero deltas
	// are present. Iterate via DeductionTypes for a stable order.
	DeductionChanges map[string]money.Money
}

// =============================================================================
// PAYSLIP - Assembled per-month view
// =============================================================================

// Payslip merges a period's payroll totals, its deductions, and the
// year-to-date sums. Assembled per request, not persisted.
type Payslip struct {
	EmployeeID         string
	PeriodStart        time.Time
	PeriodEnd          time.Time
	BaseSalary         money.Money
	Bonus              money.Money
	Overtime           money.Money
	GrossPay           money.Money
	TaxWithheld        money.Money
	TotalDeductions    money.Money
	Deductions         []DeductionItem
	NetPay             money.Money
	Currency           string
	YearToDateGrossPay money.Money
	YearToDateNetPay   money.Money
}
