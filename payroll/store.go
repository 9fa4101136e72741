/*
store.go - Collaborator interfaces for record access

PURPOSE:
  The engine never touches storage directly. These two narrow interfaces are
  injected into whoever needs records (see explain.New); the engine consumes
  whatever they return, read-only. store/sqlite provides the production
  implementation.

CONTRACTS:
  - A missing period record is (nil, nil), not an error. Missing data is a
    normal condition that handlers resolve into a "no data" response.
  - FetchDeductions returns an empty slice when the month has no deductions.
  - Errors from these interfaces are infrastructure failures and surface to
    the caller as internal errors; the engine never retries.

SEE ALSO:
  - store/sqlite/sqlite.go: SQLite implementation
  - explain/engine.go: consumer
*/
package payroll

import (
	"context"

	"github.com/warp/payroll-engine/money"
)

// PayrollStore supplies monthly payroll records and year-to-date sums.
type PayrollStore interface {
	// FetchPeriodRecord returns the employee's payroll record whose period
	// ends inside the given month, or nil when none exists. The returned
	// record does not include deductions; see DeductionStore.
	FetchPeriodRecord(ctx context.Context, employeeID string, month Month) (*PeriodRecord, error)

	// FetchYearToDate returns the gross and net pay sums over all periods
	// ending within the month's calendar year, through the month inclusive.
	FetchYearToDate(ctx context.Context, employeeID string, through Month) (gross, net money.Money, err error)
}

// DeductionStore supplies the itemized deductions for a month.
type DeductionStore interface {
	// FetchDeductions returns the employee's deduction items whose period
	// ends inside the given month, in insertion order. Empty when none.
	FetchDeductions(ctx context.Context, employeeID string, month Month) ([]DeductionItem, error)
}
