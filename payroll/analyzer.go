package payroll

import (
	"sort"

	"github.com/warp/payroll-engine/money"
)

// =============================================================================
// PAY CHANGE ANALYZER - Field-by-field diff between two periods
// =============================================================================

// Diff computes the structured change from previous to current. It returns nil
// when either record is missing: a diff is never partial. The function is pure;
// both records (including their attached deductions) must already be fetched.
func Diff(current, previous *PeriodRecord) *PayChange {
	if current == nil || previous == nil {
		return nil
	}

	pc := &PayChange{
		CurrentMonth:          current.Month(),
		PreviousMonth:         previous.Month(),
		NetPayChange:          current.NetPay.Sub(previous.NetPay),
		BasePayChange:         current.BaseSalary.Sub(previous.BaseSalary),
		BonusChange:           current.Bonus.Sub(previous.Bonus),
		OvertimeChange:        current.Overtime.Sub(previous.Overtime),
		TaxChange:             current.TaxWithheld.Sub(previous.TaxWithheld),
		TotalDeductionsChange: current.TotalDeductions.Sub(previous.TotalDeductions),
		DeductionChanges:      diffDeductions(current.Deductions, previous.Deductions),
	}
	return pc
}

// diffDeductions computes per-type deltas over the union of both periods'
// deduction types. A type missing on one side counts as zero there. Zero
// deltas are dropped.
func diffDeductions(current, previous []DeductionItem) map[string]money.Money {
	currentByType := GroupDeductionsByType(current)
	previousByType := GroupDeductionsByType(previous)

	changes := make(map[string]money.Money)
	for deductionType, currentAmount := range currentByType {
		change := currentAmount.Sub(previousByType[deductionType])
		if !change.IsZero() {
			changes[deductionType] = change
		}
	}
	for deductionType, previousAmount := range previousByType {
		if _, seen := currentByType[deductionType]; seen {
			continue
		}
		change := previousAmount.Neg()
		if !change.IsZero() {
			changes[deductionType] = change
		}
	}
	return changes
}

// GroupDeductionsByType collapses a period's deduction items into a type->amount
// mapping. When a type appears more than once within a period, the last
// occurrence in fetch order wins; amounts are not summed.
func GroupDeductionsByType(items []DeductionItem) map[string]money.Money {
	byType := make(map[string]money.Money, len(items))
	for _, item := range items {
		byType[item.DeductionType] = item.Amount
	}
	return byType
}

// DeductionTypes returns the changed deduction types in alphabetical order.
// Map iteration order is randomized in Go, so every consumer that needs a
// reproducible order (reason building, rendering) goes through this.
func (pc *PayChange) DeductionTypes() []string {
	types := make([]string, 0, len(pc.DeductionChanges))
	for deductionType := range pc.DeductionChanges {
		types = append(types, deductionType)
	}
	sort.Strings(types)
	return types
}
