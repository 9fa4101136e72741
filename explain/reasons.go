package explain

import (
	"sort"
	"strings"

	"github.com/warp/payroll-engine/money"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// REASON - One ranked contributing factor
// =============================================================================

type ReasonType string

const (
	ReasonSalary    ReasonType = "Salary"
	ReasonBonus     ReasonType = "Bonus"
	ReasonOvertime  ReasonType = "Overtime"
	ReasonTax       ReasonType = "Tax"
	ReasonDeduction ReasonType = "Deduction"
	ReasonNetPay    ReasonType = "NetPay"
)

// Reason is one labeled, signed contributing factor surfaced to the user.
// Delta is the displayed value: for tax and deduction reasons it has already
// been negated, because an increase in withholding or deductions contributes
// negatively to net pay. Ranking and formatting both work from this Money
// value; nothing ever reparses a formatted string.
type Reason struct {
	Type  ReasonType
	Label string
	Delta money.Money

	// Signed selects the display form: "+$x"/"-$x" for deltas, "$x" for
	// plain amounts (deduction listings, bonus/tax/net pay lookups).
	Signed bool
}

// FormattedDelta renders the delta for the response payload.
func (r Reason) FormattedDelta() string {
	if r.Signed {
		return r.Delta.SignedDisplay()
	}
	return r.Delta.Display()
}

func deltaReason(t ReasonType, label string, delta money.Money) Reason {
	return Reason{Type: t, Label: label, Delta: delta, Signed: true}
}

func amountReason(t ReasonType, label string, amount money.Money) Reason {
	return Reason{Type: t, Label: label, Delta: amount}
}

// =============================================================================
// REASON BUILDER & RANKER
// =============================================================================

// reasonThreshold is the minimum absolute delta, in currency units, for a
// factor to be worth mentioning. Strictly greater-than: a 1.00 delta is noise,
// a 1.01 delta is a reason.
var reasonThreshold = money.MustParse("1.00")

// buildReasons extracts the contributing factors from a pay change and ranks
// them by absolute displayed delta, descending. Ties keep insertion order:
// base pay, bonus, overtime, tax, then deduction types alphabetically.
func buildReasons(pc *payroll.PayChange) []Reason {
	reasons := []Reason{}

	if pc.BasePayChange.Abs().GreaterThan(reasonThreshold) {
		reasons = append(reasons, deltaReason(ReasonSalary, "Base Pay", pc.BasePayChange))
	}
	if pc.BonusChange.Abs().GreaterThan(reasonThreshold) {
		reasons = append(reasons, deltaReason(ReasonBonus, "Performance", pc.BonusChange))
	}
	if pc.OvertimeChange.Abs().GreaterThan(reasonThreshold) {
		reasons = append(reasons, deltaReason(ReasonOvertime, "Hours", pc.OvertimeChange))
	}
	if pc.TaxChange.Abs().GreaterThan(reasonThreshold) {
		// More tax withheld means less net pay: display the flipped sign.
		reasons = append(reasons, deltaReason(ReasonTax, "Withholding", pc.TaxChange.Neg()))
	}
	for _, deductionType := range pc.DeductionTypes() {
		change := pc.DeductionChanges[deductionType]
		if change.Abs().GreaterThan(reasonThreshold) {
			// Same sign flip as tax: a larger deduction shrinks net pay.
			reasons = append(reasons, deltaReason(ReasonDeduction, capitalizeDeductionType(deductionType), change.Neg()))
		}
	}

	sort.SliceStable(reasons, func(i, j int) bool {
		return reasons[i].Delta.Abs().GreaterThan(reasons[j].Delta.Abs())
	})
	return reasons
}

// capitalizeDeductionType turns a free-form deduction type into a display
// label: first letter upper, rest lower, "Other" when empty.
func capitalizeDeductionType(deductionType string) string {
	if deductionType == "" {
		return "Other"
	}
	return strings.ToUpper(deductionType[:1]) + strings.ToLower(deductionType[1:])
}
