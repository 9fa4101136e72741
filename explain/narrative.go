package explain

import (
	"fmt"
	"strings"

	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// NARRATIVE GENERATOR - Fixed-template sentence rendering
// =============================================================================

// narrate renders the final explanation sentence from a pay change and its
// ranked reasons. Pure function: identical inputs yield byte-identical output.
// At most the top three reasons make it into the sentence; the rest remain in
// the machine-readable reason list.
func narrate(pc *payroll.PayChange, reasons []Reason, m payroll.Month) string {
	var b strings.Builder
	monthName := m.DisplayName()

	switch pc.NetPayChange.Sign() {
	case -1:
		fmt.Fprintf(&b, "Your %s net pay decreased by $%s due to ", monthName, pc.NetPayChange.Abs())
	case 1:
		fmt.Fprintf(&b, "Your %s net pay increased by $%s due to ", monthName, pc.NetPayChange.Abs())
	default:
		fmt.Fprintf(&b, "Your %s net pay remained the same despite some changes in ", monthName)
	}

	top := reasons
	if len(top) > 3 {
		top = top[:3]
	}
	switch len(top) {
	case 0:
		b.WriteString("changes in multiple small factors.")
	case 1:
		b.WriteString(phrase(top[0]) + ".")
	case 2:
		b.WriteString(phrase(top[0]) + " and " + phrase(top[1]) + ".")
	default:
		b.WriteString(phrase(top[0]) + ", " + phrase(top[1]) + ", and " + phrase(top[2]) + ".")
	}
	return b.String()
}

// phrase maps one reason to its fixed (type, sign) wording. Unlisted
// combinations fall back to "changes in <label>".
func phrase(r Reason) string {
	label := strings.ToLower(r.Label)
	sign := r.Delta.Sign()

	switch {
	case r.Type == ReasonDeduction && sign > 0:
		return "increased " + label + " deductions"
	case r.Type == ReasonDeduction && sign < 0:
		return "decreased " + label + " deductions"
	case r.Type == ReasonBonus && sign < 0:
		return "no " + label + " bonus"
	case r.Type == ReasonBonus && sign > 0:
		return "a new " + label + " bonus"
	case r.Type == ReasonSalary && sign > 0:
		return "increased base salary"
	case r.Type == ReasonSalary && sign < 0:
		return "decreased base salary"
	case r.Type == ReasonOvertime && sign > 0:
		return "additional overtime hours"
	case r.Type == ReasonOvertime && sign < 0:
		return "reduced overtime hours"
	case r.Type == ReasonTax && sign > 0:
		return "increased tax withholdings"
	case r.Type == ReasonTax && sign < 0:
		return "decreased tax withholdings"
	}
	return "changes in " + label
}
