/*
handlers.go - Per-intent response construction

Each handler receives the employee and the resolved month(s), fetches what it
needs through the injected stores, and returns a complete ExplanationResponse.
Missing data is resolved into one of three exact "no data" texts depending on
which side is absent. Handler texts use the lowercase month name; only the
narrative sentence (narrative.go) title-cases it.
*/
package explain

import (
	"context"
	"fmt"
	"strings"

	"github.com/warp/payroll-engine/money"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// SHARED HELPERS
// =============================================================================

// loadPeriod fetches a month's payroll record with its deductions attached.
// (nil, nil) when the month has no payroll record.
func (e *Engine) loadPeriod(ctx context.Context, employeeID string, m payroll.Month) (*payroll.PeriodRecord, error) {
	record, err := e.payrolls.FetchPeriodRecord(ctx, employeeID, m)
	if err != nil || record == nil {
		return nil, err
	}
	deductions, err := e.deductions.FetchDeductions(ctx, employeeID, m)
	if err != nil {
		return nil, err
	}
	record.Deductions = deductions
	return record, nil
}

// loadDiff fetches both periods and diffs them. The records come back too so
// callers can report which side was missing.
func (e *Engine) loadDiff(ctx context.Context, employeeID string, current, previous payroll.Month) (*payroll.PayChange, *payroll.PeriodRecord, *payroll.PeriodRecord, error) {
	currentRecord, err := e.loadPeriod(ctx, employeeID, current)
	if err != nil {
		return nil, nil, nil, err
	}
	previousRecord, err := e.loadPeriod(ctx, employeeID, previous)
	if err != nil {
		return nil, nil, nil, err
	}
	return payroll.Diff(currentRecord, previousRecord), currentRecord, previousRecord, nil
}

// noDataResponse builds the "no data" response. Three distinct texts: both
// sides missing, current missing, previous missing.
func noDataResponse(m payroll.Month, currentPresent, previousPresent bool) *ExplanationResponse {
	var explanation string
	switch {
	case !currentPresent && !previousPresent:
		explanation = fmt.Sprintf("No payroll data found for %s or the previous month (%s).", m, m.Prev())
	case !currentPresent:
		explanation = fmt.Sprintf("No payroll data found for %s.", m)
	default:
		explanation = fmt.Sprintf("No payroll data found for the previous month (%s).", m.Prev())
	}
	return &ExplanationResponse{
		Explanation: explanation,
		PayPeriod:   m.String(),
		NetChange:   money.Zero,
		Reasons:     []Reason{},
		Language:    languageEnUS,
	}
}

// payrollPresence reports which of the two months has a payroll record, for
// no-data responses on paths that only fetched deductions.
func (e *Engine) payrollPresence(ctx context.Context, employeeID string, current, previous payroll.Month) (bool, bool, error) {
	currentRecord, err := e.payrolls.FetchPeriodRecord(ctx, employeeID, current)
	if err != nil {
		return false, false, err
	}
	previousRecord, err := e.payrolls.FetchPeriodRecord(ctx, employeeID, previous)
	if err != nil {
		return false, false, err
	}
	return currentRecord != nil, previousRecord != nil, nil
}

// =============================================================================
// INTENT HANDLERS
// =============================================================================

// explainPayDrop answers "why did my pay drop". A non-negative net change
// short-circuits with a "did not drop" message and zero reasons.
func (e *Engine) explainPayDrop(ctx context.Context, employeeID string, current, previous payroll.Month) (*ExplanationResponse, error) {
	pc, currentRecord, previousRecord, err := e.loadDiff(ctx, employeeID, current, previous)
	if err != nil {
		return nil, err
	}
	if pc == nil {
		return noDataResponse(current, currentRecord != nil, previousRecord != nil), nil
	}

	if pc.NetPayChange.Sign() >= 0 {
		return &ExplanationResponse{
			Explanation: fmt.Sprintf("Your net pay did not drop in %s.", current.Name()),
			PayPeriod:   current.String(),
			NetChange:   pc.NetPayChange,
			Reasons:     []Reason{},
			Language:    languageEnUS,
		}, nil
	}
	return e.buildChangeResponse(pc, current), nil
}

// listDeductions enumerates the month's deductions in fetch order.
func (e *Engine) listDeductions(ctx context.Context, employeeID string, m payroll.Month) (*ExplanationResponse, error) {
	deductions, err := e.deductions.FetchDeductions(ctx, employeeID, m)
	if err != nil {
		return nil, err
	}
	if len(deductions) == 0 {
		return noDataResponse(m, false, false), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Your deductions for %s are: ", m.Name())
	reasons := make([]Reason, 0, len(deductions))
	for _, d := range deductions {
		reasons = append(reasons, amountReason(ReasonDeduction, capitalizeDeductionType(d.DeductionType), d.Amount))
		fmt.Fprintf(&b, "%s ($%s), ", d.DeductionType, d.Amount)
	}
	explanation := strings.TrimSuffix(b.String(), ", ") + "."

	return &ExplanationResponse{
		Explanation: explanation,
		PayPeriod:   m.String(),
		NetChange:   money.Zero,
		Reasons:     reasons,
		Language:    languageEnUS,
	}, nil
}

func (e *Engine) checkBonus(ctx context.Context, employeeID string, m payroll.Month) (*ExplanationResponse, error) {
	record, err := e.payrolls.FetchPeriodRecord(ctx, employeeID, m)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return noDataResponse(m, false, false), nil
	}

	explanation := fmt.Sprintf("You did not receive a bonus in %s.", m.Name())
	reasons := []Reason{}
	if record.Bonus.IsPositive() {
		explanation = fmt.Sprintf("You received a bonus of $%s in %s.", record.Bonus, m.Name())
		reasons = []Reason{amountReason(ReasonBonus, "Performance", record.Bonus)}
	}

	return &ExplanationResponse{
		Explanation: explanation,
		PayPeriod:   m.String(),
		NetChange:   record.Bonus,
		Reasons:     reasons,
		Language:    languageEnUS,
	}, nil
}

func (e *Engine) checkTaxWithheld(ctx context.Context, employeeID string, m payroll.Month) (*ExplanationResponse, error) {
	record, err := e.payrolls.FetchPeriodRecord(ctx, employeeID, m)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return noDataResponse(m, false, false), nil
	}

	return &ExplanationResponse{
		Explanation: fmt.Sprintf("Your tax withheld for %s was $%s.", m.Name(), record.TaxWithheld),
		PayPeriod:   m.String(),
		NetChange:   record.TaxWithheld,
		Reasons:     []Reason{amountReason(ReasonTax, "Withholding", record.TaxWithheld)},
		Language:    languageEnUS,
	}, nil
}

// explainOvertimeChange is a three-way branch on the overtime delta.
func (e *Engine) explainOvertimeChange(ctx context.Context, employeeID string, current, previous payroll.Month) (*ExplanationResponse, error) {
	pc, currentRecord, previousRecord, err := e.loadDiff(ctx, employeeID, current, previous)
	if err != nil {
		return nil, err
	}
	if pc == nil {
		return noDataResponse(current, currentRecord != nil, previousRecord != nil), nil
	}

	var explanation string
	reasons := []Reason{}
	switch pc.OvertimeChange.Sign() {
	case 1:
		explanation = fmt.Sprintf("Your overtime pay increased by $%s in %s.", pc.OvertimeChange, current.Name())
		reasons = append(reasons, deltaReason(ReasonOvertime, "Hours", pc.OvertimeChange))
	case -1:
		explanation = fmt.Sprintf("Your overtime pay decreased by $%s in %s.", pc.OvertimeChange.Abs(), current.Name())
		reasons = append(reasons, deltaReason(ReasonOvertime, "Hours", pc.OvertimeChange))
	default:
		explanation = fmt.Sprintf("Your overtime pay did not change in %s.", current.Name())
	}

	return &ExplanationResponse{
		Explanation: explanation,
		PayPeriod:   current.String(),
		NetChange:   pc.OvertimeChange,
		Reasons:     reasons,
		Language:    languageEnUS,
	}, nil
}

func (e *Engine) getNetPay(ctx context.Context, employeeID string, m payroll.Month) (*ExplanationResponse, error) {
	record, err := e.payrolls.FetchPeriodRecord(ctx, employeeID, m)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return noDataResponse(m, false, false), nil
	}

	return &ExplanationResponse{
		Explanation: fmt.Sprintf("Your net pay for %s was $%s.", m.Name(), record.NetPay),
		PayPeriod:   m.String(),
		NetChange:   record.NetPay,
		Reasons:     []Reason{amountReason(ReasonNetPay, "Total", record.NetPay)},
		Language:    languageEnUS,
	}, nil
}

// checkNewDeductions reports deduction types present in the target month but
// absent from the previous one. Type matching here is case-sensitive, unlike
// the healthcare lookup below; the mismatch is intentional, pending product
// clarification.
func (e *Engine) checkNewDeductions(ctx context.Context, employeeID string, current, previous payroll.Month) (*ExplanationResponse, error) {
	currentDeductions, err := e.deductions.FetchDeductions(ctx, employeeID, current)
	if err != nil {
		return nil, err
	}
	previousDeductions, err := e.deductions.FetchDeductions(ctx, employeeID, previous)
	if err != nil {
		return nil, err
	}

	if len(currentDeductions) == 0 || len(previousDeductions) == 0 {
		currentPresent, previousPresent, err := e.payrollPresence(ctx, employeeID, current, previous)
		if err != nil {
			return nil, err
		}
		return noDataResponse(current, currentPresent, previousPresent), nil
	}

	previousTypes := make(map[string]struct{}, len(previousDeductions))
	for _, d := range previousDeductions {
		previousTypes[d.DeductionType] = struct{}{}
	}
	var newDeductions []payroll.DeductionItem
	for _, d := range currentDeductions {
		if _, known := previousTypes[d.DeductionType]; !known {
			newDeductions = append(newDeductions, d)
		}
	}

	explanation := fmt.Sprintf("There were no new deductions in %s.", current.Name())
	reasons := []Reason{}
	if len(newDeductions) > 0 {
		var b strings.Builder
		fmt.Fprintf(&b, "New deductions in %s: ", current.Name())
		for _, d := range newDeductions {
			reasons = append(reasons, amountReason(ReasonDeduction, capitalizeDeductionType(d.DeductionType), d.Amount))
			fmt.Fprintf(&b, "%s ($%s), ", d.DeductionType, d.Amount)
		}
		explanation = strings.TrimSuffix(b.String(), ", ") + "."
	}

	return &ExplanationResponse{
		Explanation: explanation,
		PayPeriod:   current.String(),
		NetChange:   money.Zero,
		Reasons:     reasons,
		Language:    languageEnUS,
	}, nil
}

// explainHealthInsuranceChange compares the "healthcare" deduction item
// (case-insensitive, first occurrence per side) across the two months.
func (e *Engine) explainHealthInsuranceChange(ctx context.Context, employeeID string, current, previous payroll.Month) (*ExplanationResponse, error) {
	currentDeductions, err := e.deductions.FetchDeductions(ctx, employeeID, current)
	if err != nil {
		return nil, err
	}
	previousDeductions, err := e.deductions.FetchDeductions(ctx, employeeID, previous)
	if err != nil {
		return nil, err
	}

	if len(currentDeductions) == 0 || len(previousDeductions) == 0 {
		currentPresent, previousPresent, err := e.payrollPresence(ctx, employeeID, current, previous)
		if err != nil {
			return nil, err
		}
		return noDataResponse(current, currentPresent, previousPresent), nil
	}

	currentHealth := findHealthcare(currentDeductions)
	previousHealth := findHealthcare(previousDeductions)
	if currentHealth == nil || previousHealth == nil {
		return &ExplanationResponse{
			Explanation: "No healthcare deduction data available for comparison.",
			PayPeriod:   current.String(),
			NetChange:   money.Zero,
			Reasons:     []Reason{},
			Language:    languageEnUS,
		}, nil
	}

	change := currentHealth.Amount.Sub(previousHealth.Amount)
	var explanation string
	reasons := []Reason{}
	switch change.Sign() {
	case 1:
		explanation = fmt.Sprintf("Your healthcare deduction increased by $%s in %s.", change, current.Name())
		reasons = append(reasons, deltaReason(ReasonDeduction, "Healthcare", change))
	case -1:
		explanation = fmt.Sprintf("Your healthcare deduction decreased by $%s in %s.", change.Abs(), current.Name())
		reasons = append(reasons, deltaReason(ReasonDeduction, "Healthcare", change))
	default:
		explanation = fmt.Sprintf("Your healthcare deduction did not change in %s.", current.Name())
	}

	return &ExplanationResponse{
		Explanation: explanation,
		PayPeriod:   current.String(),
		NetChange:   currentHealth.Amount,
		Reasons:     reasons,
		Language:    languageEnUS,
	}, nil
}

func findHealthcare(items []payroll.DeductionItem) *payroll.DeductionItem {
	for i := range items {
		if strings.EqualFold(items[i].DeductionType, "healthcare") {
			return &items[i]
		}
	}
	return nil
}

// explainGeneric is the full multi-factor explanation and the fallback for
// unclassified questions.
func (e *Engine) explainGeneric(ctx context.Context, employeeID string, current, previous payroll.Month) (*ExplanationResponse, error) {
	pc, currentRecord, previousRecord, err := e.loadDiff(ctx, employeeID, current, previous)
	if err != nil {
		return nil, err
	}
	if pc == nil {
		return noDataResponse(current, currentRecord != nil, previousRecord != nil), nil
	}
	return e.buildChangeResponse(pc, current), nil
}

// buildChangeResponse turns a diff into the ranked-reason narrative response.
func (e *Engine) buildChangeResponse(pc *payroll.PayChange, m payroll.Month) *ExplanationResponse {
	reasons := buildReasons(pc)
	return &ExplanationResponse{
		Explanation: narrate(pc, reasons, m),
		PayPeriod:   m.String(),
		NetChange:   pc.NetPayChange,
		Reasons:     reasons,
		Language:    languageEnUS,
	}
}
