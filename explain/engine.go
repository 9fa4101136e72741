/*
engine.go - The explanation engine and its collaborator wiring

PURPOSE:
  Engine is the entry point the HTTP layer (or any other caller) talks to:
  Explain answers a free-text question, BuildPayslip assembles the monthly
  payslip view. All storage access goes through the two narrow interfaces
  injected at construction; the audit log is a third, best-effort collaborator.

CONCURRENCY:
  The engine is stateless. Every intermediate structure is request-scoped and
  Money values are immutable, so concurrent Explain calls need no locking.

AUDIT LOG:
  One explanation-log write per Explain call. Failures are logged for
  operators and swallowed - they never affect the response.

SEE ALSO:
  - handlers.go: per-intent response construction
  - payroll/store.go: the injected store interfaces
*/
package explain

import (
	"context"
	"log"
	"time"

	"github.com/warp/payroll-engine/money"
	"github.com/warp/payroll-engine/payroll"
)

const (
	// languageEnUS is the language tag on every response. Single locale
	// today; the field exists so callers don't have to change shape when
	// localization arrives.
	languageEnUS = "en-US"

	// generatedBySource tags audit-log entries with the generation path.
	generatedBySource = "NLP"
)

// ExplanationResponse is the externally visible result of Explain. Immutable
// once constructed.
type ExplanationResponse struct {
	Explanation string
	PayPeriod   string // "YYYY-MM"
	NetChange   money.Money
	Reasons     []Reason
	Language    string
}

// ExplanationLog is one audit-log entry. The ID is assigned by the sink.
type ExplanationLog struct {
	ID              string
	EmployeeID      string
	Intent          string
	PayPeriod       string
	ExplanationText string
	GeneratedBy     string
	Language        string
	CreatedAt       time.Time
}

// AuditLogger records explanations for audit purposes. Best effort: the
// engine swallows its errors.
type AuditLogger interface {
	WriteExplanationLog(ctx context.Context, entry ExplanationLog) error
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine answers payroll questions over injected collaborators.
type Engine struct {
	payrolls   payroll.PayrollStore
	deductions payroll.DeductionStore
	audit      AuditLogger
	now        func() payroll.Month
}

// Option configures optional Engine behavior.
type Option func(*Engine)

// WithClock overrides the engine's notion of the current month. Tests use
// this to pin "last month" resolution.
func WithClock(now func() payroll.Month) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an Engine. audit may be nil to disable audit logging.
func New(payrolls payroll.PayrollStore, deductions payroll.DeductionStore, audit AuditLogger, opts ...Option) *Engine {
	e := &Engine{
		payrolls:   payrolls,
		deductions: deductions,
		audit:      audit,
		now:        payroll.CurrentMonth,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Explain classifies the question, dispatches to the matching intent handler,
// and audit-logs the outcome. Missing payroll data yields a well-formed
// "no data" response; only infrastructure failures return an error.
func (e *Engine) Explain(ctx context.Context, employeeID, question string) (*ExplanationResponse, error) {
	cls := Classify(question, e.now())
	target := cls.TargetMonth
	comparison := target.Prev()

	log.Printf("question intent=%s target=%s comparison=%s employee=%s", cls.Intent, target, comparison, employeeID)

	resp, err := e.dispatch(ctx, employeeID, cls.Intent, target, comparison)
	if err != nil {
		return nil, err
	}

	e.logExplanation(ctx, employeeID, cls.Intent, resp)
	return resp, nil
}

// ExplainIntent answers a pre-classified intent for a specific month,
// bypassing question classification. The audit log is written the same way
// Explain writes it.
func (e *Engine) ExplainIntent(ctx context.Context, employeeID string, intent Intent, target payroll.Month) (*ExplanationResponse, error) {
	resp, err := e.dispatch(ctx, employeeID, intent, target, target.Prev())
	if err != nil {
		return nil, err
	}
	e.logExplanation(ctx, employeeID, intent, resp)
	return resp, nil
}

func (e *Engine) dispatch(ctx context.Context, employeeID string, intent Intent, target, comparison payroll.Month) (*ExplanationResponse, error) {
	var (
		resp *ExplanationResponse
		err  error
	)
	switch intent {
	case IntentPayDrop:
		resp, err = e.explainPayDrop(ctx, employeeID, target, comparison)
	case IntentDeductions:
		resp, err = e.listDeductions(ctx, employeeID, target)
	case IntentBonus:
		resp, err = e.checkBonus(ctx, employeeID, target)
	case IntentTax:
		resp, err = e.checkTaxWithheld(ctx, employeeID, target)
	case IntentOvertime:
		resp, err = e.explainOvertimeChange(ctx, employeeID, target, comparison)
	case IntentNetPay:
		resp, err = e.getNetPay(ctx, employeeID, target)
	case IntentNewDeductions:
		resp, err = e.checkNewDeductions(ctx, employeeID, target, comparison)
	case IntentHealthInsurance:
		resp, err = e.explainHealthInsuranceChange(ctx, employeeID, target, comparison)
	default:
		resp, err = e.explainGeneric(ctx, employeeID, target, comparison)
	}
	return resp, err
}

// BuildPayslip assembles the payslip view for one month. Returns (nil, nil)
// when no payroll record exists for that month.
func (e *Engine) BuildPayslip(ctx context.Context, employeeID string, m payroll.Month) (*payroll.Payslip, error) {
	record, err := e.payrolls.FetchPeriodRecord(ctx, employeeID, m)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}

	deductions, err := e.deductions.FetchDeductions(ctx, employeeID, m)
	if err != nil {
		return nil, err
	}
	ytdGross, ytdNet, err := e.payrolls.FetchYearToDate(ctx, employeeID, m)
	if err != nil {
		return nil, err
	}
	return payroll.AssemblePayslip(record, deductions, ytdGross, ytdNet), nil
}

// logExplanation records the response in the audit log. Failures here are an
// operator concern, never the caller's.
func (e *Engine) logExplanation(ctx context.Context, employeeID string, intent Intent, resp *ExplanationResponse) {
	if e.audit == nil {
		return
	}
	entry := ExplanationLog{
		EmployeeID:      employeeID,
		Intent:          string(intent),
		PayPeriod:       resp.PayPeriod,
		ExplanationText: resp.Explanation,
		GeneratedBy:     generatedBySource,
		Language:        resp.Language,
		CreatedAt:       time.Now().UTC(),
	}
	if err := e.audit.WriteExplanationLog(ctx, entry); err != nil {
		log.Printf("failed to write explanation log for employee=%s period=%s: %v", employeeID, resp.PayPeriod, err)
	}
}
