/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Query:
    QueryRequest, ExplanationDTO, ReasonDTO

  Payslip:
    PayslipDTO, DeductionDTO

  Ingest:
    IngestPayrollRequest, IngestDeductionsRequest, DeductionLine

  Audit:
    ExplanationLogDTO

VALIDATION:
  Request types carry validator/v10 struct tags; handlers run the shared
  Validate instance before touching domain logic.

MONEY FIELDS:
  money.Money marshals as an unquoted fixed-two-decimal JSON number and
  accepts quoted or bare numbers on input.

SEE ALSO:
  - handlers.go: Uses these types
  - money/money.go: JSON behavior of amounts
*/
package api

import (
	"github.com/warp/payroll-engine/explain"
	"github.com/warp/payroll-engine/money"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// QUERY TYPES
// =============================================================================

// QueryRequest is a free-text payroll question from one employee.
type QueryRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	Question   string `json:"question" validate:"required"`
}

// ReasonDTO is a single ranked reason in an explanation response. Delta is
// pre-formatted: signed ("+$25.00") for change reasons, plain ("$150.00")
// for amount reasons.
type ReasonDTO struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	Delta string `json:"delta"`
}

// ExplanationDTO is the response to a query.
type ExplanationDTO struct {
	Explanation string      `json:"explanation"`
	PayPeriod   string      `json:"pay_period"`
	NetChange   money.Money `json:"net_change"`
	Reasons     []ReasonDTO `json:"reasons"`
	Language    string      `json:"language"`
}

func toExplanationDTO(resp *explain.ExplanationResponse) ExplanationDTO {
	reasons := make([]ReasonDTO, len(resp.Reasons))
	for i, r := range resp.Reasons {
		reasons[i] = ReasonDTO{
			Type:  string(r.Type),
			Label: r.Label,
			Delta: r.FormattedDelta(),
		}
	}
	return ExplanationDTO{
		Explanation: resp.Explanation,
		PayPeriod:   resp.PayPeriod,
		NetChange:   resp.NetChange,
		Reasons:     reasons,
		Language:    resp.Language,
	}
}

// =============================================================================
// PAYSLIP TYPES
// =============================================================================

// DeductionDTO is one itemized deduction line on a payslip.
type DeductionDTO struct {
	DeductionType string       `json:"deduction_type"`
	Amount        money.Money  `json:"amount"`
	EmployerMatch *money.Money `json:"employer_match,omitempty"`
	Category      string       `json:"category,omitempty"`
}

// PayslipDTO is the assembled monthly payslip view.
type PayslipDTO struct {
	EmployeeID         string         `json:"employee_id"`
	PayPeriodStart     string         `json:"pay_period_start"`
	PayPeriodEnd       string         `json:"pay_period_end"`
	BaseSalary         money.Money    `json:"base_salary"`
	Bonus              money.Money    `json:"bonus"`
	Overtime           money.Money    `json:"overtime"`
	GrossPay           money.Money    `json:"gross_pay"`
	TaxWithheld        money.Money    `json:"tax_withheld"`
	TotalDeductions    money.Money    `json:"total_deductions"`
	Deductions         []DeductionDTO `json:"deductions"`
	NetPay             money.Money    `json:"net_pay"`
	Currency           string         `json:"currency"`
	YearToDateGrossPay money.Money    `json:"ytd_gross_pay"`
	YearToDateNetPay   money.Money    `json:"ytd_net_pay"`
}

func toPayslipDTO(slip *payroll.Payslip) PayslipDTO {
	deductions := make([]DeductionDTO, len(slip.Deductions))
	for i, d := range slip.Deductions {
		deductions[i] = DeductionDTO{
			DeductionType: d.DeductionType,
			Amount:        d.Amount,
			EmployerMatch: d.EmployerMatch,
			Category:      d.Category,
		}
	}
	return PayslipDTO{
		EmployeeID:         slip.EmployeeID,
		PayPeriodStart:     slip.PeriodStart.Format("2006-01-02"),
		PayPeriodEnd:       slip.PeriodEnd.Format("2006-01-02"),
		BaseSalary:         slip.BaseSalary,
		Bonus:              slip.Bonus,
		Overtime:           slip.Overtime,
		GrossPay:           slip.GrossPay,
		TaxWithheld:        slip.TaxWithheld,
		TotalDeductions:    slip.TotalDeductions,
		Deductions:         deductions,
		NetPay:             slip.NetPay,
		Currency:           slip.Currency,
		YearToDateGrossPay: slip.YearToDateGrossPay,
		YearToDateNetPay:   slip.YearToDateNetPay,
	}
}

// =============================================================================
// INGEST TYPES
// =============================================================================

// IngestPayrollRequest loads one payroll period row. Dates are YYYY-MM-DD.
type IngestPayrollRequest struct {
	EmployeeID      string      `json:"employee_id" validate:"required"`
	PayPeriodStart  string      `json:"pay_period_start" validate:"required"`
	PayPeriodEnd    string      `json:"pay_period_end" validate:"required"`
	GrossPay        money.Money `json:"gross_pay"`
	NetPay          money.Money `json:"net_pay"`
	BaseSalary      money.Money `json:"base_salary"`
	Bonus           money.Money `json:"bonus"`
	Overtime        money.Money `json:"overtime"`
	TaxWithheld     money.Money `json:"tax_withheld"`
	TotalDeductions money.Money `json:"total_deductions"`
	Currency        string      `json:"currency"`
}

// DeductionLine is one deduction row in an ingest batch.
type DeductionLine struct {
	DeductionType string       `json:"deduction_type" validate:"required"`
	Amount        money.Money  `json:"amount"`
	EmployerMatch *money.Money `json:"employer_match,omitempty"`
	Category      string       `json:"category,omitempty"`
}

// IngestDeductionsRequest loads the deduction lines for one period.
type IngestDeductionsRequest struct {
	EmployeeID   string          `json:"employee_id" validate:"required"`
	PayPeriodEnd string          `json:"pay_period_end" validate:"required"`
	Deductions   []DeductionLine `json:"deductions" validate:"required,min=1,dive"`
}

// =============================================================================
// AUDIT TYPES
// =============================================================================

// ExplanationLogDTO is one audit-log entry in API responses.
type ExplanationLogDTO struct {
	ID              string `json:"id"`
	EmployeeID      string `json:"employee_id"`
	Intent          string `json:"intent"`
	PayPeriod       string `json:"pay_period"`
	ExplanationText string `json:"explanation_text"`
	GeneratedBy     string `json:"generated_by"`
	Language        string `json:"language"`
	CreatedAt       string `json:"created_at"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
