/*
handlers.go - HTTP API handlers for the payroll explanation engine

PURPOSE:
  Exposes the explanation engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Query:
    POST   /api/query                  Ask a payroll question

  Payslip:
    GET    /api/payslip                Monthly payslip view

  Admin:
    POST   /api/admin/payroll          Ingest one payroll period row
    POST   /api/admin/deductions       Ingest deduction lines for a period
    POST   /api/admin/reset            Clear all data (dev only)

  Audit:
    GET    /api/explanations           Explanation audit history

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input (validator/v10)
  3. Call domain logic (engine, store)
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - explain/engine.go: The engine the query path delegates to
*/
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/warp/payroll-engine/explain"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Engine   *explain.Engine
	Store    *sqlite.Store
	validate *validator.Validate
}

// NewHandler creates a new handler with the given engine and store.
func NewHandler(engine *explain.Engine, store *sqlite.Store) *Handler {
	return &Handler{
		Engine:   engine,
		Store:    store,
		validate: validator.New(),
	}
}

// =============================================================================
// QUERY HANDLERS
// =============================================================================

// Query answers a free-text payroll question.
// POST /api/query
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "employee_id and question are required", err)
		return
	}

	resp, err := h.Engine.Explain(r.Context(), req.EmployeeID, req.Question)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to answer question", err)
		return
	}

	writeJSON(w, http.StatusOK, toExplanationDTO(resp))
}

// =============================================================================
// PAYSLIP HANDLERS
// =============================================================================

// GetPayslip returns the assembled payslip for a month. Without yearMonth it
// falls back to the employee's most recent period.
// GET /api/payslip?employeeId=...&yearMonth=YYYY-MM
func (h *Handler) GetPayslip(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employeeId")
	if employeeID == "" {
		writeError(w, http.StatusBadRequest, "employeeId is required", nil)
		return
	}

	var (
		month payroll.Month
		err   error
	)
	if yearMonth := r.URL.Query().Get("yearMonth"); yearMonth != "" {
		month, err = explain.ParsePeriod(yearMonth)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid yearMonth (use YYYY-MM)", err)
			return
		}
	} else {
		latest, err := h.Store.LatestPeriodRecord(r.Context(), employeeID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to find latest period", err)
			return
		}
		if latest == nil {
			writeError(w, http.StatusNotFound, "No payroll data for employee", nil)
			return
		}
		month = latest.Month()
	}

	slip, err := h.Engine.BuildPayslip(r.Context(), employeeID, month)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build payslip", err)
		return
	}
	if slip == nil {
		writeError(w, http.StatusNotFound, "No payroll data for period", nil)
		return
	}

	writeJSON(w, http.StatusOK, toPayslipDTO(slip))
}

// =============================================================================
// INGEST HANDLERS
// =============================================================================

// IngestPayroll upserts one payroll period row.
// POST /api/admin/payroll
func (h *Handler) IngestPayroll(w http.ResponseWriter, r *http.Request) {
	var req IngestPayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Missing required fields", err)
		return
	}

	periodStart, err := time.Parse("2006-01-02", req.PayPeriodStart)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid pay_period_start (use YYYY-MM-DD)", err)
		return
	}
	periodEnd, err := time.Parse("2006-01-02", req.PayPeriodEnd)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid pay_period_end (use YYYY-MM-DD)", err)
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}
	record := payroll.PeriodRecord{
		EmployeeID:      req.EmployeeID,
		PeriodStart:     periodStart,
		PeriodEnd:       periodEnd,
		GrossPay:        req.GrossPay,
		NetPay:          req.NetPay,
		BaseSalary:      req.BaseSalary,
		Bonus:           req.Bonus,
		Overtime:        req.Overtime,
		TaxWithheld:     req.TaxWithheld,
		TotalDeductions: req.TotalDeductions,
		Currency:        currency,
		LoadDate:        time.Now().UTC(),
	}

	if err := h.Store.SavePeriodRecord(r.Context(), record); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save payroll record", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"employee_id": record.EmployeeID,
		"pay_period":  record.Month().String(),
	})
}

// IngestDeductions inserts a batch of deduction lines for one period.
// POST /api/admin/deductions
func (h *Handler) IngestDeductions(w http.ResponseWriter, r *http.Request) {
	var req IngestDeductionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Missing required fields", err)
		return
	}

	periodEnd, err := time.Parse("2006-01-02", req.PayPeriodEnd)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid pay_period_end (use YYYY-MM-DD)", err)
		return
	}

	items := make([]payroll.DeductionItem, len(req.Deductions))
	for i, line := range req.Deductions {
		items[i] = payroll.DeductionItem{
			EmployeeID:    req.EmployeeID,
			PeriodEnd:     periodEnd,
			DeductionType: line.DeductionType,
			Amount:        line.Amount,
			EmployerMatch: line.EmployerMatch,
			Category:      line.Category,
		}
	}

	if err := h.Store.SaveDeductions(r.Context(), items); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save deductions", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"employee_id": req.EmployeeID,
		"count":       len(items),
	})
}

// ResetDatabase clears all data (dev only).
// POST /api/admin/reset
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// AUDIT HANDLERS
// =============================================================================

const defaultLogLimit = 50

// ListExplanations returns an employee's explanation audit history.
// GET /api/explanations?employeeId=...&limit=N
func (h *Handler) ListExplanations(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employeeId")
	if employeeID == "" {
		writeError(w, http.StatusBadRequest, "employeeId is required", nil)
		return
	}

	limit := defaultLogLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		limit = parsed
	}

	entries, err := h.Store.ListExplanationLogs(r.Context(), employeeID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list explanations", err)
		return
	}

	dtos := make([]ExplanationLogDTO, len(entries))
	for i, entry := range entries {
		dtos[i] = ExplanationLogDTO{
			ID:              entry.ID,
			EmployeeID:      entry.EmployeeID,
			Intent:          entry.Intent,
			PayPeriod:       entry.PayPeriod,
			ExplanationText: entry.ExplanationText,
			GeneratedBy:     entry.GeneratedBy,
			Language:        entry.Language,
			CreatedAt:       entry.CreatedAt.Format(time.RFC3339),
		}
	}

	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
