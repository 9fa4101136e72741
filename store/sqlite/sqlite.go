/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements all persistence interfaces (payroll.PayrollStore,
  payroll.DeductionStore, explain.AuditLogger) using SQLite. In production,
  the same patterns apply to PostgreSQL - only minor SQL dialect differences.

INTERFACES IMPLEMENTED:
  payroll.PayrollStore:   Monthly payroll records and year-to-date sums
  payroll.DeductionStore: Itemized deduction lines per period
  explain.AuditLogger:    Append-only explanation audit log

KEY TABLES:
  payroll_transactions: One row per employee per pay period, loaded from the
                        payroll provider feed
  deduction_breakdown:  Itemized deduction lines keyed by period end date
  explanation_logs:     Append-only record of every generated explanation

MONEY REPRESENTATION:
  All amounts are stored as decimal strings and parsed back through
  money.Parse. Year-to-date sums are accumulated in Go with decimal
  arithmetic rather than SQL SUM, which would coerce to float.

INDEXES:
  - idx_payroll_employee_period: period lookups (hot path, one per question)
  - idx_deductions_employee_period: deduction fetches for the same path
  - idx_explanation_logs_employee: audit listing per employee

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/payroll.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  engine := explain.New(store, store, store)

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - payroll/store.go: Interface definitions
  - explain/engine.go: AuditLogger definition and the engine using this store
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/payroll-engine/explain"
	"github.com/warp/payroll-engine/money"
	"github.com/warp/payroll-engine/payroll"
)

const dateFormat = "2006-01-02"

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Payroll transactions (one row per employee per pay period)
	CREATE TABLE IF NOT EXISTS payroll_transactions (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		pay_period_start TEXT NOT NULL,
		pay_period_end TEXT NOT NULL,
		gross_pay TEXT NOT NULL,
		net_pay TEXT NOT NULL,
		base_salary TEXT NOT NULL,
		bonus TEXT NOT NULL,
		overtime TEXT NOT NULL,
		tax_withheld TEXT NOT NULL,
		total_deductions TEXT NOT NULL,
		currency TEXT NOT NULL DEFAULT 'USD',
		load_date TEXT NOT NULL,
		created_at TEXT NOT NULL,
		UNIQUE(employee_id, pay_period_end)
	);

	-- Period lookup (hot path: one query per question asked)
	CREATE INDEX IF NOT EXISTS idx_payroll_employee_period
		ON payroll_transactions(employee_id, pay_period_end DESC);

	-- Deduction breakdown (itemized lines per period)
	CREATE TABLE IF NOT EXISTS deduction_breakdown (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		pay_period_end TEXT NOT NULL,
		deduction_type TEXT NOT NULL,
		amount TEXT NOT NULL,
		employer_match TEXT,
		category TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_deductions_employee_period
		ON deduction_breakdown(employee_id, pay_period_end);

	-- Explanation audit log (append-only)
	CREATE TABLE IF NOT EXISTS explanation_logs (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		intent TEXT NOT NULL,
		pay_period TEXT NOT NULL,
		explanation_text TEXT NOT NULL,
		generated_by TEXT NOT NULL,
		language TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_explanation_logs_employee
		ON explanation_logs(employee_id, created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// PAYROLL STORE (payroll.PayrollStore interface)
// =============================================================================

// FetchPeriodRecord returns the payroll record whose period ends inside the
// given month, or (nil, nil) when none exists. Latest period end wins if the
// feed ever delivers more than one per month.
func (s *Store) FetchPeriodRecord(ctx context.Context, employeeID string, m payroll.Month) (*payroll.PeriodRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT employee_id, pay_period_start, pay_period_end, gross_pay, net_pay,
		       base_salary, bonus, overtime, tax_withheld, total_deductions,
		       currency, load_date
		FROM payroll_transactions
		WHERE employee_id = ? AND pay_period_end BETWEEN ? AND ?
		ORDER BY pay_period_end DESC
		LIMIT 1
	`

	row := s.db.QueryRowContext(ctx, query, employeeID,
		m.Start().Format(dateFormat), m.End().Format(dateFormat))

	record, err := scanPeriodRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// FetchYearToDate sums gross and net pay from January through the given month,
// inclusive. Sums are accumulated with decimal arithmetic, not SQL SUM.
func (s *Store) FetchYearToDate(ctx context.Context, employeeID string, through payroll.Month) (money.Money, money.Money, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT gross_pay, net_pay
		FROM payroll_transactions
		WHERE employee_id = ? AND pay_period_end BETWEEN ? AND ?
	`

	rows, err := s.db.QueryContext(ctx, query, employeeID,
		through.StartOfYear().Format(dateFormat), through.End().Format(dateFormat))
	if err != nil {
		return money.Zero, money.Zero, fmt.Errorf("failed to query year-to-date: %w", err)
	}
	defer rows.Close()

	gross, net := money.Zero, money.Zero
	for rows.Next() {
		var grossStr, netStr string
		if err := rows.Scan(&grossStr, &netStr); err != nil {
			return money.Zero, money.Zero, err
		}
		g, err := money.Parse(grossStr)
		if err != nil {
			return money.Zero, money.Zero, fmt.Errorf("bad gross_pay in store: %w", err)
		}
		n, err := money.Parse(netStr)
		if err != nil {
			return money.Zero, money.Zero, fmt.Errorf("bad net_pay in store: %w", err)
		}
		gross = gross.Add(g)
		net = net.Add(n)
	}
	return gross, net, rows.Err()
}

// LatestPeriodRecord returns the most recent payroll record for an employee,
// or (nil, nil) when the employee has none.
func (s *Store) LatestPeriodRecord(ctx context.Context, employeeID string) (*payroll.PeriodRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT employee_id, pay_period_start, pay_period_end, gross_pay, net_pay,
		       base_salary, bonus, overtime, tax_withheld, total_deductions,
		       currency, load_date
		FROM payroll_transactions
		WHERE employee_id = ?
		ORDER BY pay_period_end DESC
		LIMIT 1
	`

	record, err := scanPeriodRecord(s.db.QueryRowContext(ctx, query, employeeID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// SavePeriodRecord upserts one payroll record. The feed re-delivers periods
// on corrections; (employee_id, pay_period_end) identifies the row.
func (s *Store) SavePeriodRecord(ctx context.Context, record payroll.PeriodRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO payroll_transactions
		(id, employee_id, pay_period_start, pay_period_end, gross_pay, net_pay,
		 base_salary, bonus, overtime, tax_withheld, total_deductions,
		 currency, load_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(employee_id, pay_period_end) DO UPDATE SET
			pay_period_start = excluded.pay_period_start,
			gross_pay = excluded.gross_pay,
			net_pay = excluded.net_pay,
			base_salary = excluded.base_salary,
			bonus = excluded.bonus,
			overtime = excluded.overtime,
			tax_withheld = excluded.tax_withheld,
			total_deductions = excluded.total_deductions,
			currency = excluded.currency,
			load_date = excluded.load_date
	`

	loadDate := record.LoadDate
	if loadDate.IsZero() {
		loadDate = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, query,
		uuid.NewString(),
		record.EmployeeID,
		record.PeriodStart.Format(dateFormat),
		record.PeriodEnd.Format(dateFormat),
		record.GrossPay.String(),
		record.NetPay.String(),
		record.BaseSalary.String(),
		record.Bonus.String(),
		record.Overtime.String(),
		record.TaxWithheld.String(),
		record.TotalDeductions.String(),
		record.Currency,
		loadDate.Format(time.RFC3339),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save payroll record: %w", err)
	}
	return nil
}

func scanPeriodRecord(row *sql.Row) (*payroll.PeriodRecord, error) {
	var (
		record                               payroll.PeriodRecord
		periodStart, periodEnd, loadDate     string
		grossPay, netPay, baseSalary         string
		bonus, overtime, taxWithheld, deduct string
	)

	err := row.Scan(
		&record.EmployeeID, &periodStart, &periodEnd, &grossPay, &netPay,
		&baseSalary, &bonus, &overtime, &taxWithheld, &deduct,
		&record.Currency, &loadDate,
	)
	if err != nil {
		return nil, err
	}

	record.PeriodStart, _ = time.Parse(dateFormat, periodStart)
	record.PeriodEnd, _ = time.Parse(dateFormat, periodEnd)
	record.LoadDate, _ = time.Parse(time.RFC3339, loadDate)

	fields := []struct {
		dst *money.Money
		src string
	}{
		{&record.GrossPay, grossPay},
		{&record.NetPay, netPay},
		{&record.BaseSalary, baseSalary},
		{&record.Bonus, bonus},
		{&record.Overtime, overtime},
		{&record.TaxWithheld, taxWithheld},
		{&record.TotalDeductions, deduct},
	}
	for _, f := range fields {
		m, err := money.Parse(f.src)
		if err != nil {
			return nil, fmt.Errorf("bad amount in store: %w", err)
		}
		*f.dst = m
	}

	return &record, nil
}

// =============================================================================
// DEDUCTION STORE (payroll.DeductionStore interface)
// =============================================================================

// FetchDeductions returns the deduction lines whose period end falls inside
// the month, in insertion order.
func (s *Store) FetchDeductions(ctx context.Context, employeeID string, m payroll.Month) ([]payroll.DeductionItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT employee_id, pay_period_end, deduction_type, amount, employer_match, category
		FROM deduction_breakdown
		WHERE employee_id = ? AND pay_period_end BETWEEN ? AND ?
		ORDER BY rowid ASC
	`

	rows, err := s.db.QueryContext(ctx, query, employeeID,
		m.Start().Format(dateFormat), m.End().Format(dateFormat))
	if err != nil {
		return nil, fmt.Errorf("failed to query deductions: %w", err)
	}
	defer rows.Close()

	var items []payroll.DeductionItem
	for rows.Next() {
		var (
			item          payroll.DeductionItem
			periodEnd     string
			amount        string
			employerMatch sql.NullString
			category      sql.NullString
		)
		if err := rows.Scan(&item.EmployeeID, &periodEnd, &item.DeductionType,
			&amount, &employerMatch, &category); err != nil {
			return nil, err
		}

		item.PeriodEnd, _ = time.Parse(dateFormat, periodEnd)
		item.Amount, err = money.Parse(amount)
		if err != nil {
			return nil, fmt.Errorf("bad deduction amount in store: %w", err)
		}
		if employerMatch.Valid {
			match, err := money.Parse(employerMatch.String)
			if err != nil {
				return nil, fmt.Errorf("bad employer match in store: %w", err)
			}
			item.EmployerMatch = &match
		}
		item.Category = category.String

		items = append(items, item)
	}
	return items, rows.Err()
}

// SaveDeductions inserts a batch of deduction lines atomically.
func (s *Store) SaveDeductions(ctx context.Context, items []payroll.DeductionItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO deduction_breakdown
		(id, employee_id, pay_period_end, deduction_type, amount, employer_match, category, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now().UTC().Format(time.RFC3339)
	for _, item := range items {
		var employerMatch *string
		if item.EmployerMatch != nil {
			v := item.EmployerMatch.String()
			employerMatch = &v
		}
		if _, err := tx.ExecContext(ctx, query,
			uuid.NewString(),
			item.EmployeeID,
			item.PeriodEnd.Format(dateFormat),
			item.DeductionType,
			item.Amount.String(),
			employerMatch,
			nullString(item.Category),
			now,
		); err != nil {
			return fmt.Errorf("failed to save deduction: %w", err)
		}
	}

	return tx.Commit()
}

// =============================================================================
// AUDIT LOG (explain.AuditLogger interface)
// =============================================================================

// WriteExplanationLog appends one audit entry. An ID is assigned when the
// entry arrives without one.
func (s *Store) WriteExplanationLog(ctx context.Context, entry explain.ExplanationLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := entry.ID
	if id == "" {
		id = uuid.NewString()
	}
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query := `
		INSERT INTO explanation_logs
		(id, employee_id, intent, pay_period, explanation_text, generated_by, language, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		id, entry.EmployeeID, entry.Intent, entry.PayPeriod,
		entry.ExplanationText, entry.GeneratedBy, entry.Language,
		createdAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to write explanation log: %w", err)
	}
	return nil
}

// ListExplanationLogs returns an employee's audit entries, newest first.
func (s *Store) ListExplanationLogs(ctx context.Context, employeeID string, limit int) ([]explain.ExplanationLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, employee_id, intent, pay_period, explanation_text, generated_by, language, created_at
		FROM explanation_logs
		WHERE employee_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, employeeID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query explanation logs: %w", err)
	}
	defer rows.Close()

	var entries []explain.ExplanationLog
	for rows.Next() {
		var entry explain.ExplanationLog
		var createdAt string
		if err := rows.Scan(&entry.ID, &entry.EmployeeID, &entry.Intent,
			&entry.PayPeriod, &entry.ExplanationText, &entry.GeneratedBy,
			&entry.Language, &createdAt); err != nil {
			return nil, err
		}
		entry.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"payroll_transactions", "deduction_breakdown", "explanation_logs"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
