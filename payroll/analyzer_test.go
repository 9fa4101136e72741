package payroll_test

import (
	"testing"
	"time"

	"github.com/warp/payroll-engine/money"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func usd(s string) money.Money { return money.MustParse(s) }

func month(year int, m time.Month) payroll.Month { return payroll.NewMonth(year, m) }

func record(m payroll.Month, net, base, bonus, overtime, tax string, deductions ...payroll.DeductionItem) *payroll.PeriodRecord {
	return &payroll.PeriodRecord{
		EmployeeID:      "emp-1",
		PeriodStart:     m.Start(),
		PeriodEnd:       m.End(),
		GrossPay:        usd(base).Add(usd(bonus)).Add(usd(overtime)),
		NetPay:          usd(net),
		BaseSalary:      usd(base),
		Bonus:           usd(bonus),
		Overtime:        usd(overtime),
		TaxWithheld:     usd(tax),
		TotalDeductions: usd("0.00"),
		Currency:        "USD",
		Deductions:      deductions,
	}
}

func deduction(deductionType, amount string) payroll.DeductionItem {
	return payroll.DeductionItem{
		EmployeeID:    "emp-1",
		DeductionType: deductionType,
		Amount:        usd(amount),
		Category:      "benefit",
	}
}

// =============================================================================
// SCALAR DELTA TESTS
// =============================================================================

func TestDiff_NetPayChangeIsExactSubtraction(t *testing.T) {
	// GIVEN: Two months of payroll
	// WHEN: Diffing current against previous
	// THEN: Every delta equals current minus previous, exactly

	current := record(month(2025, time.April), "4700.00", "5000.00", "250.00", "0.00", "550.00")
	previous := record(month(2025, time.March), "4500.00", "4800.00", "0.00", "120.00", "420.00")

	pc := payroll.Diff(current, previous)
	if pc == nil {
		t.Fatal("expected a diff, got nil")
	}

	if got := pc.NetPayChange.String(); got != "200.00" {
		t.Errorf("net pay change: got %s, want 200.00", got)
	}
	if got := pc.BasePayChange.String(); got != "200.00" {
		t.Errorf("base pay change: got %s, want 200.00", got)
	}
	if got := pc.BonusChange.String(); got != "250.00" {
		t.Errorf("bonus change: got %s, want 250.00", got)
	}
	if got := pc.OvertimeChange.String(); got != "-120.00" {
		t.Errorf("overtime change: got %s, want -120.00", got)
	}
	if got := pc.TaxChange.String(); got != "130.00" {
		t.Errorf("tax change: got %s, want 130.00", got)
	}
	if pc.CurrentMonth != month(2025, time.April) || pc.PreviousMonth != month(2025, time.March) {
		t.Errorf("months: got %s/%s", pc.CurrentMonth, pc.PreviousMonth)
	}
}

func TestDiff_AbsentWhenEitherRecordMissing(t *testing.T) {
	rec := record(month(2025, time.April), "4700.00", "5000.00", "0.00", "0.00", "550.00")

	if payroll.Diff(nil, rec) != nil {
		t.Error("diff with missing current should be nil")
	}
	if payroll.Diff(rec, nil) != nil {
		t.Error("diff with missing previous should be nil")
	}
	if payroll.Diff(nil, nil) != nil {
		t.Error("diff with both missing should be nil")
	}
}

// =============================================================================
// DEDUCTION DELTA TESTS
// =============================================================================

func TestDiff_DeductionDeltas_UnionOfTypes(t *testing.T) {
	// GIVEN: Current has healthcare+parking, previous has healthcare+retirement
	// WHEN: Diffing
	// THEN: Healthcare delta, parking treated as previous=0, retirement as current=0

	current := record(month(2025, time.April), "4500.00", "5000.00", "0.00", "0.00", "500.00",
		deduction("healthcare", "175.00"),
		deduction("parking", "40.00"),
	)
	previous := record(month(2025, time.March), "4500.00", "5000.00", "0.00", "0.00", "500.00",
		deduction("healthcare", "150.00"),
		deduction("retirement", "200.00"),
	)

	pc := payroll.Diff(current, previous)
	if pc == nil {
		t.Fatal("expected a diff, got nil")
	}

	want := map[string]string{
		"healthcare": "25.00",
		"parking":    "40.00",
		"retirement": "-200.00",
	}
	if len(pc.DeductionChanges) != len(want) {
		t.Fatalf("got %d deduction deltas, want %d", len(pc.DeductionChanges), len(want))
	}
	for deductionType, delta := range want {
		got, ok := pc.DeductionChanges[deductionType]
		if !ok {
			t.Errorf("missing delta for %q", deductionType)
			continue
		}
		if got.String() != delta {
			t.Errorf("%s delta: got %s, want %s", deductionType, got, delta)
		}
	}
}

func TestDiff_DeductionDeltas_DropZeroEntries(t *testing.T) {
	current := record(month(2025, time.April), "4500.00", "5000.00", "0.00", "0.00", "500.00",
		deduction("healthcare", "150.00"),
	)
	previous := record(month(2025, time.March), "4500.00", "5000.00", "0.00", "0.00", "500.00",
		deduction("healthcare", "150.00"),
	)

	pc := payroll.Diff(current, previous)
	if len(pc.DeductionChanges) != 0 {
		t.Errorf("unchanged deductions must not appear in the delta map, got %v", pc.DeductionChanges)
	}
}

func TestGroupDeductionsByType_LastOccurrenceWins(t *testing.T) {
	// GIVEN: A period with the same type twice (later row overrides earlier)
	items := []payroll.DeductionItem{
		deduction("healthcare", "100.00"),
		deduction("healthcare", "150.00"),
	}

	byType := payroll.GroupDeductionsByType(items)
	if got := byType["healthcare"].String(); got != "150.00" {
		t.Errorf("duplicate type must take the last amount, not a sum: got %s", got)
	}
}

func TestDeductionTypes_SortedAndStable(t *testing.T) {
	pc := &payroll.PayChange{DeductionChanges: map[string]money.Money{
		"retirement": usd("10.00"),
		"healthcare": usd("5.00"),
		"parking":    usd("2.00"),
	}}

	for i := 0; i < 5; i++ {
		types := pc.DeductionTypes()
		if len(types) != 3 || types[0] != "healthcare" || types[1] != "parking" || types[2] != "retirement" {
			t.Fatalf("expected alphabetical order on every call, got %v", types)
		}
	}
}

func TestDiff_IsDeterministic(t *testing.T) {
	current := record(month(2025, time.April), "4700.00", "5000.00", "250.00", "0.00", "550.00",
		deduction("healthcare", "175.00"))
	previous := record(month(2025, time.March), "4500.00", "4800.00", "0.00", "120.00", "420.00",
		deduction("healthcare", "150.00"))

	a := payroll.Diff(current, previous)
	b := payroll.Diff(current, previous)

	if a.NetPayChange.String() != b.NetPayChange.String() ||
		len(a.DeductionChanges) != len(b.DeductionChanges) {
		t.Error("diff must be a pure function of its inputs")
	}
}
