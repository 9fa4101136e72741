package payroll

import (
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// MONTH - The unit of payroll comparison
// =============================================================================

// Month identifies one calendar month. It is the period key everywhere in this
// system: records are fetched by month, diffs compare a month against the one
// before it, and responses report the period as "YYYY-MM".
type Month struct {
	Year  int
	Month time.Month
}

// NewMonth builds a Month from a year and a calendar month.
func NewMonth(year int, month time.Month) Month {
	return Month{Year: year, Month: month}
}

// MonthOf returns the month containing the given time.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// CurrentMonth returns the month containing the current wall-clock time.
func CurrentMonth() Month { return MonthOf(time.Now().UTC()) }

// ParseMonth parses the "YYYY-MM" wire format.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q (use YYYY-MM): %w", s, err)
	}
	return MonthOf(t), nil
}

// String renders the "YYYY-MM" wire format.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Prev returns the previous calendar month.
func (m Month) Prev() Month { return MonthOf(m.Start().AddDate(0, -1, 0)) }

// Next returns the following calendar month.
func (m Month) Next() Month { return MonthOf(m.Start().AddDate(0, 1, 0)) }

// Start returns the first day of the month (UTC midnight).
func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End returns the last day of the month (UTC midnight).
func (m Month) End() time.Time {
	return time.Date(m.Year, m.Month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
}

// StartOfYear returns January of the same year. Used for year-to-date bounds.
func (m Month) StartOfYear() time.Time {
	return time.Date(m.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// Contains reports whether t falls inside the month.
func (m Month) Contains(t time.Time) bool {
	return MonthOf(t) == m
}

// Name returns the lowercase English month name ("march"). Handler texts use
// this form.
func (m Month) Name() string { return strings.ToLower(m.Month.String()) }

// DisplayName returns the title-cased month name ("March"). Only the narrative
// sentence uses this form.
func (m Month) DisplayName() string { return m.Month.String() }

func (m Month) IsZero() bool { return m.Year == 0 && m.Month == 0 }

// Before reports whether m precedes o in calendar order.
func (m Month) Before(o Month) bool {
	return m.Year < o.Year || (m.Year == o.Year && m.Month < o.Month)
}
