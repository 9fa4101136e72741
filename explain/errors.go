/*
errors.go - Error taxonomy for the explanation engine

ERROR CATEGORIES:
  1. Client errors - malformed input (bad period identifier); HTTP layers map
     these to a bad-request status via IsClientError.
  2. Internal errors - store failures surface unwrapped; the engine never
     retries and never returns partial results.

Missing payroll data is NOT an error anywhere in this package: it resolves
into a well-formed "no data" response.
*/
package explain

import (
	"errors"
	"fmt"

	"github.com/warp/payroll-engine/payroll"
)

var (
	// ErrInvalidPeriod is returned when a period identifier cannot be parsed.
	ErrInvalidPeriod = errors.New("invalid period identifier")
)

// ParsePeriod parses the wire "YYYY-MM" period format, wrapping failures in
// ErrInvalidPeriod so callers can classify them as client errors.
func ParsePeriod(s string) (payroll.Month, error) {
	m, err := payroll.ParseMonth(s)
	if err != nil {
		return payroll.Month{}, fmt.Errorf("%w: %v", ErrInvalidPeriod, err)
	}
	return m, nil
}

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidPeriod)
}
