package utils

import (
	"fmt"
	"time"
)

// DateLayout is the format used for maturity dates in config and requests
const DateLayout = "2006-01-02"

// DaysPerYear is the Actual/365 Fixed denominator
const DaysPerYear = 365.0

// YearFraction returns the Actual/365 Fixed year fraction between two dates.
// Times of day are ignored so a contract maturing today has zero time left.
func YearFraction(start, end time.Time) float64 {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return e.Sub(s).Hours() / 24 / DaysPerYear
}

// MaturityFromDate converts a YYYY-MM-DD maturity into years from asOf.
// Maturities on or before asOf are rejected.
func MaturityFromDate(maturityDate string, asOf time.Time) (float64, error) {
	d, err := time.Parse(DateLayout, maturityDate)
	if err != nil {
		return 0, fmt.Errorf("invalid maturity date %q: %w", maturityDate, err)
	}
	years := YearFraction(asOf, d)
	if years <= 0 {
		return 0, fmt.Errorf("maturity date %s is not after %s", maturityDate, asOf.Format(DateLayout))
	}
	return years, nil
}
