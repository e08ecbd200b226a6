package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYearFraction(t *testing.T) {
	start := time.Date(2025, 1, 1, 15, 30, 0, 0, time.UTC)

	assert.InDelta(t, 1.0, YearFraction(start, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)), 1e-12)
	assert.InDelta(t, 181.0/365.0, YearFraction(start, time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)), 1e-12)
	assert.Equal(t, 0.0, YearFraction(start, start.Add(3*time.Hour)))
}

func TestMaturityFromDate(t *testing.T) {
	asOf := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	years, err := MaturityFromDate("2025-09-01", asOf)
	require.NoError(t, err)
	assert.InDelta(t, 184.0/365.0, years, 1e-12)

	_, err = MaturityFromDate("2025-03-01", asOf)
	assert.Error(t, err)

	_, err = MaturityFromDate("09/01/2025", asOf)
	assert.Error(t, err)
}
