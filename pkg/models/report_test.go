package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReport_APIsSorted(t *testing.T) {
	report := NewReport()
	report.Seed("zeta")
	report.Seed("alpha")
	report.Seed("mid")

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, report.APIs())
}

func TestReport_SeedDoesNotResetCounters(t *testing.T) {
	report := NewReport()
	report.Counters("api").Success = 10
	report.Seed("api")

	counters, ok := report.Get("api")
	assert.True(t, ok)
	assert.Equal(t, int64(10), counters.Success)
}

func TestReport_Totals(t *testing.T) {
	report := NewReport()
	report.Counters("a").Success = 100
	report.Counters("a").ClientError = 5
	report.Counters("b").ServerError = 2

	totals := report.Totals()
	assert.Equal(t, int64(100), totals.Success)
	assert.Equal(t, int64(5), totals.ClientError)
	assert.Equal(t, int64(2), totals.ServerError)
	assert.Equal(t, int64(107), totals.Total())
}

func TestReport_GetMissing(t *testing.T) {
	report := NewReport()
	_, ok := report.Get("absent")
	assert.False(t, ok)
	assert.Equal(t, 0, report.Len())
}
