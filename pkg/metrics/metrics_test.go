package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_CountsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.ObserveAdmission(OutcomeAccepted)
	m.ObserveAdmission(OutcomeAccepted)
	m.ObserveAdmission(OutcomeOverlap)
	m.ObserveFactorCache(true)
	m.ObserveFactorCache(false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.admissions.WithLabelValues(OutcomeAccepted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.admissions.WithLabelValues(OutcomeOverlap)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.factorLookup.WithLabelValues("hit")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveAdmission(OutcomeError)
		m.ObserveFactorCache(false)
	})
}

func TestMetrics_DoubleRegisterFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)
	_, err = New(reg)
	assert.Error(t, err)
}
