package jobmetrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestTrackerRecordsOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	boom := errors.New("boom")
	assert.NoError(t, m.Track("statsapi:warmup").End(nil))
	assert.ErrorIs(t, m.Track("statsapi:warmup").End(boom), boom)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("statsapi:warmup", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("statsapi:warmup", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failures.WithLabelValues("statsapi:warmup")))
}

func TestAddWarmedIgnoresEmptyBatches(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.AddWarmed("rest_rankings", 0)
	m.AddWarmed("rest_rankings", 30)
	assert.Equal(t, 30.0, testutil.ToFloat64(m.warmed.WithLabelValues("rest_rankings")))

	var nilMetrics *Metrics
	nilMetrics.AddWarmed("rest_rankings", 5)
	assert.NoError(t, nilMetrics.Track("x").End(nil))
}
