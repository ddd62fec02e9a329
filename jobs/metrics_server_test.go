package jobs

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jobmetrics "github.com/courtvision/courtvision/internal/jobs"
	"github.com/courtvision/courtvision/internal/observability"
)

func scrape(t *testing.T, h http.Handler, path string) (int, string) {
	t.Helper()
	srv := httptest.NewServer(h)
	defer srv.Close()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestMetricsRouterServesWarmupFailures(t *testing.T) {
	obs := observability.NewMetrics()
	job := NewStatsWarmupJob(&recordingSource{fail: "rest_rankings"}, nil, jobmetrics.NewMetrics(obs.Registerer()))

	task, err := NewWarmupTask(WarmupPayload{})
	require.NoError(t, err)
	require.Error(t, job.Handle(context.Background(), task))

	code, body := scrape(t, MetricsRouter(obs.Handler()), "/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `courtvision_jobs_failures_total{job="statsapi:warmup"} 1`)
	assert.Contains(t, body, `courtvision_jobs_total{job="statsapi:warmup",status="failure"} 1`)
}

func TestMetricsRouterHealth(t *testing.T) {
	code, body := scrape(t, MetricsRouter(nil), "/healthz")
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"ok"}`, body)

	code, _ = scrape(t, MetricsRouter(nil), "/metrics")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestNewMetricsServerAddr(t *testing.T) {
	srv := NewMetricsServer(":9091", nil)
	assert.Equal(t, ":9091", srv.Addr)
	assert.NotNil(t, srv.Handler)
}
