package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/probelab/probesvc/internal/api/handlers"
	"github.com/probelab/probesvc/internal/metrics"
	"github.com/probelab/probesvc/pkg/model"
)

// stubCounter stands in for the external survivor store.
type stubCounter struct {
	value int64
}

func (s *stubCounter) Increment(ctx context.Context) int64 {
	return s.value
}

func newTestRouter(t *testing.T, sc handlers.SurvivorCounter) (*gin.Engine, *handlers.Probe) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m := metrics.New()
	probe := handlers.New(zap.NewNop(), m, sc, "test-host")
	// short load bounds so endpoint tests finish quickly
	probe.DefaultLoadSeconds = 1
	probe.MaxLoadSeconds = 2

	return NewRouter(probe, m, zap.NewNop(), "production", true), probe
}

func doRequest(r *gin.Engine, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestHealthAlwaysHealthy(t *testing.T) {
	r, _ := newTestRouter(t, &stubCounter{value: 7})

	w := doRequest(r, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, w.Code)

	var report model.HealthReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))

	assert.Equal(t, "healthy", report.Status)
	assert.Equal(t, "test-host", report.Hostname)
	assert.Equal(t, int64(7), report.SurvivorCount)
	assert.Equal(t, "running", report.Checks.Server)
	assert.Contains(t, []string{"ok", "warning"}, report.Checks.Memory)
	assert.GreaterOrEqual(t, report.UptimeSeconds, 0.0)
}

func TestHealthSurvivesCounterFailure(t *testing.T) {
	// a failed store reads as zero, request still succeeds
	r, _ := newTestRouter(t, &stubCounter{value: 0})

	w := doRequest(r, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, w.Code)

	var report model.HealthReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, "healthy", report.Status)
	assert.Equal(t, int64(0), report.SurvivorCount)
}

func TestHealthConcurrent(t *testing.T) {
	r, _ := newTestRouter(t, &stubCounter{value: 1})

	var wg sync.WaitGroup
	results := make([]*httptest.ResponseRecorder, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = doRequest(r, http.MethodGet, "/health")
		}(i)
	}
	wg.Wait()

	for _, w := range results {
		require.Equal(t, http.StatusOK, w.Code)
		var report model.HealthReport
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
		assert.Equal(t, "healthy", report.Status)
	}
}

func TestReady(t *testing.T) {
	r, _ := newTestRouter(t, &stubCounter{})

	w := doRequest(r, http.MethodGet, "/ready")
	require.Equal(t, http.StatusOK, w.Code)

	var resp model.ReadyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Ready)
	assert.Equal(t, "test-host", resp.Hostname)
	assert.NotEmpty(t, resp.Timestamp)
}

func TestLoadDefaultDuration(t *testing.T) {
	r, probe := newTestRouter(t, &stubCounter{})

	w := doRequest(r, http.MethodGet, "/load")
	require.Equal(t, http.StatusOK, w.Code)

	var res model.LoadTestResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))

	assert.Equal(t, "completed", res.Status)
	assert.Equal(t, probe.DefaultLoadSeconds, res.RequestedDurationSeconds)
	assert.GreaterOrEqual(t, res.ActualDurationSeconds, float64(res.RequestedDurationSeconds))
	assert.GreaterOrEqual(t, res.Iterations, 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(probe.Metrics.LoadTestsTotal))
}

func TestLoadCounterIncrementsOncePerCall(t *testing.T) {
	r, probe := newTestRouter(t, &stubCounter{})

	require.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/load?duration=1").Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(probe.Metrics.LoadTestsTotal))

	require.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/load?duration=1").Code)
	assert.Equal(t, 2.0, testutil.ToFloat64(probe.Metrics.LoadTestsTotal))

	// other endpoints must not touch the load counter
	doRequest(r, http.MethodGet, "/health")
	assert.Equal(t, 2.0, testutil.ToFloat64(probe.Metrics.LoadTestsTotal))
}

func TestLoadClampsToMax(t *testing.T) {
	r, probe := newTestRouter(t, &stubCounter{})

	w := doRequest(r, http.MethodGet, "/load?duration=100")
	require.Equal(t, http.StatusOK, w.Code)

	var res model.LoadTestResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))

	assert.Equal(t, probe.MaxLoadSeconds, res.RequestedDurationSeconds)
	assert.GreaterOrEqual(t, res.ActualDurationSeconds, float64(probe.MaxLoadSeconds))
}

func TestLoadActualAtLeastRequested(t *testing.T) {
	r, _ := newTestRouter(t, &stubCounter{})

	w := doRequest(r, http.MethodGet, "/load?duration=1")
	require.Equal(t, http.StatusOK, w.Code)

	var res model.LoadTestResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))

	assert.Equal(t, 1, res.RequestedDurationSeconds)
	assert.GreaterOrEqual(t, res.ActualDurationSeconds, 1.0)
}

func TestMetricsExposition(t *testing.T) {
	r, _ := newTestRouter(t, &stubCounter{})

	// prime the registry with one tracked request
	doRequest(r, http.MethodGet, "/health")

	w := doRequest(r, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "http_requests_total")
	assert.Contains(t, body, "http_request_duration_seconds")
	assert.Contains(t, body, "load_tests_total")
	assert.Contains(t, body, "http_active_connections")
}

func TestNotFound(t *testing.T) {
	r, _ := newTestRouter(t, &stubCounter{})

	w := doRequest(r, http.MethodGet, "/unknown-route")
	require.Equal(t, http.StatusNotFound, w.Code)

	var resp struct {
		Error              string   `json:"error"`
		Message            string   `json:"message"`
		AvailableEndpoints []string `json:"availableEndpoints"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "Not Found", resp.Error)
	assert.Contains(t, resp.Message, "/unknown-route")
	assert.NotEmpty(t, resp.AvailableEndpoints)
}

func TestIndexListsEndpoints(t *testing.T) {
	r, _ := newTestRouter(t, &stubCounter{})

	w := doRequest(r, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "GET /health")
}

func TestChaosKill(t *testing.T) {
	r, probe := newTestRouter(t, &stubCounter{})

	exitCodes := make(chan int, 1)
	probe.Exit = func(code int) { exitCodes <- code }
	probe.ExitDelay = 10 * time.Millisecond

	w := doRequest(r, http.MethodPost, "/chaos/kill")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "dying", resp.Status)
	assert.NotEmpty(t, resp.Message)

	select {
	case code := <-exitCodes:
		assert.Equal(t, 1, code)
	case <-time.After(time.Second):
		t.Fatal("process exit was never requested")
	}
}

func TestChaosDisabledIs404(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := metrics.New()
	probe := handlers.New(zap.NewNop(), m, &stubCounter{}, "test-host")
	r := NewRouter(probe, m, zap.NewNop(), "production", false)

	w := doRequest(r, http.MethodPost, "/chaos/kill")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
