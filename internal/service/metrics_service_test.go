package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/unischeduler-api/internal/models"
)

func TestMetricsServiceRecordsGenerationAttempts(t *testing.T) {
	m := NewMetricsService()

	m.ObserveGenerationAttempt(models.ReasonOverlap, 2*time.Second)
	m.ObserveGenerationAttempt(models.ReasonOverlap, time.Second)
	m.ObserveGenerationAttempt(models.ReasonOK, time.Second)
	m.ObserveGenerationOutcome(OutcomeAccepted, 3)
	m.AddTokens(1200)
	m.AddTokens(-5)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.attemptTotal.WithLabelValues(string(models.ReasonOverlap))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.attemptTotal.WithLabelValues(string(models.ReasonOK))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.outcomeTotal.WithLabelValues(OutcomeAccepted)))
	assert.Equal(t, 1200.0, testutil.ToFloat64(m.tokensTotal))
}

func TestMetricsServiceCacheHitRatio(t *testing.T) {
	m := NewMetricsService()

	m.RecordCacheOperation(true, time.Millisecond)
	m.RecordCacheOperation(false, time.Millisecond)
	m.RecordCacheOperation(true, time.Millisecond)
	m.RecordCacheOperation(true, time.Millisecond)

	assert.Equal(t, 0.75, testutil.ToFloat64(m.cacheHitRatio))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.cacheHits))
}

func TestMetricsServiceHandlerExposesRegistry(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest(http.MethodPost, "/api/v1/schedules/generate", http.StatusOK, 20*time.Millisecond)
	m.ObserveScrape(time.Millisecond, assert.AnError)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `http_requests_total{method="POST",path="/api/v1/schedules/generate",status="200"} 1`)
	assert.Contains(t, body, "timetable_scrape_failures_total 1")
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService
	assert.NotPanics(t, func() {
		m.ObserveGenerationAttempt(models.ReasonOK, time.Second)
		m.ObserveGenerationOutcome(OutcomeExhausted, 5)
		m.RecordCacheOperation(true, time.Millisecond)
		m.AddTokens(10)
	})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
