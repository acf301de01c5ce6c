package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/unischeduler-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation for HTTP traffic,
// the section cache and the generation loop.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheHitRatio   prometheus.Gauge
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	attemptTotal    *prometheus.CounterVec
	attemptDuration prometheus.Observer
	outcomeTotal    *prometheus.CounterVec
	attemptsPerRun  prometheus.Observer
	tokensTotal     prometheus.Counter
	scrapeDuration  prometheus.Observer
	scrapeFailures  prometheus.Counter
	cacheHitCount   uint64
	cacheMissCount  uint64
}

// NewMetricsService registers the collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "section_cache_latency_seconds",
		Help:    "Latency for section cache lookups",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "section_cache_write_seconds",
		Help:    "Latency for section cache writes",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "section_cache_hit_ratio",
		Help: "Ratio of section cache hits to total lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "section_cache_hits_total",
		Help: "Total section cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "section_cache_misses_total",
		Help: "Total section cache misses",
	})

	attemptTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_generation_attempts_total",
		Help: "Generation attempts by validation verdict",
	}, []string{"reason"})

	attemptDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "schedule_generation_attempt_seconds",
		Help:    "Wall time of one generate-and-validate attempt",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
	})

	outcomeTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_generation_runs_total",
		Help: "Finished generation runs by outcome",
	}, []string{"outcome"})

	attemptsPerRun := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "schedule_generation_attempts_per_run",
		Help:    "Attempts consumed per generation run",
		Buckets: []float64{1, 2, 3, 4, 5, 8, 10},
	})

	tokensTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "generator_tokens_total",
		Help: "Tokens consumed by the schedule generator",
	})

	scrapeDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "timetable_scrape_seconds",
		Help:    "Latency of timetable section fetches",
		Buckets: prometheus.DefBuckets,
	})

	scrapeFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timetable_scrape_failures_total",
		Help: "Failed timetable section fetches",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(
		requestDuration, requestTotal,
		cacheLatency, cacheWrite, cacheHitRatio, cacheHits, cacheMisses,
		attemptTotal, attemptDuration, outcomeTotal, attemptsPerRun, tokensTotal,
		scrapeDuration, scrapeFailures, goroutines,
	)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheLatency:    cacheLatency,
		cacheWrite:      cacheWrite,
		cacheHitRatio:   cacheHitRatio,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		attemptTotal:    attemptTotal,
		attemptDuration: attemptDuration,
		outcomeTotal:    outcomeTotal,
		attemptsPerRun:  attemptsPerRun,
		tokensTotal:     tokensTotal,
		scrapeDuration:  scrapeDuration,
		scrapeFailures:  scrapeFailures,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records cache hit/miss metrics and updates hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	if total := hits + misses; total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveGenerationAttempt counts one attempt under its verdict reason.
func (m *MetricsService) ObserveGenerationAttempt(reason models.VerdictReason, duration time.Duration) {
	if m == nil {
		return
	}
	m.attemptTotal.WithLabelValues(string(reason)).Inc()
	m.attemptDuration.Observe(duration.Seconds())
}

// ObserveGenerationOutcome records how a run ended.
func (m *MetricsService) ObserveGenerationOutcome(outcome string, attempts int) {
	if m == nil {
		return
	}
	m.outcomeTotal.WithLabelValues(outcome).Inc()
	m.attemptsPerRun.Observe(float64(attempts))
}

// AddTokens adds generator token usage.
func (m *MetricsService) AddTokens(tokens int64) {
	if m == nil || tokens <= 0 {
		return
	}
	m.tokensTotal.Add(float64(tokens))
}

// ObserveScrape records a timetable fetch.
func (m *MetricsService) ObserveScrape(duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.scrapeDuration.Observe(duration.Seconds())
	if err != nil {
		m.scrapeFailures.Inc()
	}
}
