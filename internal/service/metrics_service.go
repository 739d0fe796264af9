package service

import (
	"net/http"
	"runtime"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/issue-insights-api/internal/models"
)

const metricsNamespace = "issue_insights"

const (
	cacheResultHit  = "hit"
	cacheResultMiss = "miss"

	analysisOutcomeOK    = "ok"
	analysisOutcomeError = "error"
)

// MetricsService owns the Prometheus registry of the insights API and keeps running totals
// for the /analytics/system snapshot.
type MetricsService struct {
	handler http.Handler

	requestDuration  *prometheus.HistogramVec
	requestTotal     *prometheus.CounterVec
	cacheLookups     *prometheus.CounterVec
	cacheLookupTime  *prometheus.HistogramVec
	cacheWriteTime   *prometheus.HistogramVec
	cacheHitRatio    prometheus.Gauge
	storeQueryTime   *prometheus.HistogramVec
	analysisDuration *prometheus.HistogramVec
	analysisRuns     *prometheus.CounterVec

	cacheHitCount        atomic.Uint64
	cacheMissCount       atomic.Uint64
	requestCount         atomic.Uint64
	requestDurationTotal atomic.Uint64
	dbQueryCount         atomic.Uint64
	dbQueryDurationTotal atomic.Uint64
}

// NewMetricsService builds a private registry so tests and multiple instances never collide.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	m := &MetricsService{
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests by route template.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route template.",
		}, []string{"method", "route", "status"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Cache lookups by keyspace and result.",
		}, []string{"keyspace", "result"}),
		cacheLookupTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "cache",
			Name:      "lookup_duration_seconds",
			Help:      "Cache read latency by keyspace.",
			Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25},
		}, []string{"keyspace"}),
		cacheWriteTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "cache",
			Name:      "write_duration_seconds",
			Help:      "Cache write latency by keyspace.",
			Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25},
		}, []string{"keyspace"}),
		cacheHitRatio: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "cache",
			Name:      "hit_ratio",
			Help:      "Share of cache lookups served from cache since start.",
		}),
		storeQueryTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "store",
			Name:      "query_duration_seconds",
			Help:      "Duration of ticket store queries by dataset.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"query"}),
		analysisDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "insights",
			Name:      "analysis_duration_seconds",
			Help:      "Time spent computing an analysis on a cache miss, store reads included.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"analyzer", "outcome"}),
		analysisRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "insights",
			Name:      "analysis_runs_total",
			Help:      "Computed analyses by analyzer and outcome.",
		}, []string{"analyzer", "outcome"}),
	}

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "goroutines",
		Help:      "Number of live goroutines.",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(
		m.requestDuration, m.requestTotal,
		m.cacheLookups, m.cacheLookupTime, m.cacheWriteTime, m.cacheHitRatio,
		m.storeQueryTime, m.analysisDuration, m.analysisRuns,
		goroutines,
	)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return m
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

// ObserveHTTPRequest records one served request.
func (m *MetricsService) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, route, code).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, route, code).Inc()
	m.requestCount.Add(1)
	m.requestDurationTotal.Add(uint64(duration.Nanoseconds()))
}

// RecordCacheOperation records a lookup of key, labelled by its keyspace.
func (m *MetricsService) RecordCacheOperation(key string, hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	keyspace := cacheKeyspace(key)
	m.cacheLookupTime.WithLabelValues(keyspace).Observe(duration.Seconds())
	if hit {
		m.cacheLookups.WithLabelValues(keyspace, cacheResultHit).Inc()
		m.cacheHitCount.Add(1)
	} else {
		m.cacheLookups.WithLabelValues(keyspace, cacheResultMiss).Inc()
		m.cacheMissCount.Add(1)
	}
	hits, misses := m.cacheHitCount.Load(), m.cacheMissCount.Load()
	m.cacheHitRatio.Set(float64(hits) / float64(hits+misses))
}

// ObserveCacheWrite records a write of key.
func (m *MetricsService) ObserveCacheWrite(key string, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWriteTime.WithLabelValues(cacheKeyspace(key)).Observe(duration.Seconds())
}

// ObserveDBQuery records a ticket store read.
func (m *MetricsService) ObserveDBQuery(query string, duration time.Duration) {
	if m == nil {
		return
	}
	m.storeQueryTime.WithLabelValues(query).Observe(duration.Seconds())
	m.dbQueryCount.Add(1)
	m.dbQueryDurationTotal.Add(uint64(duration.Nanoseconds()))
}

// ObserveAnalysis records one computed analysis. Cache hits never reach it.
func (m *MetricsService) ObserveAnalysis(analyzer string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := analysisOutcomeOK
	if err != nil {
		outcome = analysisOutcomeError
	}
	m.analysisDuration.WithLabelValues(analyzer, outcome).Observe(duration.Seconds())
	m.analysisRuns.WithLabelValues(analyzer, outcome).Inc()
}

// Snapshot returns running totals for the /analytics/system endpoint.
func (m *MetricsService) Snapshot() models.AnalyticsSystemMetrics {
	if m == nil {
		return models.AnalyticsSystemMetrics{}
	}
	hits, misses := m.cacheHitCount.Load(), m.cacheMissCount.Load()
	requests, reqDuration := m.requestCount.Load(), m.requestDurationTotal.Load()
	queries, queryDuration := m.dbQueryCount.Load(), m.dbQueryDurationTotal.Load()

	return models.AnalyticsSystemMetrics{
		CacheHitRatio:            ratio(float64(hits), float64(hits+misses)),
		CacheHits:                hits,
		CacheMisses:              misses,
		RequestsTotal:            requests,
		AverageRequestDurationMs: ratio(float64(reqDuration), float64(requests)) / float64(time.Millisecond),
		DBQueryCount:             queries,
		AverageDBQueryDurationMs: ratio(float64(queryDuration), float64(queries)) / float64(time.Millisecond),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}

// cacheKeyspace keeps the first two segments of a cache key so parameterised keys such as
// analytics:trends:30:2024-03-25 share one label value.
func cacheKeyspace(key string) string {
	parts := strings.SplitN(key, ":", 3)
	if len(parts) < 2 {
		return key
	}
	return parts[0] + ":" + parts[1]
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
