package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Web server metrics.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "polonizacyja_http_requests_total",
		Help: "Total HTTP requests by route, method, and status code",
	}, []string{"route", "method", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "polonizacyja_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"route", "method"})

	RateLimitHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "polonizacyja_rate_limit_hits_total",
		Help: "Total rate limit rejections by frontend",
	}, []string{"source"})
)

// Transliteration metrics, labeled by the frontend that asked (web, bot, cli).
var (
	TransliterationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "polonizacyja_transliterations_total",
		Help: "Transliteration calls by source and options",
	}, []string{"source", "variant"})

	TransliteratedBytes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "polonizacyja_transliterated_bytes_total",
		Help: "Input bytes transliterated by source",
	}, []string{"source"})

	SavedTransliterations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "polonizacyja_saved_transliterations_total",
		Help: "Saved transliterations by result",
	}, []string{"result"})

	RetentionDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "polonizacyja_retention_deleted_total",
		Help: "Saved transliterations removed by the retention loop",
	})
)

// Database pool metrics (gauges updated periodically, PostgreSQL only).
var (
	DBPoolTotalConns = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "polonizacyja_db_pool_total_conns",
		Help: "Total number of connections in the pool",
	})

	DBPoolIdleConns = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "polonizacyja_db_pool_idle_conns",
		Help: "Number of idle connections in the pool",
	})

	DBPoolAcquiredConns = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "polonizacyja_db_pool_acquired_conns",
		Help: "Number of acquired connections in the pool",
	})
)

// Variant names the option combination for the variant label.
func Variant(polishExceptions, serbian bool) string {
	switch {
	case polishExceptions && serbian:
		return "polish+serbian"
	case polishExceptions:
		return "polish"
	case serbian:
		return "serbian"
	default:
		return "generic"
	}
}

// ObserveTransliteration records one call from source over n input bytes.
func ObserveTransliteration(source, variant string, n int) {
	TransliterationsTotal.WithLabelValues(source, variant).Inc()
	TransliteratedBytes.WithLabelValues(source).Add(float64(n))
}
