// Package observability holds the Prometheus metrics for the planner:
// plan computations, upstream fetches and document-cache behavior.
// Metrics are registered once at import via promauto and exposed on
// /metrics when the server enables it.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Plan Metrics ───────────────────────────────────────────────────────────

var (
	// PlansTotal counts completed requirement calculations by outcome.
	PlansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "claimplan",
		Name:      "plans_total",
		Help:      "Requirement calculations run, by outcome.",
	}, []string{"outcome"})

	// PlanDuration observes end-to-end calculation latency, fetches included.
	PlanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "claimplan",
		Name:      "plan_duration_seconds",
		Help:      "End-to-end requirement calculation latency.",
		Buckets:   prometheus.DefBuckets,
	})
)

// ─── Upstream Metrics ───────────────────────────────────────────────────────

var (
	// UpstreamDuration observes game-data API request latency.
	UpstreamDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "claimplan",
		Subsystem: "upstream",
		Name:      "request_duration_seconds",
		Help:      "Game-data API request latency.",
		Buckets:   prometheus.DefBuckets,
	})

	// UpstreamErrors counts failed game-data API requests.
	UpstreamErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "claimplan",
		Subsystem: "upstream",
		Name:      "errors_total",
		Help:      "Failed game-data API requests.",
	})
)

// ─── Cache Metrics ──────────────────────────────────────────────────────────

var (
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "claimplan",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Document cache hits.",
	})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "claimplan",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Document cache misses.",
	})

	// CacheErrors counts cache writes that failed and were ignored.
	CacheErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "claimplan",
		Subsystem: "cache",
		Name:      "errors_total",
		Help:      "Document cache write failures (non-fatal).",
	})
)

// ─── History Metrics ────────────────────────────────────────────────────────

// HistoryErrors counts plan-history writes that failed and were ignored.
var HistoryErrors = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "claimplan",
	Subsystem: "history",
	Name:      "errors_total",
	Help:      "Plan history write failures (non-fatal).",
})

// ObservePlan records one finished calculation.
func ObservePlan(seconds float64, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	PlansTotal.WithLabelValues(outcome).Inc()
	if err == nil {
		PlanDuration.Observe(seconds)
	}
}
