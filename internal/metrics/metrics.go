package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline counters, labeled where a breakdown is useful for tuning the
// confidence gate and the extractor backends.
var (
	ParsesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roomnlu_parses_total",
		Help: "Completed parses by selected template.",
	}, []string{"template"})

	BypassesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "roomnlu_gate_bypasses_total",
		Help: "Parses where the confidence gate skipped the model extractor.",
	})

	ModelCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roomnlu_model_calls_total",
		Help: "Model extractor invocations by outcome (ok, error).",
	}, []string{"outcome"})

	CacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "roomnlu_cache_hits_total",
		Help: "Parses served from the compiled-result cache.",
	})

	ParseDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "roomnlu_parse_duration_seconds",
		Help:    "End-to-end parse latency.",
		Buckets: prometheus.DefBuckets,
	})
)
