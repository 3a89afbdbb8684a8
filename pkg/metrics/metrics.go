// Package metrics exposes the service's Prometheus metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "skincheck"

// Explanation outcomes.
const (
	ExplanationGenerated = "generated"
	ExplanationFallback  = "fallback"
	ExplanationSkipped   = "skipped"
)

// Cache lookup results.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Metrics holds all service metrics on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	Resolutions      *prometheus.CounterVec
	CacheLookups     *prometheus.CounterVec
	Verdicts         *prometheus.CounterVec
	Explanations     *prometheus.CounterVec
	AnalysisDuration prometheus.Histogram
	ListLength       prometheus.Histogram
}

// New registers the metrics plus Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Resolutions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingredient_resolutions_total",
			Help:      "Ingredient resolutions by the match tier that bound them",
		}, []string{"tier"}),
		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolution_cache_lookups_total",
			Help:      "Resolution cache lookups by result (hit, miss, error)",
		}, []string{"result"}),
		Verdicts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "overall_verdicts_total",
			Help:      "Products analysed by overall verdict",
		}, []string{"verdict"}),
		Explanations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "explanations_total",
			Help:      "Explanation outcomes (generated, fallback, skipped)",
		}, []string{"outcome"}),
		AnalysisDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "End-to-end product analysis latency",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		ListLength: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ingredient_list_length",
			Help:      "Number of ingredients per analysed product",
			Buckets:   prometheus.LinearBuckets(5, 5, 10),
		}),
	}
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) RecordResolution(tier string) {
	if m == nil {
		return
	}
	m.Resolutions.WithLabelValues(tier).Inc()
}

func (m *Metrics) RecordCacheLookup(result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordExplanation(outcome string) {
	if m == nil {
		return
	}
	m.Explanations.WithLabelValues(outcome).Inc()
}

// ObserveAnalysis records one completed analysis.
func (m *Metrics) ObserveAnalysis(verdict string, ingredients int, d time.Duration) {
	if m == nil {
		return
	}
	m.Verdicts.WithLabelValues(verdict).Inc()
	m.ListLength.Observe(float64(ingredients))
	m.AnalysisDuration.Observe(d.Seconds())
}
