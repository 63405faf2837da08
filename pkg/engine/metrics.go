package engine

import "github.com/prometheus/client_golang/prometheus"

// Metrics collects and exposes prediction-pipeline Prometheus metrics.
type Metrics struct {
	registry *prometheus.Registry

	ComparisonsTotal   *prometheus.CounterVec
	ComparisonDuration *prometheus.HistogramVec
	WinProbability     *prometheus.HistogramVec
	EdgeScore          *prometheus.HistogramVec

	SourceAttempts *prometheus.CounterVec
	SourceFailures *prometheus.CounterVec

	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec
}

// NewMetrics creates a metrics collector on its own registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		ComparisonsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ballpulse_comparisons_total",
				Help: "Total number of matchup comparisons computed",
			},
			[]string{"sport", "status"},
		),
		ComparisonDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ballpulse_comparison_duration_seconds",
				Help:    "End-to-end matchup comparison latency",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
			},
			[]string{"sport"},
		),
		WinProbability: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ballpulse_win_probability",
				Help:    "Distribution of reported win probabilities",
				Buckets: []float64{0.5, 0.55, 0.6, 0.65, 0.7, 0.75, 0.8, 0.85, 0.9, 0.95, 1.0},
			},
			[]string{"confidence"},
		),
		EdgeScore: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ballpulse_edge_score_points",
				Help:    "Model-vs-market edge in percentage points",
				Buckets: []float64{-25, -15, -10, -5, -2, 0, 2, 5, 10, 15, 25},
			},
			[]string{"agreement"},
		),

		SourceAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ballpulse_stats_source_attempts_total",
				Help: "Stats acquisition attempts per source tier",
			},
			[]string{"source"},
		),
		SourceFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ballpulse_stats_source_failures_total",
				Help: "Failed stats acquisition attempts per source tier",
			},
			[]string{"source"},
		),

		CacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ballpulse_cache_hits_total",
				Help: "Cache hits by entry kind",
			},
			[]string{"kind"},
		),
		CacheMisses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ballpulse_cache_misses_total",
				Help: "Cache misses by entry kind",
			},
			[]string{"kind"},
		),
	}

	registry.MustRegister(
		m.ComparisonsTotal,
		m.ComparisonDuration,
		m.WinProbability,
		m.EdgeScore,
		m.SourceAttempts,
		m.SourceFailures,
		m.CacheHits,
		m.CacheMisses,
	)
	return m
}

// Registry returns the underlying registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordComparison records one completed comparison.
func (m *Metrics) RecordComparison(sport, status string, durationSec float64) {
	m.ComparisonsTotal.WithLabelValues(sport, status).Inc()
	m.ComparisonDuration.WithLabelValues(sport).Observe(durationSec)
}

// RecordPrediction records the reported probability and optional edge.
func (m *Metrics) RecordPrediction(confidence string, prob float64, agreement string, edge *float64) {
	m.WinProbability.WithLabelValues(confidence).Observe(prob)
	if edge != nil {
		m.EdgeScore.WithLabelValues(agreement).Observe(*edge)
	}
}

// RecordSourceAttempt records one acquisition attempt outcome.
func (m *Metrics) RecordSourceAttempt(source string, failed bool) {
	m.SourceAttempts.WithLabelValues(source).Inc()
	if failed {
		m.SourceFailures.WithLabelValues(source).Inc()
	}
}

// RecordCacheLookup records a hit or miss for an entry kind.
func (m *Metrics) RecordCacheLookup(kind string, hit bool) {
	if hit {
		m.CacheHits.WithLabelValues(kind).Inc()
		return
	}
	m.CacheMisses.WithLabelValues(kind).Inc()
}
