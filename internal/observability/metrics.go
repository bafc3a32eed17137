// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Ingestion metrics
	RowsParsed    *prometheus.CounterVec
	RowsSkipped   *prometheus.CounterVec
	CellsExcluded prometheus.Counter

	// Pipeline metrics
	PipelineRunsTotal   *prometheus.CounterVec
	PipelineDuration    prometheus.Histogram
	SyntheticFallbacks  prometheus.Counter
	ClusteringFallbacks prometheus.Counter

	// Health metrics
	LastSuccessfulRun prometheus.Gauge
}

// NewMetrics creates a Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "fronthaul"
	}

	return &Metrics{
		RowsParsed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "rows_parsed_total",
			Help:      "Total number of raw rows parsed successfully by file kind",
		}, []string{"kind"}),
		RowsSkipped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "rows_skipped_total",
			Help:      "Total number of malformed rows skipped by file kind",
		}, []string{"kind"}),
		CellsExcluded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "cells_excluded_total",
			Help:      "Total number of cell contributions excluded for data-quality failures",
		}),

		PipelineRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Total number of pipeline runs by status",
		}, []string{"status"}),
		PipelineDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "Pipeline run duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}),
		SyntheticFallbacks: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "synthetic_fallbacks_total",
			Help:      "Total number of runs that substituted synthetic input",
		}),
		ClusteringFallbacks: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "inference",
			Name:      "clustering_fallbacks_total",
			Help:      "Total number of runs that fell back to the round-robin partition",
		}),

		LastSuccessfulRun: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_run_timestamp",
			Help:      "Unix timestamp of the last successful pipeline run",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordRowsParsed records per-file parse outcomes.
func RecordRowsParsed(kind string, parsed, skipped int) {
	DefaultMetrics.RowsParsed.WithLabelValues(kind).Add(float64(parsed))
	DefaultMetrics.RowsSkipped.WithLabelValues(kind).Add(float64(skipped))
}

// RecordCellExcluded increments the excluded-cell counter.
func RecordCellExcluded() {
	DefaultMetrics.CellsExcluded.Inc()
}

// RecordPipelineRun records a pipeline run and its duration.
func RecordPipelineRun(status string, durationSeconds float64) {
	DefaultMetrics.PipelineRunsTotal.WithLabelValues(status).Inc()
	DefaultMetrics.PipelineDuration.Observe(durationSeconds)
}

// RecordSyntheticFallback increments the synthetic-input counter.
func RecordSyntheticFallback() {
	DefaultMetrics.SyntheticFallbacks.Inc()
}

// RecordClusteringFallback increments the round-robin fallback counter.
func RecordClusteringFallback() {
	DefaultMetrics.ClusteringFallbacks.Inc()
}

// MarkSuccessfulRun sets the last-successful-run timestamp.
func MarkSuccessfulRun(unixSeconds float64) {
	DefaultMetrics.LastSuccessfulRun.Set(unixSeconds)
}
