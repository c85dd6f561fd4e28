// Package metrics provides Prometheus metrics for the Bears API.
// It tracks inbound request counts and latencies, upstream Wikipedia calls,
// extraction results and image fallbacks.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace for all metrics
const (
	Namespace = "bears_api"
)

var (
	// RequestsTotal counts MCP tool calls by tool name and status
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "requests_total",
		Help:      "Total number of MCP tool calls",
	}, []string{"tool", "status"})

	// RequestDuration measures MCP tool latency distribution
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "request_duration_seconds",
		Help:      "MCP tool latency distribution by tool",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	}, []string{"tool"})

	// RequestInFlight tracks currently executing tool calls
	RequestInFlight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "requests_in_flight",
		Help:      "Number of tool calls currently being processed",
	}, []string{"tool"})

	// HTTPRequestsTotal counts inbound HTTP requests
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by method, route and status",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration measures inbound HTTP request latency
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency distribution",
		Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	}, []string{"method", "path"})

	// UpstreamRequestsTotal counts Wikipedia API requests
	UpstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "upstream_requests_total",
		Help:      "Total Wikipedia API requests by action and status",
	}, []string{"action", "status"})

	// UpstreamLatency measures Wikipedia API call latency
	UpstreamLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "upstream_latency_seconds",
		Help:      "Wikipedia API call latency by action",
		Buckets:   prometheus.DefBuckets,
	}, []string{"action"})

	// UpstreamErrors counts Wikipedia API failures by reason
	UpstreamErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "upstream_errors_total",
		Help:      "Wikipedia API failures by action and reason",
	}, []string{"action", "reason"})

	// ImageFallbacks counts placeholder images served instead of resolved URLs
	ImageFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "image_fallbacks_total",
		Help:      "Placeholder images returned by reason",
	}, []string{"reason"})

	// RecordsExtracted tracks how many species the last extraction produced
	RecordsExtracted = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "records_extracted",
		Help:      "Species records produced by the most recent extraction",
	})

	// RowsSkipped counts table rows dropped for missing fields
	RowsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "rows_skipped_total",
		Help:      "Species table rows skipped because a required field was missing",
	})

	// PanicsRecovered counts recovered panics
	PanicsRecovered = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "panics_recovered_total",
		Help:      "Number of panics recovered in handlers",
	}, []string{"handler"})

	// ContentSize tracks wikitext sizes fetched
	ContentSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "content_size_bytes",
		Help:      "Fetched wikitext size distribution in bytes",
		Buckets:   []float64{100, 1000, 10000, 50000, 100000, 250000, 500000},
	})
)

// RecordRequest records a completed tool call with its duration and status
func RecordRequest(tool string, duration float64, success bool) {
	RequestsTotal.WithLabelValues(tool, statusLabel(success)).Inc()
	RequestDuration.WithLabelValues(tool).Observe(duration)
}

// RecordHTTPRequest records a completed inbound HTTP request
func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// RecordAPICall records a Wikipedia API call. reason is empty on success.
func RecordAPICall(action string, duration float64, reason string) {
	UpstreamRequestsTotal.WithLabelValues(action, statusLabel(reason == "")).Inc()
	UpstreamLatency.WithLabelValues(action).Observe(duration)
	if reason != "" {
		UpstreamErrors.WithLabelValues(action, reason).Inc()
	}
}

// RecordImageFallback records a placeholder image being returned
func RecordImageFallback(reason string) {
	ImageFallbacks.WithLabelValues(reason).Inc()
}

// RecordExtraction records the outcome of one wikitext extraction
func RecordExtraction(records, skipped int) {
	RecordsExtracted.Set(float64(records))
	RowsSkipped.Add(float64(skipped))
}

func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
