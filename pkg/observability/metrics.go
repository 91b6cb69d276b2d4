// Package observability provides Prometheus metrics and OpenTelemetry
// tracing for litedemo's completion calls.
package observability

import "github.com/prometheus/client_golang/prometheus"

// LLMBuckets defines histogram buckets suited for LLM inference latencies,
// ranging from 100ms to 120s.
var LLMBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

// Call modes used as the "mode" label.
const (
	ModeNonStream = "non_stream"
	ModeStream    = "stream"
)

var (
	// HTTPRequestsTotal counts outbound HTTP requests by method and status class.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "litedemo_http_requests_total",
			Help: "Outbound HTTP requests",
		},
		[]string{"method", "status"},
	)

	// HTTPRequestDuration records time to response headers for outbound requests.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "litedemo_http_request_duration_seconds",
			Help:    "Outbound HTTP request duration",
			Buckets: LLMBuckets,
		},
		[]string{"method"},
	)

	// ProviderRequestsTotal counts completion calls by outcome.
	ProviderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "litedemo_provider_requests_total",
			Help: "Provider requests",
		},
		[]string{"provider", "model", "mode", "status"},
	)

	// ProviderLatency records completion call latency in seconds. For
	// streaming calls this covers the whole stream.
	ProviderLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "litedemo_provider_latency_seconds",
			Help:    "Provider latency",
			Buckets: LLMBuckets,
		},
		[]string{"provider", "model", "mode"},
	)

	// ProviderTokensTotal counts tokens by direction (input/output).
	ProviderTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "litedemo_provider_tokens_total",
			Help: "Token count",
		},
		[]string{"provider", "model", "direction"},
	)

	// StreamChunksTotal counts chunks received from streaming calls.
	StreamChunksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "litedemo_stream_chunks_total",
			Help: "Stream chunks received",
		},
		[]string{"provider", "model"},
	)

	// StreamsActive tracks streams currently being consumed.
	StreamsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "litedemo_streams_active",
			Help: "Active streams",
		},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		ProviderRequestsTotal,
		ProviderLatency,
		ProviderTokensTotal,
		StreamChunksTotal,
		StreamsActive,
	)
}
