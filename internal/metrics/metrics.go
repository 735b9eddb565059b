package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var durationBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60}

var (
	// ProviderRequestsTotal counts generative provider calls.
	ProviderRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gt_provider_requests_total",
		Help: "Total provider requests.",
	}, []string{"provider", "operation", "status", "error_category"})

	// ProviderRequestDuration tracks provider latency.
	ProviderRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gt_provider_request_duration_seconds",
		Help:    "Provider request duration in seconds.",
		Buckets: durationBuckets,
	}, []string{"provider", "operation", "status"})

	// TranslationsTotal counts orchestrated translations by modality and outcome.
	TranslationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gt_translations_total",
		Help: "Total translation submissions by outcome.",
	}, []string{"modality", "outcome"})

	// ModelDirectoryLoadsTotal counts model listings by source.
	ModelDirectoryLoadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gt_model_directory_loads_total",
		Help: "Model directory loads by source (remote or fallback).",
	}, []string{"source"})

	// HTTPRequestsTotal counts API requests by method, route and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gt_http_requests_total",
		Help: "Total HTTP requests processed.",
	}, []string{"method", "path", "status"})
)

func RecordProviderCall(provider string, operation string, status string, errorCategory string, duration time.Duration) {
	ProviderRequestsTotal.WithLabelValues(provider, operation, status, errorCategory).Inc()
	ProviderRequestDuration.WithLabelValues(provider, operation, status).Observe(duration.Seconds())
}

func RecordTranslation(modality string, outcome string) {
	TranslationsTotal.WithLabelValues(modality, outcome).Inc()
}

func RecordModelDirectoryLoad(source string) {
	ModelDirectoryLoadsTotal.WithLabelValues(source).Inc()
}

func RecordHTTPRequest(method string, path string, status int) {
	HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}
