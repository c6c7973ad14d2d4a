// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AnalysisRequests counts analyses by status (success, cached, error) and input format.
	AnalysisRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "riddim_analysis_requests_total",
			Help: "Number of feature analyses by status and format.",
		},
		[]string{"status", "format"},
	)

	AnalysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "riddim_analysis_duration_seconds",
			Help:    "Wall time spent decoding and extracting features.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"format"},
	)

	AudioDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "riddim_audio_duration_seconds",
			Help:    "Duration of analysed audio.",
			Buckets: []float64{5, 30, 60, 120, 240, 480, 900},
		},
		[]string{"format"},
	)

	GenerationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "riddim_generation_requests_total",
			Help: "Number of sequence generations by final status.",
		},
		[]string{"status"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "riddim_http_requests_total",
			Help: "HTTP requests by route and status code.",
		},
		[]string{"method", "route", "code"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "riddim_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)
