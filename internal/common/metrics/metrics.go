// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP request handling in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)

	RecommendationsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_served_total",
			Help: "Recommendation calls answered, by item kind and mode",
		},
		[]string{"kind", "mode"},
	)

	RecommendationStageCandidates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_stage_candidates_total",
			Help: "Candidates contributed by each ranking stage",
		},
		[]string{"kind", "stage"},
	)

	SearchBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "search_circuit_breaker_state",
			Help: "Search circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	SearchFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_fallbacks_total",
			Help: "Searches answered from Postgres instead of Elasticsearch",
		},
		[]string{"reason"},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_sent_total",
			Help: "Booking notifications by channel and outcome",
		},
		[]string{"channel", "status"},
	)
)
