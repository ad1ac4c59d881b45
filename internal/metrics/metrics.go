// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Chat request outcomes
const (
	OutcomeAnswered = "answered"
	OutcomeUnsaved  = "unsaved"
	OutcomeInvalid  = "invalid"
	OutcomeDenied   = "denied"
	OutcomeNotFound = "not_found"
	OutcomeUpstream = "upstream_failed"
	OutcomeStorage  = "storage_failed"
)

type Metrics struct {
	// ChatRequests counts sendMessage calls by terminal outcome
	ChatRequests *prometheus.CounterVec

	// CompletionDuration tracks provider call latency, retries included
	CompletionDuration prometheus.Histogram

	// CompletionErrors counts provider failures by kind
	CompletionErrors *prometheus.CounterVec

	// HTTPRequests counts API requests by route and status
	HTTPRequests *prometheus.CounterVec

	// HTTPDuration tracks API latency by route
	HTTPDuration *prometheus.HistogramVec

	// RemindersSent counts daily lesson reminders created
	RemindersSent prometheus.Counter
}

// New registers all collectors on reg
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		ChatRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "edu_chat_requests_total",
			Help: "Total chat messages by outcome",
		}, []string{"outcome"}),

		CompletionDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "edu_chat_completion_duration_seconds",
			Help:    "Completion provider latency in seconds",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10), // 250ms to ~2m
		}),

		CompletionErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "edu_chat_completion_errors_total",
			Help: "Completion provider failures by kind",
		}, []string{"kind"}),

		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "edu_http_requests_total",
			Help: "Total HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),

		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "edu_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),

		RemindersSent: f.NewCounter(prometheus.CounterOpts{
			Name: "edu_lesson_reminders_total",
			Help: "Daily lesson reminders created",
		}),
	}
}
