package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AnalyticsEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fprform_analytics_events_total",
			Help: "Analytics events emitted by the form",
		},
		[]string{"component", "element"},
	)

	Submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fprform_submissions_total",
			Help: "Submit attempts by result",
		},
		[]string{"result"},
	)

	PincodeLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fprform_pincode_lookups_total",
			Help: "Pincode lookups by result",
		},
		[]string{"result"},
	)

	OutboundDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fprform_outbound_request_duration_seconds",
			Help:    "Latency of calls to collaborating services",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fprform_http_requests_total",
			Help: "Inbound HTTP requests",
		},
		[]string{"method", "status"},
	)
)
