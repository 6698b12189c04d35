package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request latency per route and status.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kinoteka_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	// TicketsIssued counts successful admissions.
	TicketsIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kinoteka_tickets_issued_total",
		Help: "Tickets issued through the booking admission check",
	})

	// AdmissionsRejected counts capacity rejections.
	AdmissionsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kinoteka_admissions_rejected_total",
		Help: "Ticket requests rejected because no allocation was left",
	})
)
