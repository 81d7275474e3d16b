package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request latency in seconds, labelled by route pattern
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "route", "status"},
	)

	ContactMessagesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "contact_messages_total",
			Help: "Contact form messages accepted",
		},
	)

	// Writes to per-user productivity documents
	DocumentWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "productivity_document_writes_total",
			Help: "Per-user productivity document writes",
		},
		[]string{"result"}, // ok, error
	)

	LoginLinksIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "login_links_issued_total",
			Help: "Magic sign-in links issued",
		},
	)
)
