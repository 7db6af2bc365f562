package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "itemstore"

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests handled by the gateway.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Gateway request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// ZeroRowMutations counts updates and deletes that matched no row.
	ZeroRowMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_zero_row_mutations_total",
		Help:      "Update and delete statements that affected no rows.",
	}, []string{"operation"})

	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_published_total",
		Help:      "Item events handed to the broker, by outcome.",
	}, []string{"event", "outcome"})

	EventsArchived = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_archived_total",
		Help:      "Item events written to object storage, by outcome.",
	}, []string{"event", "outcome"})
)
