package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vacancy",
			Name:      "http_requests_total",
			Help:      "Count of gateway HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	conflictsDetected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vacancy",
			Name:      "conflicts_detected_total",
			Help:      "Count of candidate selections rejected, by conflict kind.",
		},
		[]string{"kind"},
	)

	snapshotFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vacancy",
			Name:      "snapshot_fetches_total",
			Help:      "Count of upstream room snapshot fetches by result.",
		},
		[]string{"result"},
	)

	snapshotCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "vacancy",
			Name:      "snapshot_cache_hits_total",
			Help:      "Count of room snapshots served from cache.",
		},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, conflictsDetected, snapshotFetches, snapshotCacheHits)
	})
}

func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

func IncConflict(kind string) {
	conflictsDetected.WithLabelValues(kind).Inc()
}

func IncSnapshotFetch(result string) {
	snapshotFetches.WithLabelValues(result).Inc()
}

func IncSnapshotCacheHit() {
	snapshotCacheHits.Inc()
}
