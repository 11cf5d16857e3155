// ABOUTME: Prometheus metrics for aggregate polling and view rotation
// ABOUTME: Registered on the default registry and served by the web command
package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	fetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "painel_monitor_fetch_total",
		Help: "Aggregate fetches by query and status.",
	}, []string{"query", "status"})

	fetchSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "painel_monitor_fetch_seconds",
		Help:    "Aggregate fetch latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"query"})

	staleDiscards = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "painel_monitor_stale_discards_total",
		Help: "Fetch responses dropped because a newer response was already applied.",
	}, []string{"query"})

	rotationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "painel_monitor_rotations_total",
		Help: "View rotations by screen.",
	}, []string{"screen"})
)
