package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	ResultDelivered = "delivered"
	ResultDropped   = "dropped"
)

// HubMetrics holds Prometheus metrics for the connection hub.
type HubMetrics struct {
	ActiveConnections prometheus.Gauge
	Broadcasts        prometheus.Counter
	Deliveries        *prometheus.CounterVec
	BroadcastDuration prometheus.Histogram
}

// NewHubMetrics creates and registers hub metrics on the given registry.
func NewHubMetrics(reg prometheus.Registerer) *HubMetrics {
	m := &HubMetrics{
		ActiveConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "hub",
			Name:      "active_connections",
			Help:      "Number of connections currently eligible for broadcast.",
		}),
		Broadcasts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "hub",
			Name:      "broadcasts_total",
			Help:      "Total number of completed broadcast passes.",
		}),
		Deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "hub",
			Name:      "deliveries_total",
			Help:      "Per-connection delivery attempts by result.",
		}, []string{"result"}),
		BroadcastDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "hub",
			Name:      "broadcast_duration_seconds",
			Help:      "Time spent delivering one broadcast to every member.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(m.ActiveConnections, m.Broadcasts, m.Deliveries, m.BroadcastDuration)
	return m
}
