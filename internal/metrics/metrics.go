// Package metrics exposes the operational surface of the logging pipeline
// (queue depth, drops, rotations, degraded workers) as Prometheus
// gauges/counters, grounded directly on
// jinterlante1206-AleutianLocal's use of github.com/prometheus/client_golang.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	QueueDepth = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "femtologging",
		Name:      "handler_queue_depth",
		Help:      "Current number of records buffered in a handler's channel.",
	}, []string{"handler"})

	Drops = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "femtologging",
		Name:      "handler_drops_total",
		Help:      "Records dropped by a handler due to overflow or degraded state.",
	}, []string{"handler", "reason"})

	Rotations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "femtologging",
		Name:      "handler_rotations_total",
		Help:      "Rotations performed by a rotating-file handler.",
	}, []string{"handler"})

	Degraded = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "femtologging",
		Name:      "handler_degraded",
		Help:      "1 when a handler is in degraded (drop-on-persistent-failure) state, else 0.",
	}, []string{"handler"})
)

func init() {
	prometheus.MustRegister(QueueDepth, Drops, Rotations, Degraded)
}
