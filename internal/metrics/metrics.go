// Package metrics exposes the relay's operational counters and gauges
// through a dedicated Prometheus registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every instrument the relay reports. A fresh registry is
// created per instance so tests can build as many as they need.
type Metrics struct {
	Registry *prometheus.Registry

	QueueDepth    prometheus.Gauge
	ActiveWorkers prometheus.Gauge

	LinesRead      prometheus.Counter
	ParseFailures  prometheus.Counter
	SendsTotal     prometheus.Counter
	SendFailures   prometheus.Counter
	WorkersSpawned prometheus.Counter
	WorkersRetired prometheus.Counter
}

// New builds a Metrics with all instruments registered.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		QueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "loglift_queue_depth",
			Help: "Number of raw lines currently buffered in the ingestion queue.",
		}),
		ActiveWorkers: factory.NewGauge(prometheus.GaugeOpts{
			Name: "loglift_active_workers",
			Help: "Number of live sender workers.",
		}),
		LinesRead: factory.NewCounter(prometheus.CounterOpts{
			Name: "loglift_lines_read_total",
			Help: "Raw lines read from the log source.",
		}),
		ParseFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "loglift_parse_failures_total",
			Help: "Lines dropped because they did not match the access-log grammar.",
		}),
		SendsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "loglift_sends_total",
			Help: "Records sent to the indexing sink, successful or not.",
		}),
		SendFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "loglift_send_failures_total",
			Help: "Records dropped after a failed send to the indexing sink.",
		}),
		WorkersSpawned: factory.NewCounter(prometheus.CounterOpts{
			Name: "loglift_workers_spawned_total",
			Help: "Sender workers spawned by the scaling controller.",
		}),
		WorkersRetired: factory.NewCounter(prometheus.CounterOpts{
			Name: "loglift_workers_retired_total",
			Help: "Sender workers retired after a sustained idle streak.",
		}),
	}
}
