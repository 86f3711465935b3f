package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// collector holds the server's Prometheus metrics on a private registry so
// several servers (and tests) never collide on registration.
type collector struct {
	registry    *prometheus.Registry
	derivations *prometheus.CounterVec
	loadLatency prometheus.Histogram
	unavailable *prometheus.CounterVec
	requests    *prometheus.CounterVec
}

func newCollector(namespace string) *collector {
	c := &collector{
		registry: prometheus.NewRegistry(),
		derivations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "derivations_total",
				Help:      "Dashboard derivations by endpoint.",
			},
			[]string{"endpoint"},
		),
		loadLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "snapshot_load_seconds",
				Help:      "Time spent loading a snapshot from the source.",
				Buckets:   prometheus.DefBuckets,
			},
		),
		unavailable: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "collection_unavailable_total",
				Help:      "Collections that failed to load and were treated as empty.",
			},
			[]string{"collection"},
		),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests.",
			},
			[]string{"method", "route", "status"},
		),
	}
	c.registry.MustRegister(c.derivations, c.loadLatency, c.unavailable, c.requests)
	return c
}

func (c *collector) observeLoad(d time.Duration, unavailable []string) {
	c.loadLatency.Observe(d.Seconds())
	for _, name := range unavailable {
		c.unavailable.WithLabelValues(name).Inc()
	}
}

func (c *collector) handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
