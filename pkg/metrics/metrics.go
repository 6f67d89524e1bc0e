// Package metrics exposes Prometheus instrumentation for the explorer
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name
const Namespace = "ontology_explorer"

// Load results
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// Collector holds the metrics of one explorer instance. Each collector has
// its own registry so several can coexist in tests.
type Collector struct {
	registry *prometheus.Registry

	Interactions *prometheus.CounterVec
	Loads        *prometheus.CounterVec
	ForestNodes  prometheus.Gauge
	ViewRows     prometheus.Gauge
	Generation   prometheus.Gauge

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// NewCollector creates and registers all metrics
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		Interactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "interactions_total",
			Help:      "Interactions applied to the forest, by operation",
		}, []string{"op"}),
		Loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "loads_total",
			Help:      "Load attempts, by result",
		}, []string{"result"}),
		ForestNodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "forest_nodes",
			Help:      "Nodes in the current forest",
		}),
		ViewRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "view_rows",
			Help:      "Rows in the most recent view snapshot",
		}),
		Generation: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "forest_generation",
			Help:      "Successful loads since start",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by method, route and status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	c.registry.MustRegister(
		c.Interactions,
		c.Loads,
		c.ForestNodes,
		c.ViewRows,
		c.Generation,
		c.HTTPRequests,
		c.HTTPDuration,
	)
	return c
}

// Registry returns the registry the metrics live in
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Interaction counts one applied interaction
func (c *Collector) Interaction(op string) {
	c.Interactions.WithLabelValues(op).Inc()
}

// Load records the outcome of a load attempt
func (c *Collector) Load(result string, nodes, generation int) {
	c.Loads.WithLabelValues(result).Inc()
	if result == ResultOK {
		c.ForestNodes.Set(float64(nodes))
		c.Generation.Set(float64(generation))
	}
}

// ObserveHTTP records one served request
func (c *Collector) ObserveHTTP(method, route string, status int, d time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
