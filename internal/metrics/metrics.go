// Package metrics exposes clustering and playback counters for Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics implements clustering.Observer and playback.Observer on a
// private registry, so several instances can coexist in tests.
type Metrics struct {
	registry *prometheus.Registry

	ReclusterTotal      prometheus.Counter
	ReclusterDurationMs prometheus.Histogram
	ItemsClustered      prometheus.Gauge
	ClustersProduced    prometheus.Gauge
	PlanElementsTotal   *prometheus.CounterVec
	Animating           prometheus.Gauge
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ReclusterTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clustermap_recluster_total",
			Help: "Total clustering passes that ran",
		}),
		ReclusterDurationMs: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "clustermap_recluster_duration_ms",
			Help:    "Clustering pass duration in milliseconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 20, 50, 100, 200, 500, 1000},
		}),
		ItemsClustered: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "clustermap_items",
			Help: "Items in the last clustering pass",
		}),
		ClustersProduced: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "clustermap_clusters",
			Help: "Groups produced by the last clustering pass",
		}),
		PlanElementsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clustermap_plan_elements_total",
			Help: "Transition plan elements by kind",
		}, []string{"kind"}),
		Animating: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "clustermap_animations_active",
			Help: "Elements currently animating",
		}),
	}
	m.registry.MustRegister(
		m.ReclusterTotal,
		m.ReclusterDurationMs,
		m.ItemsClustered,
		m.ClustersProduced,
		m.PlanElementsTotal,
		m.Animating,
	)
	return m
}

// ObserveClustering records one clustering pass.
func (m *Metrics) ObserveClustering(items, clusters int, elapsed time.Duration) {
	m.ReclusterTotal.Inc()
	m.ReclusterDurationMs.Observe(float64(elapsed) / float64(time.Millisecond))
	m.ItemsClustered.Set(float64(items))
	m.ClustersProduced.Set(float64(clusters))
}

// ObservePlan records the element counts of an applied plan.
func (m *Metrics) ObservePlan(entering, exiting, stable int) {
	m.PlanElementsTotal.WithLabelValues("entering").Add(float64(entering))
	m.PlanElementsTotal.WithLabelValues("exiting").Add(float64(exiting))
	m.PlanElementsTotal.WithLabelValues("stable").Add(float64(stable))
}

// ObserveAnimating records how many elements are in flight.
func (m *Metrics) ObserveAnimating(n int) {
	m.Animating.Set(float64(n))
}

// Registry returns the private registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
