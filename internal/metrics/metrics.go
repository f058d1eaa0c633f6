// Package metrics exports tree and workload counters to prometheus
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ourtree/internal/rbtree"
)

const namespace = "rbtree"

type Metrics struct {
	registry *prometheus.Registry

	Ops        *prometheus.CounterVec
	Audits     *prometheus.CounterVec
	Rotations  *prometheus.CounterVec
	Recolors   *prometheus.CounterVec
	Fixups     *prometheus.CounterVec
	TreeSize   *prometheus.GaugeVec
	TreeHeight *prometheus.GaugeVec
}

// New registers the collectors on a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Ops: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Tree operations applied, by kind and result",
		}, []string{"worker", "op", "result"}),
		Audits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audits_total",
			Help:      "Invariant audits run, by result",
		}, []string{"worker", "result"}),
		Rotations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rotations_total",
			Help:      "Rotations done by the fixups",
		}, []string{"worker"}),
		Recolors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recolors_total",
			Help:      "Node color changes done by the fixups",
		}, []string{"worker"}),
		Fixups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fixup_steps_total",
			Help:      "Fixup loop steps, by the mutation that started them",
		}, []string{"worker", "kind"}),
		TreeSize: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tree_size",
			Help:      "Number of keys in the tree",
		}, []string{"worker"}),
		TreeHeight: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tree_height",
			Help:      "Longest root-to-leaf path in nodes",
		}, []string{"worker"}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveTree adds the stats accumulated since prev and updates the tree gauges
func (m *Metrics) ObserveTree(worker string, prev, cur rbtree.Stats, size, height int) {
	m.Rotations.WithLabelValues(worker).Add(float64(cur.Rotations - prev.Rotations))
	m.Recolors.WithLabelValues(worker).Add(float64(cur.Recolors - prev.Recolors))
	m.Fixups.WithLabelValues(worker, "insert").Add(float64(cur.InsertFixups - prev.InsertFixups))
	m.Fixups.WithLabelValues(worker, "delete").Add(float64(cur.DeleteFixups - prev.DeleteFixups))
	m.TreeSize.WithLabelValues(worker).Set(float64(size))
	m.TreeHeight.WithLabelValues(worker).Set(float64(height))
}
