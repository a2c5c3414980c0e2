// Package metrics keeps per-run counters for the inventory and can export
// them in the node-exporter textfile format.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "agilstore"

// Outcome labels
const (
	OutcomeOK       = "ok"
	OutcomeInvalid  = "invalid"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Metrics holds the collectors registered on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry        *prometheus.Registry
	operationsTotal *prometheus.CounterVec
	recoveriesTotal prometheus.Counter
	repairsTotal    prometheus.Counter
	products        prometheus.Gauge
}

// New creates the collectors and registers them
func New() *Metrics {
	registry := prometheus.NewRegistry()

	operationsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Total number of inventory operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	recoveriesTotal := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_recoveries_total",
			Help:      "Times the data file was unreadable and reset to an empty document",
		},
	)

	repairsTotal := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_repairs_total",
			Help:      "Times nextId was recomputed from the stored products",
		},
	)

	products := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "products",
			Help:      "Number of products in the inventory",
		},
	)

	registry.MustRegister(operationsTotal, recoveriesTotal, repairsTotal, products)

	return &Metrics{
		registry:        registry,
		operationsTotal: operationsTotal,
		recoveriesTotal: recoveriesTotal,
		repairsTotal:    repairsTotal,
		products:        products,
	}
}

// ObserveOperation counts one operation
func (m *Metrics) ObserveOperation(operation, outcome string) {
	if m == nil {
		return
	}
	m.operationsTotal.WithLabelValues(operation, outcome).Inc()
}

// StoreRecovered counts a reset of a damaged file
func (m *Metrics) StoreRecovered() {
	if m == nil {
		return
	}
	m.recoveriesTotal.Inc()
}

// StoreRepaired counts a nextId repair
func (m *Metrics) StoreRepaired() {
	if m == nil {
		return
	}
	m.repairsTotal.Inc()
}

// SetProducts sets the inventory size gauge
func (m *Metrics) SetProducts(n int) {
	if m == nil {
		return
	}
	m.products.Set(float64(n))
}

// Registry exposes the underlying gatherer
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// WriteTextfile dumps the registry to path
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
