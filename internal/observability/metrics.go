package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters for the planner service.
type Metrics struct {
	RecommendationsComputed prometheus.Counter
	PlansCreated            prometheus.Counter
	WaterSourceImports      *prometheus.CounterVec // labels: outcome={success,error}
}

// NewMetrics creates and registers the metrics with the default registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RecommendationsComputed,
		m.PlansCreated,
		m.WaterSourceImports,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, so tests
// can construct handlers repeatedly without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RecommendationsComputed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "irrigation_planner",
			Name:      "recommendations_computed_total",
			Help:      "Total recommendation sets computed.",
		}),
		PlansCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "irrigation_planner",
			Name:      "plans_created_total",
			Help:      "Total irrigation plans saved.",
		}),
		WaterSourceImports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "irrigation_planner",
			Name:      "water_source_imports_total",
			Help:      "OSM water-source imports by outcome.",
		}, []string{"outcome"}),
	}
}
