package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/coldroute-go/internal/domain/planning"
)

// SolverMetricsCollector handles solver run and committed plan metrics
type SolverMetricsCollector struct {
	// Solve metrics
	solvesTotal   *prometheus.CounterVec
	solveDuration *prometheus.HistogramVec

	// Committed plan metrics
	routesCommitted     prometheus.Counter
	shipmentsAssigned   prometheus.Counter
	shipmentsUnassigned prometheus.Counter
}

// NewSolverMetricsCollector creates a new solver metrics collector
func NewSolverMetricsCollector() *SolverMetricsCollector {
	return &SolverMetricsCollector{
		// Solve outcomes counter
		solvesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "solves_total",
				Help:      "Total number of solver runs by strategy and outcome",
			},
			[]string{"strategy", "status"},
		),

		// Solve duration histogram
		// Buckets track the configurable time limit range up to its cap
		solveDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "solve_duration_seconds",
				Help:      "Solver run duration distribution",
				Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600, 900},
			},
			[]string{"strategy", "status"},
		),

		// Routes written by committed plans
		routesCommitted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "routes_committed_total",
				Help:      "Total number of routes written by committed plans",
			},
		),

		// Shipments placed on routes
		shipmentsAssigned: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "shipments_assigned_total",
				Help:      "Total number of shipments placed on committed routes",
			},
		),

		// Shipments the solver could not place
		shipmentsUnassigned: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "shipments_unassigned_total",
				Help:      "Total number of shipments left off committed plans",
			},
		),
	}
}

// Register registers all solver metrics with the Prometheus registry
func (c *SolverMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.solvesTotal,
		c.solveDuration,
		c.routesCommitted,
		c.shipmentsAssigned,
		c.shipmentsUnassigned,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// RecordSolveOutcome records one solver run's result
func (c *SolverMetricsCollector) RecordSolveOutcome(
	strategy planning.Strategy,
	status string,
	durationSeconds float64,
) {
	c.solvesTotal.WithLabelValues(string(strategy), status).Inc()
	c.solveDuration.WithLabelValues(string(strategy), status).Observe(durationSeconds)
}

// RecordPlanCommitted records the size of a committed plan
func (c *SolverMetricsCollector) RecordPlanCommitted(routes, assignedShipments, unassignedShipments int) {
	c.routesCommitted.Add(float64(routes))
	c.shipmentsAssigned.Add(float64(assignedShipments))
	c.shipmentsUnassigned.Add(float64(unassignedShipments))
}
