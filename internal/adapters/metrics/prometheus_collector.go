package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/coldroute-go/internal/domain/planning"
)

const (
	// Namespace for all metrics
	namespace = "coldroute"
	// Subsystem for daemon metrics
	subsystem = "daemon"
)

var (
	// Registry is the global Prometheus registry for all metrics
	Registry *prometheus.Registry

	// globalJobCollector is the singleton job metrics collector
	// Set by SetGlobalJobCollector() when metrics are enabled
	globalJobCollector JobMetricsRecorder

	// globalSolverCollector is the singleton solver metrics collector
	// Set by SetGlobalSolverCollector() when metrics are enabled
	globalSolverCollector SolverMetricsRecorder
)

// JobMetricsRecorder defines the interface for recording planning job events
// This interface is used by application code to record metrics
type JobMetricsRecorder interface {
	RecordJobCompletion(job JobInfo)
}

// SolverMetricsRecorder defines the interface for recording solver run metrics
type SolverMetricsRecorder interface {
	RecordSolveOutcome(strategy planning.Strategy, status string, durationSeconds float64)
	RecordPlanCommitted(routes, assignedShipments, unassignedShipments int)
}

// InitRegistry initializes the Prometheus registry
// Should be called once at application startup if metrics are enabled
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// GetRegistry returns the global Prometheus registry
// Returns nil if metrics are not initialized
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// SetGlobalJobCollector sets the global job metrics collector
// This should be called after the collector is created and started
func SetGlobalJobCollector(collector JobMetricsRecorder) {
	globalJobCollector = collector
}

// RecordJobCompletion records a job reaching a terminal state globally
func RecordJobCompletion(job JobInfo) {
	if globalJobCollector != nil {
		globalJobCollector.RecordJobCompletion(job)
	}
}

// SetGlobalSolverCollector sets the global solver metrics collector
func SetGlobalSolverCollector(collector SolverMetricsRecorder) {
	globalSolverCollector = collector
}

// RecordSolveOutcome records one solver run's result globally
func RecordSolveOutcome(strategy planning.Strategy, status string, durationSeconds float64) {
	if globalSolverCollector != nil {
		globalSolverCollector.RecordSolveOutcome(strategy, status, durationSeconds)
	}
}

// RecordPlanCommitted records the size of a committed plan globally
func RecordPlanCommitted(routes, assignedShipments, unassignedShipments int) {
	if globalSolverCollector != nil {
		globalSolverCollector.RecordPlanCommitted(routes, assignedShipments, unassignedShipments)
	}
}
