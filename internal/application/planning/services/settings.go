package services

import "time"

// Settings carries the planner's tunables into the application layer.
// Populated from configuration at wiring time so services never read
// config themselves.
type Settings struct {
	// Solver cost constants
	VehicleFixedCost      int64
	DistanceCostPerKm     int64
	TempViolationPenalty  int64
	LateDeliveryPenalty   int64
	InfeasibleCost        int64
	GlobalSpanCoefficient int64

	// Request defaults
	DefaultTimeLimitSeconds int
	MaxTimeLimitSeconds     int
	DefaultDepartureMinute  int
	DefaultAmbientTemp      float64
	InitialCargoTemp        float64
	DefaultSpeedKmh         float64

	// Driver labor dimension
	LaborDimensionEnabled   bool
	DailyLaborLimitMinutes  int
	WeeklyLaborLimitMinutes int

	// Orchestration
	ProgressInterval time.Duration
	WorkerCount      int
	QueueSize        int
}
