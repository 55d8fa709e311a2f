package config

// SolverConfig holds search-engine cost constants and time limits.
// Costs are dimensionless int64 weights; distances enter the objective in
// kilometers scaled by DistanceCostPerKm.
type SolverConfig struct {
	// Per-solve wall clock budget in seconds when the request does not set one
	DefaultTimeLimitSeconds int `mapstructure:"default_time_limit_seconds" validate:"min=1"`

	// Upper bound a request may ask for
	MaxTimeLimitSeconds int `mapstructure:"max_time_limit_seconds" validate:"min=1"`

	// Fixed cost charged for using a vehicle at all (MINIMIZE_VEHICLES floor)
	VehicleFixedCost int64 `mapstructure:"vehicle_fixed_cost" validate:"min=0"`

	// Cost per kilometer traveled
	DistanceCostPerKm int64 `mapstructure:"distance_cost_per_km" validate:"min=0"`

	// Penalty per degree of predicted ceiling overshoot on STANDARD shipments
	TempViolationPenalty int64 `mapstructure:"temp_violation_penalty" validate:"min=0"`

	// Penalty per minute of lateness beyond a soft window bound
	LateDeliveryPenalty int64 `mapstructure:"late_delivery_penalty" validate:"min=0"`

	// Cost that makes an insertion effectively forbidden
	InfeasibleCost int64 `mapstructure:"infeasible_cost" validate:"min=0"`

	// Weight on the spread between the longest and shortest route duration
	GlobalSpanCoefficient int64 `mapstructure:"global_span_coefficient" validate:"min=0"`
}
