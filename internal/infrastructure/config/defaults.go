package config

import "time"

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Database defaults (SQLite out of the box; postgres opt-in)
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "coldroute.db"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "coldroute"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "coldroute"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 25
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 5
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Server defaults
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8090
	}
	if cfg.Server.RateLimit.Requests == 0 {
		cfg.Server.RateLimit.Requests = 50
	}
	if cfg.Server.RateLimit.Burst == 0 {
		cfg.Server.RateLimit.Burst = 100
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 30 * time.Second
	}

	// Solver defaults
	if cfg.Solver.DefaultTimeLimitSeconds == 0 {
		cfg.Solver.DefaultTimeLimitSeconds = 300
	}
	if cfg.Solver.MaxTimeLimitSeconds == 0 {
		cfg.Solver.MaxTimeLimitSeconds = 900
	}
	if cfg.Solver.VehicleFixedCost == 0 {
		cfg.Solver.VehicleFixedCost = 50000
	}
	if cfg.Solver.DistanceCostPerKm == 0 {
		cfg.Solver.DistanceCostPerKm = 10
	}
	if cfg.Solver.TempViolationPenalty == 0 {
		cfg.Solver.TempViolationPenalty = 100000
	}
	if cfg.Solver.LateDeliveryPenalty == 0 {
		cfg.Solver.LateDeliveryPenalty = 1000
	}
	if cfg.Solver.InfeasibleCost == 0 {
		cfg.Solver.InfeasibleCost = 10000000
	}
	if cfg.Solver.GlobalSpanCoefficient == 0 {
		cfg.Solver.GlobalSpanCoefficient = 10
	}

	// Planner defaults
	if cfg.Planner.AverageSpeedKmh == 0 {
		cfg.Planner.AverageSpeedKmh = 30
	}
	if cfg.Planner.AmbientTemp == 0 {
		cfg.Planner.AmbientTemp = 30.0
	}
	if cfg.Planner.InitialCargoTemp == 0 {
		cfg.Planner.InitialCargoTemp = -5.0
	}
	if cfg.Planner.DefaultDeparture == "" {
		cfg.Planner.DefaultDeparture = "06:00"
	}
	if cfg.Planner.ProgressInterval == 0 {
		cfg.Planner.ProgressInterval = 10 * time.Second
	}
	if cfg.Planner.Labor.WeeklyLimitMinutes == 0 {
		cfg.Planner.Labor.WeeklyLimitMinutes = 2880
	}
	if cfg.Planner.Labor.DailyLimitMinutes == 0 {
		cfg.Planner.Labor.DailyLimitMinutes = 600
	}

	// Daemon defaults
	if cfg.Daemon.PIDFile == "" {
		cfg.Daemon.PIDFile = "/tmp/coldroute-daemon.pid"
	}
	if cfg.Daemon.Workers == 0 {
		cfg.Daemon.Workers = 2
	}
	if cfg.Daemon.QueueSize == 0 {
		cfg.Daemon.QueueSize = 16
	}

	// Metrics defaults
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}
