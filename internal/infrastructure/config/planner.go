package config

import (
	"fmt"
	"time"

	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
)

// PlannerConfig holds the physical and scheduling defaults applied to plan
// requests that do not override them
type PlannerConfig struct {
	// Assumed vehicle travel speed for the travel time matrix
	AverageSpeedKmh float64 `mapstructure:"average_speed_kmh" validate:"gt=0"`

	// Outside air temperature fed to the thermal model (°C)
	AmbientTemp float64 `mapstructure:"ambient_temp"`

	// Cargo temperature at depot departure (°C)
	InitialCargoTemp float64 `mapstructure:"initial_cargo_temp"`

	// Depot departure clock time ("HH:MM") when the request omits one
	DefaultDeparture string `mapstructure:"default_departure" validate:"required,hhmm"`

	// How often a running job's progress row is refreshed
	ProgressInterval time.Duration `mapstructure:"progress_interval" validate:"required"`

	// Driver labor dimension
	Labor LaborConfig `mapstructure:"labor"`
}

// LaborConfig holds the optional driver working-time dimension
type LaborConfig struct {
	// Enable per-vehicle drive+service minute bounds
	Enabled bool `mapstructure:"enabled"`

	// Remaining-week cap in minutes before a driver is over hours
	WeeklyLimitMinutes int `mapstructure:"weekly_limit_minutes" validate:"min=0"`

	// Per-day cap in minutes
	DailyLimitMinutes int `mapstructure:"daily_limit_minutes" validate:"min=0"`
}

// mustParseMinute converts a validated "HH:MM" string to minute-of-day.
// Config validation runs the hhmm rule first, so a failure here is a bug.
func mustParseMinute(clock string) int {
	minute, err := shared.ParseMinuteOfDay(clock)
	if err != nil {
		panic(fmt.Sprintf("invalid departure time %q: %v", clock, err))
	}
	return minute
}
