package shared

import (
	"fmt"
	"strconv"
	"strings"
)

// MinutesPerDay is the planning-horizon upper bound for minute-of-day values
const MinutesPerDay = 24 * 60

// ParseMinuteOfDay converts a local "HH:MM" clock string to minutes since
// midnight. The solver and all time windows work in this representation.
func ParseMinuteOfDay(clock string) (int, error) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return 0, NewValidationError("time", fmt.Sprintf("expected HH:MM, got %q", clock))
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, NewValidationError("time", fmt.Sprintf("invalid hour in %q", clock))
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, NewValidationError("time", fmt.Sprintf("invalid minute in %q", clock))
	}

	if hours < 0 || hours > 23 {
		return 0, NewValidationError("time", fmt.Sprintf("hour out of range in %q", clock))
	}
	if minutes < 0 || minutes > 59 {
		return 0, NewValidationError("time", fmt.Sprintf("minute out of range in %q", clock))
	}

	return hours*60 + minutes, nil
}

// FormatMinuteOfDay converts minutes since midnight back to "HH:MM".
// Values past midnight wrap into the next day.
func FormatMinuteOfDay(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	minutes = minutes % MinutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
