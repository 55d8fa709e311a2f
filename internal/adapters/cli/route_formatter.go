package cli

import (
	"fmt"
	"strings"
)

// RouteFormatter renders committed routes and their temperature profiles
// for the terminal
type RouteFormatter struct {
	verbose bool
}

// NewRouteFormatter creates a new route formatter
func NewRouteFormatter(verbose bool) *RouteFormatter {
	return &RouteFormatter{verbose: verbose}
}

// FormatRoute renders a route header and its stops as a tree
func (f *RouteFormatter) FormatRoute(route *RouteInfo) string {
	if route == nil {
		return "(no route)\n"
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Route %s  %s\n", route.RouteCode, f.feasibilityBadge(route.IsFeasible)))
	builder.WriteString("══════════════════════════════════════════════\n")
	builder.WriteString(fmt.Sprintf("  ID:        %s\n", route.ID))
	builder.WriteString(fmt.Sprintf("  Job:       %s\n", route.JobID))
	builder.WriteString(fmt.Sprintf("  Vehicle:   %s\n", route.VehicleID))
	if route.DriverID != "" {
		builder.WriteString(fmt.Sprintf("  Driver:    %s\n", route.DriverID))
	}
	builder.WriteString(fmt.Sprintf("  Plan Date: %s\n", route.PlanDate))
	builder.WriteString(fmt.Sprintf("  Status:    %s (version %d)\n", route.Status, route.Version))
	builder.WriteString(fmt.Sprintf("  Schedule:  depart %s, return %s\n", route.DepartureTime, route.ReturnTime))
	builder.WriteString(fmt.Sprintf("  Distance:  %.1f km\n", route.TotalDistanceKm))
	builder.WriteString(fmt.Sprintf("  Load:      %.1f kg / %.2f m³\n", route.TotalLoadKg, route.TotalVolumeM3))
	builder.WriteString(fmt.Sprintf("  Thermal:   max %.1f°C, final %.1f°C\n",
		route.MaxPredictedTemp, route.FinalPredictedTemp))

	if len(route.Stops) == 0 {
		builder.WriteString("\n(no stops)\n")
		return builder.String()
	}

	builder.WriteString(fmt.Sprintf("\nStops (%d):\n", len(route.Stops)))
	for i, stop := range route.Stops {
		f.formatStop(&builder, &stop, i == len(route.Stops)-1)
	}

	builder.WriteString(fmt.Sprintf("\n%s\n", f.formatTotals(route)))

	return builder.String()
}

// formatStop renders one stop as a tree node
func (f *RouteFormatter) formatStop(builder *strings.Builder, stop *StopInfo, isLast bool) {
	linePrefix := "├── "
	childPrefix := "│   "
	if isLast {
		linePrefix = "└── "
		childPrefix = "    "
	}

	label := stop.ShipmentID
	if stop.Address != "" {
		label = fmt.Sprintf("%s @ %s", stop.ShipmentID, stop.Address)
	}

	builder.WriteString(fmt.Sprintf("%s%s %2d. %s\n",
		linePrefix, f.tempGlyph(stop.TempFeasible), stop.Sequence, label))
	builder.WriteString(fmt.Sprintf("%s    %s → %s   %.1f°C on arrival\n",
		childPrefix, stop.ArrivalTime, stop.DepartureTime, stop.PredictedArrivalTemp))

	if f.verbose {
		builder.WriteString(fmt.Sprintf("%s    window %d, wait %dm, slack %dm\n",
			childPrefix, stop.WindowIndex, stop.WaitMinutes, stop.SlackMinutes))
		builder.WriteString(fmt.Sprintf("%s    transit +%.1f°C, service +%.1f°C, cooling -%.1f°C → %.1f°C at departure\n",
			childPrefix, stop.TransitTempRise, stop.ServiceTempRise, stop.CoolingApplied,
			stop.PredictedDepartureTemp))
	}
}

// FormatTemperatureAnalysis renders the stop-by-stop thermal replay
func (f *RouteFormatter) FormatTemperatureAnalysis(analysis *TemperatureAnalysisResponse) string {
	if analysis == nil {
		return "(no analysis)\n"
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Temperature Analysis: %s  %s\n",
		analysis.RouteCode, f.feasibilityBadge(analysis.Feasible)))
	builder.WriteString("══════════════════════════════════════════════\n")
	builder.WriteString(fmt.Sprintf("  Vehicle:      %s\n", analysis.VehicleID))
	builder.WriteString(fmt.Sprintf("  Initial Temp: %.1f°C\n", analysis.InitialTemp))
	builder.WriteString(fmt.Sprintf("  Max Temp:     %.1f°C\n", analysis.MaxTemp))
	builder.WriteString(fmt.Sprintf("  Final Temp:   %.1f°C\n", analysis.FinalTemp))

	if len(analysis.Stops) == 0 {
		builder.WriteString("\n(no stops)\n")
		return builder.String()
	}

	builder.WriteString(fmt.Sprintf("\n%-4s %-14s %-7s %-8s %-7s %-8s %-8s %-8s %-9s %s\n",
		"SEQ", "SHIPMENT", "ARRIVE", "TRANSIT", "COOL", "ARRIVAL", "SERVICE", "CEILING", "HEADROOM", ""))
	builder.WriteString(strings.Repeat("─", 88) + "\n")

	for _, stop := range analysis.Stops {
		builder.WriteString(fmt.Sprintf("%-4d %-14s %-7s %-8s %-7s %-8s %-8s %-8s %-9s %s\n",
			stop.Sequence,
			truncate(stop.ShipmentID, 14),
			stop.ArrivalTime,
			fmt.Sprintf("+%.1f", stop.TransitRise),
			fmt.Sprintf("-%.1f", stop.CoolingApplied),
			fmt.Sprintf("%.1f°C", stop.ArrivalTemp),
			fmt.Sprintf("+%.1f", stop.ServiceRise),
			fmt.Sprintf("%.1f°C", stop.TempCeiling),
			fmt.Sprintf("%.1f°C", stop.Headroom),
			f.tempGlyph(stop.Feasible),
		))
	}

	return builder.String()
}

// formatTotals builds the one-line footer of route totals
func (f *RouteFormatter) formatTotals(route *RouteInfo) string {
	return fmt.Sprintf("Totals: %d stops, drive %dm, service %dm, wait %dm (%dm door to door)",
		route.TotalStops,
		route.TotalDriveMinutes,
		route.TotalServiceMinutes,
		route.TotalWaitMinutes,
		route.TotalDurationMinutes,
	)
}

// tempGlyph marks a stop as within or over its thermal ceiling
func (f *RouteFormatter) tempGlyph(feasible bool) string {
	if feasible {
		return "✓"
	}
	return "✗"
}

// feasibilityBadge labels a whole route's thermal verdict
func (f *RouteFormatter) feasibilityBadge(feasible bool) string {
	if feasible {
		return "[COLD CHAIN OK]"
	}
	return "[COLD CHAIN AT RISK]"
}
