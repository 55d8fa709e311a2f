package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// NewRoutesCommand creates the routes command with subcommands
func NewRoutesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Inspect and dispatch committed routes",
		Long: `Inspect the routes a completed optimization job committed, replay
their temperature profiles and walk them through the dispatch lifecycle.`,
	}

	cmd.AddCommand(newRoutesListCommand())
	cmd.AddCommand(newRoutesGetCommand())
	cmd.AddCommand(newRoutesMapCommand())
	cmd.AddCommand(newRoutesTempsCommand())
	cmd.AddCommand(newRoutesSetStatusCommand())

	return cmd
}

// newRoutesListCommand lists committed routes
func newRoutesListCommand() *cobra.Command {
	var (
		jobID string
		date  string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List committed routes",
		Long: `List committed routes for a job or a plan date.

Examples:
  coldroute routes list --date 2025-07-01
  coldroute routes list --job 7c9e6679-7425-40de-944b-e07fc1f90ae7`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if jobID == "" && date == "" {
				resolved, err := resolvePlanDate("")
				if err != nil {
					return err
				}
				date = resolved
			}

			client, err := newDaemonClient()
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			routes, err := client.ListRoutes(ctx, jobID, date)
			if err != nil {
				return err
			}

			if len(routes) == 0 {
				fmt.Println("No routes found")
				return nil
			}

			// Display routes in table format
			fmt.Printf("%-10s %-12s %-12s %-6s %-8s %-10s %-9s %-8s %s\n",
				"CODE", "VEHICLE", "STATUS", "STOPS", "DEPART", "RETURN", "DIST", "MAX °C", "FEASIBLE")
			fmt.Println(strings.Repeat("─", 92))

			for _, route := range routes {
				feasible := "✓"
				if !route.IsFeasible {
					feasible = "✗"
				}

				fmt.Printf("%-10s %-12s %-12s %-6d %-8s %-10s %-9s %-8s %s\n",
					route.RouteCode,
					truncate(route.VehicleID, 12),
					route.Status,
					route.TotalStops,
					route.DepartureTime,
					route.ReturnTime,
					fmt.Sprintf("%.1fkm", route.TotalDistanceKm),
					fmt.Sprintf("%.1f", route.MaxPredictedTemp),
					feasible,
				)
			}

			fmt.Printf("\nTotal: %d routes\n", len(routes))

			return nil
		},
	}

	cmd.Flags().StringVar(&jobID, "job", "", "Filter by job ID")
	cmd.Flags().StringVar(&date, "date", "", "Filter by plan date (YYYY-MM-DD, default from config or today)")

	return cmd
}

// newRoutesGetCommand shows one route with its stops
func newRoutesGetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <route-id>",
		Short: "Get one route with its stops in visit order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newDaemonClient()
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			route, err := client.GetRoute(ctx, args[0])
			if err != nil {
				return err
			}

			formatter := NewRouteFormatter(verbose)
			fmt.Print(formatter.FormatRoute(route))

			return nil
		},
	}

	return cmd
}

// newRoutesMapCommand prints the map marker data for a plan date
func newRoutesMapCommand() *cobra.Command {
	var (
		date  string
		jobID string
	)

	cmd := &cobra.Command{
		Use:   "map",
		Short: "Show depot and route markers for a plan date",
		Long: `Show the map marker data for a plan date: the depot and each
route's stop coordinates with arrival times and predicted temperatures.

Example:
  coldroute routes map --date 2025-07-01`,
		RunE: func(cmd *cobra.Command, args []string) error {
			planDate, err := resolvePlanDate(date)
			if err != nil {
				return err
			}

			client, err := newDaemonClient()
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			mapData, err := client.GetMapData(ctx, planDate, jobID)
			if err != nil {
				return err
			}

			fmt.Printf("Depot: %s (%s)\n", mapData.Depot.Name, mapData.Depot.ID)
			fmt.Printf("  Location: %.6f, %.6f\n", mapData.Depot.Latitude, mapData.Depot.Longitude)

			if len(mapData.Routes) == 0 {
				fmt.Println("\nNo routes for this date")
				return nil
			}

			for _, route := range mapData.Routes {
				fmt.Printf("\n%s [%s] vehicle %s (%s, %d stops)\n",
					route.Code, route.Color, route.VehicleID, route.Status, len(route.Stops))
				for _, stop := range route.Stops {
					marker := "✓"
					if !stop.Feasible {
						marker = "✗"
					}
					fmt.Printf("  %2d. %s %-14s %9.6f, %10.6f  %s  %.1f°C (ceiling %.1f°C)\n",
						stop.Sequence,
						marker,
						truncate(stop.ShipmentID, 14),
						stop.Latitude,
						stop.Longitude,
						stop.ArrivalTime,
						stop.PredictedTemp,
						stop.TempCeiling,
					)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Plan date (YYYY-MM-DD, default from config or today)")
	cmd.Flags().StringVar(&jobID, "job", "", "Narrow to one job's routes")

	return cmd
}

// newRoutesTempsCommand replays the thermal model over a route
func newRoutesTempsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "temps <route-id>",
		Short: "Show the stop-by-stop temperature replay of a route",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newDaemonClient()
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			analysis, err := client.GetTemperatureAnalysis(ctx, args[0])
			if err != nil {
				return err
			}

			formatter := NewRouteFormatter(verbose)
			fmt.Print(formatter.FormatTemperatureAnalysis(analysis))

			return nil
		},
	}

	return cmd
}

// newRoutesSetStatusCommand transitions a route's dispatch status
func newRoutesSetStatusCommand() *cobra.Command {
	var expectedVersion int

	cmd := &cobra.Command{
		Use:   "set-status <route-id> <status>",
		Short: "Transition a route's dispatch status",
		Long: `Transition a route through its dispatch lifecycle. Committed routes
start SCHEDULED and move to IN_PROGRESS when the driver departs, then
COMPLETED once every stop is served. ABORTED calls the route off from
either state.

The --version flag must carry the version from the last read of the
route; a stale version is rejected with a conflict.

Example:
  coldroute routes set-status 8d3f... IN_PROGRESS --version 1`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newDaemonClient()
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			route, err := client.UpdateRouteStatus(ctx, args[0], strings.ToUpper(args[1]), expectedVersion)
			if err != nil {
				return err
			}

			fmt.Printf("✓ Route %s is now %s\n", route.RouteCode, route.Status)
			fmt.Printf("  Version: %d\n", route.Version)

			return nil
		},
	}

	cmd.Flags().IntVar(&expectedVersion, "version", 0, "Version from the last read of the route")
	cmd.MarkFlagRequired("version")

	return cmd
}
