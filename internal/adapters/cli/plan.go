package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewPlanCommand creates the plan command with subcommands
func NewPlanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Submit and track route optimization plans",
		Long: `Submit an optimization job for a plan date and follow it to completion.

Examples:
  coldroute plan submit --date 2025-07-01
  coldroute plan submit --date 2025-07-01 --depot DEPOT-MAD --wait
  coldroute plan submit --vehicles VH-1,VH-2 --time-limit 120 --wait`,
	}

	cmd.AddCommand(newPlanSubmitCommand())

	return cmd
}

// newPlanSubmitCommand creates the plan submit subcommand
func newPlanSubmitCommand() *cobra.Command {
	var (
		date      string
		depot     string
		vehicles  []string
		shipments []string
		strategy  string
		timeLimit int
		departure string
		ambient   float64
		cargoTemp float64
		speed     float64
		wait      bool
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit an optimization job",
		Long: `Submit an optimization job for a plan date.

Without flags the daemon plans every READY shipment of the date using
every available vehicle of the depot. Vehicle and shipment subsets,
thermal parameters and the search strategy can be overridden per run.

With --wait the command polls the job until it finishes and prints the
resulting routes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			planDate, err := resolvePlanDate(date)
			if err != nil {
				return err
			}

			req := &SubmitPlanRequest{
				PlanDate:             planDate,
				DepotID:              resolveDepotID(depot),
				VehicleIDs:           vehicles,
				ShipmentIDs:          shipments,
				Strategy:             strategy,
				TimeLimitSeconds:     timeLimit,
				PlannedDepartureTime: departure,
			}
			if cmd.Flags().Changed("ambient") {
				req.AmbientTemperature = &ambient
			}
			if cmd.Flags().Changed("cargo-temp") {
				req.InitialCargoTemp = &cargoTemp
			}
			if cmd.Flags().Changed("speed") {
				req.AverageSpeedKmh = &speed
			}

			client, err := newDaemonClient()
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			result, err := client.SubmitPlan(ctx, req)
			if err != nil {
				return err
			}

			fmt.Println("✓ Plan submitted")
			fmt.Printf("  Job ID:    %s\n", result.JobID)
			fmt.Printf("  Plan Date: %s\n", planDate)
			fmt.Printf("  Vehicles:  %d\n", result.VehicleCount)
			fmt.Printf("  Shipments: %d\n", result.ShipmentCount)

			if !wait {
				fmt.Printf("\nFollow it with: coldroute jobs get %s\n", result.JobID)
				return nil
			}

			fmt.Println()
			return followJob(client, result.JobID)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Plan date (YYYY-MM-DD, default from config or today)")
	cmd.Flags().StringVar(&depot, "depot", "", "Depot ID (default from config, or the date's sole depot)")
	cmd.Flags().StringSliceVar(&vehicles, "vehicles", nil, "Restrict to these vehicle IDs")
	cmd.Flags().StringSliceVar(&shipments, "shipments", nil, "Restrict to these shipment IDs")
	cmd.Flags().StringVar(&strategy, "strategy", "", "First solution strategy (SAVINGS, PATH_CHEAPEST_ARC, PARALLEL_CHEAPEST_INSERTION)")
	cmd.Flags().IntVar(&timeLimit, "time-limit", 0, "Solver time limit in seconds (0 uses the daemon default)")
	cmd.Flags().StringVar(&departure, "departure", "", "Planned departure time (HH:MM)")
	cmd.Flags().Float64Var(&ambient, "ambient", 0, "Ambient temperature in °C")
	cmd.Flags().Float64Var(&cargoTemp, "cargo-temp", 0, "Initial cargo temperature in °C")
	cmd.Flags().Float64Var(&speed, "speed", 0, "Average travel speed in km/h")
	cmd.Flags().BoolVar(&wait, "wait", false, "Poll the job until it finishes")

	return cmd
}

// followJob polls a job every two seconds until it reaches a terminal
// status, echoing progress as it changes
func followJob(client *DaemonClient, jobID string) error {
	lastProgress := -1
	lastStatus := ""

	for {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		job, err := client.GetJob(ctx, jobID)
		cancel()
		if err != nil {
			return err
		}

		if job.Status != lastStatus || job.Progress != lastProgress {
			fmt.Printf("  [%s] %d%%\n", job.Status, job.Progress)
			lastStatus = job.Status
			lastProgress = job.Progress
		}

		switch job.Status {
		case "COMPLETED":
			fmt.Println("\n✓ Plan completed")
			printJobSummary(job)
			fmt.Printf("\nInspect routes with: coldroute routes list --job %s\n", jobID)
			return nil
		case "FAILED":
			fmt.Println("\n✗ Plan failed")
			if job.FailureKind != "" {
				fmt.Printf("  Failure: %s\n", job.FailureKind)
			}
			if job.ErrorMessage != "" {
				fmt.Printf("  Error:   %s\n", job.ErrorMessage)
			}
			if job.FailureKind == "INFEASIBLE" {
				fmt.Printf("\nDiagnose with: coldroute jobs violations %s\n", jobID)
			}
			return fmt.Errorf("job %s failed", jobID)
		case "CANCELLED":
			fmt.Println("\nPlan cancelled")
			return nil
		}

		time.Sleep(2 * time.Second)
	}
}

// printJobSummary prints the result summary of a finished job
func printJobSummary(job *JobInfo) {
	if job.DurationSeconds != nil {
		fmt.Printf("  Duration:  %.1fs\n", *job.DurationSeconds)
	}
	fmt.Printf("  Routes:    %d\n", len(job.RouteIDs))

	if job.ResultSummary == nil {
		return
	}
	if v, ok := job.ResultSummary["total_distance_km"]; ok {
		fmt.Printf("  Distance:  %v km\n", v)
	}
	if v, ok := job.ResultSummary["shipments_assigned"]; ok {
		fmt.Printf("  Assigned:  %v\n", v)
	}
	if v, ok := job.ResultSummary["shipments_unassigned"]; ok {
		fmt.Printf("  Unassigned: %v\n", v)
	}
	if v, ok := job.ResultSummary["total_cost"]; ok {
		fmt.Printf("  Cost:      %v\n", v)
	}
	if v, ok := job.ResultSummary["solver_status"]; ok {
		fmt.Printf("  Solver:    %v\n", v)
	}
}
