package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// NewJobsCommand creates the jobs command with subcommands
func NewJobsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Manage optimization jobs",
		Long:  `Inspect, cancel and diagnose background optimization jobs.`,
	}

	cmd.AddCommand(newJobsListCommand())
	cmd.AddCommand(newJobsGetCommand())
	cmd.AddCommand(newJobsCancelCommand())
	cmd.AddCommand(newJobsLogsCommand())
	cmd.AddCommand(newJobsViolationsCommand())

	return cmd
}

// newJobsListCommand lists jobs
func newJobsListCommand() *cobra.Command {
	var (
		status string
		date   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List optimization jobs",
		Long:  `List optimization jobs with their status, newest first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newDaemonClient()
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			jobs, err := client.ListJobs(ctx, status, date)
			if err != nil {
				return err
			}

			if len(jobs) == 0 {
				fmt.Println("No jobs found")
				return nil
			}

			// Display jobs in table format
			fmt.Printf("%-38s %-11s %-9s %-12s %-9s %s\n",
				"JOB ID", "STATUS", "PROGRESS", "PLAN DATE", "ROUTES", "CREATED")
			fmt.Println(strings.Repeat("─", 95))

			for _, job := range jobs {
				fmt.Printf("%-38s %-11s %-9s %-12s %-9d %s\n",
					truncate(job.JobID, 38),
					job.Status,
					fmt.Sprintf("%d%%", job.Progress),
					job.PlanDate,
					len(job.RouteIDs),
					formatTimestamp(job.CreatedAt),
				)
			}

			fmt.Printf("\nTotal: %d jobs\n", len(jobs))

			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (PENDING, RUNNING, COMPLETED, FAILED, CANCELLED)")
	cmd.Flags().StringVar(&date, "date", "", "Filter by plan date (YYYY-MM-DD)")

	return cmd
}

// newJobsGetCommand gets detailed job info
func newJobsGetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <job-id>",
		Short: "Get detailed job information",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newDaemonClient()
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			job, err := client.GetJob(ctx, args[0])
			if err != nil {
				return err
			}

			// Display detailed info
			fmt.Printf("Job: %s\n", job.JobID)
			fmt.Println("══════════════════════════════════════════════")
			fmt.Printf("  Status:       %s\n", job.Status)
			fmt.Printf("  Progress:     %d%%\n", job.Progress)
			fmt.Printf("  Plan Date:    %s\n", job.PlanDate)
			fmt.Printf("  Vehicles:     %d\n", job.VehicleCount)
			fmt.Printf("  Shipments:    %d\n", job.ShipmentCount)
			fmt.Printf("  Created At:   %s\n", formatTimestamp(job.CreatedAt))
			fmt.Printf("  Started At:   %s\n", formatTimestampPtr(job.StartedAt))
			fmt.Printf("  Finished At:  %s\n", formatTimestampPtr(job.FinishedAt))
			if job.DurationSeconds != nil {
				fmt.Printf("  Duration:     %.1fs\n", *job.DurationSeconds)
			}
			if job.FailureKind != "" {
				fmt.Printf("  Failure:      %s\n", job.FailureKind)
			}
			if job.ErrorMessage != "" {
				fmt.Printf("  Error:        %s\n", job.ErrorMessage)
			}

			if len(job.RouteIDs) > 0 {
				fmt.Printf("\nRoutes (%d):\n", len(job.RouteIDs))
				for _, routeID := range job.RouteIDs {
					fmt.Printf("  - %s\n", routeID)
				}
			}

			if job.ResultSummary != nil {
				fmt.Println("\nResult Summary:")
				printJobSummary(job)
			}

			return nil
		},
	}

	return cmd
}

// newJobsCancelCommand cancels a job
func newJobsCancelCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cancel <job-id>",
		Short: "Cancel a pending or running job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newDaemonClient()
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			result, err := client.CancelJob(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("✓ Cancellation requested: %s\n", result.JobID)
			fmt.Printf("  Status: %s\n", result.Status)

			return nil
		},
	}

	return cmd
}

// newJobsLogsCommand retrieves the persisted log trail of a job
func newJobsLogsCommand() *cobra.Command {
	var level string

	cmd := &cobra.Command{
		Use:   "logs <job-id>",
		Short: "Get logs from a job",
		Long: `Retrieve the persisted log trail for a job, oldest first.

Examples:
  coldroute jobs logs 7c9e6679-7425-40de-944b-e07fc1f90ae7
  coldroute jobs logs 7c9e6679-7425-40de-944b-e07fc1f90ae7 --level ERROR`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newDaemonClient()
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			logs, err := client.GetJobLogs(ctx, args[0])
			if err != nil {
				return err
			}

			entries := logs.Entries
			if level != "" {
				filtered := make([]JobLogEntry, 0, len(entries))
				for _, entry := range entries {
					if strings.EqualFold(entry.Level, level) {
						filtered = append(filtered, entry)
					}
				}
				entries = filtered
			}

			if len(entries) == 0 {
				fmt.Println("No logs found for job:", args[0])
				return nil
			}

			for _, entry := range entries {
				fmt.Printf("[%s] [%s] %s\n",
					entry.CreatedAt.Format("2006-01-02 15:04:05"),
					entry.Level,
					entry.Message,
				)
			}

			fmt.Printf("\nTotal: %d log entries\n", len(entries))

			return nil
		},
	}

	cmd.Flags().StringVar(&level, "level", "", "Filter by log level (INFO, WARNING, ERROR, DEBUG)")

	return cmd
}

// newJobsViolationsCommand shows the violations report of a finished job
func newJobsViolationsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "violations <job-id>",
		Short: "Show temperature violations and unassigned shipments",
		Long: `Show the violations report of a finished job: shipments the plan
left unassigned with the likely reasons, and stops whose predicted
cargo temperature exceeds the shipment's ceiling.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newDaemonClient()
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			report, err := client.GetViolations(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Job: %s (%s)\n", report.JobID, report.JobStatus)
			if report.ErrorMessage != "" {
				fmt.Printf("Error: %s\n", report.ErrorMessage)
			}

			if len(report.TemperatureViolations) == 0 && len(report.UnassignedShipments) == 0 {
				fmt.Println("\n✓ No violations: every shipment assigned within its thermal ceiling")
				return nil
			}

			if len(report.TemperatureViolations) > 0 {
				fmt.Printf("\nTemperature Violations (%d):\n", len(report.TemperatureViolations))
				fmt.Printf("%-10s %-6s %-14s %-10s %-10s %-10s %s\n",
					"ROUTE", "STOP", "SHIPMENT", "PREDICTED", "CEILING", "OVERSHOOT", "SLA")
				fmt.Println(strings.Repeat("─", 78))
				for _, v := range report.TemperatureViolations {
					fmt.Printf("%-10s %-6d %-14s %-10s %-10s %-10s %s\n",
						v.RouteCode,
						v.StopSequence,
						truncate(v.ShipmentID, 14),
						fmt.Sprintf("%.1f°C", v.PredictedTemp),
						fmt.Sprintf("%.1f°C", v.TempCeiling),
						fmt.Sprintf("+%.1f°C", v.Overshoot),
						v.SLA,
					)
				}
			}

			if len(report.UnassignedShipments) > 0 {
				fmt.Printf("\nUnassigned Shipments (%d):\n", len(report.UnassignedShipments))
				for _, u := range report.UnassignedShipments {
					label := u.ShipmentID
					if u.OrderNumber != "" {
						label = fmt.Sprintf("%s (order %s)", u.ShipmentID, u.OrderNumber)
					}
					fmt.Printf("  %s [%s]\n", label, u.SLA)
					for _, reason := range u.LikelyReasons {
						fmt.Printf("    - %s: %s\n", reason.Type, reason.Message)
						if reason.Parameter != "" {
							fmt.Printf("      %s: %s (limit %s)\n",
								reason.Parameter, reason.CurrentValue, reason.ConstraintValue)
						}
					}
				}
			}

			return nil
		},
	}

	return cmd
}

// Helper functions

func formatTimestamp(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04:05")
}

func formatTimestampPtr(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return formatTimestamp(*t)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
