package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewHealthCommand creates the health command
func NewHealthCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check daemon health status",
		Long:  `Verify that the daemon is running and responsive.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newDaemonClient()
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			health, err := client.HealthCheck(ctx)
			if err != nil {
				return err
			}

			fmt.Println("✓ Daemon is healthy")
			fmt.Printf("  Status:      %s\n", health.Status)
			fmt.Printf("  Active Jobs: %d\n", len(health.ActiveJobs))
			if verbose {
				for _, jobID := range health.ActiveJobs {
					fmt.Printf("    - %s\n", jobID)
				}
			}

			return nil
		},
	}

	return cmd
}
