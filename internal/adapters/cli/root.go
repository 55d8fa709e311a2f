package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	serverURL string
	verbose   bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "coldroute",
		Short: "ColdRoute CLI - Plan refrigerated delivery routes",
		Long: `ColdRoute CLI provides commands to interact with the ColdRoute daemon.
The CLI talks to the daemon over its HTTP API.

Examples:
  coldroute daemon start
  coldroute plan submit --date 2025-07-01 --depot DEPOT-MAD
  coldroute plan submit --date 2025-07-01 --wait
  coldroute jobs list --status RUNNING
  coldroute jobs violations <job-id>
  coldroute routes list --date 2025-07-01
  coldroute routes temps <route-id>`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", getDefaultServerURL(),
		"Daemon server URL (host:port or full URL)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")

	// Add command groups
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewDaemonCommand())
	rootCmd.AddCommand(NewPlanCommand())
	rootCmd.AddCommand(NewJobsCommand())
	rootCmd.AddCommand(NewRoutesCommand())
	rootCmd.AddCommand(NewHealthCommand())

	return rootCmd
}

// getDefaultServerURL returns the default server URL from the environment,
// or empty so the user config can supply one
func getDefaultServerURL() string {
	return os.Getenv("COLDROUTE_SERVER")
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
