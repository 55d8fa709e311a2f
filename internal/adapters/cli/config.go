package cli

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/coldroute-go/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage ColdRoute configuration settings.

Daemon configuration is loaded from multiple sources with priority:
1. Environment variables (CR_* prefix)
2. Config file (config.yaml)
3. Default values

User preferences (server URL, default depot, default plan date) are
stored in ~/.coldroute/config.yaml

Examples:
  coldroute config show
  coldroute config set-server http://10.0.0.5:8090
  coldroute config set-depot DEPOT-MAD
  coldroute config set-date 2025-07-01
  coldroute config clear`,
	}

	// Add subcommands
	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetServerCommand())
	cmd.AddCommand(newConfigSetDepotCommand())
	cmd.AddCommand(newConfigSetDateCommand())
	cmd.AddCommand(newConfigClearCommand())

	return cmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long: `Display the current configuration settings.

Shows both daemon configuration and user preferences.

Example:
  coldroute config show`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load daemon config
			cfg, err := config.LoadConfig("")
			if err != nil {
				fmt.Printf("Warning: Failed to load config: %v\n", err)
				fmt.Println("Using default configuration.")
				cfg = config.LoadConfigOrDefault("")
			}

			// Load user config
			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}

			userCfg, err := userConfigHandler.Load()
			if err != nil {
				fmt.Printf("Warning: Failed to load user config: %v\n\n", err)
				userCfg = &config.UserConfig{}
			}

			// Display configuration
			fmt.Println("ColdRoute Configuration")
			fmt.Println("=======================")

			fmt.Println("User Preferences:")
			fmt.Printf("  Config file:      %s\n", userConfigHandler.GetConfigPath())
			fmt.Printf("  Server URL:       %s\n", orNotSet(userCfg.ServerURL))
			fmt.Printf("  Default Depot:    %s\n", orNotSet(userCfg.DefaultDepotID))
			fmt.Printf("  Default Date:     %s\n", orNotSet(userCfg.DefaultPlanDate))

			fmt.Println("\nDatabase:")
			fmt.Printf("  Type:             %s\n", cfg.Database.Type)
			if cfg.Database.Type == "sqlite" {
				fmt.Printf("  Path:             %s\n", cfg.Database.Path)
			} else if cfg.Database.URL != "" {
				fmt.Printf("  URL:              %s\n", maskPassword(cfg.Database.URL))
			} else {
				fmt.Printf("  Host:             %s\n", cfg.Database.Host)
				fmt.Printf("  Port:             %d\n", cfg.Database.Port)
				fmt.Printf("  Database:         %s\n", cfg.Database.Name)
				fmt.Printf("  User:             %s\n", cfg.Database.User)
			}
			fmt.Printf("  Max Connections:  %d\n", cfg.Database.Pool.MaxOpen)

			fmt.Println("\nServer:")
			fmt.Printf("  Host:             %s\n", cfg.Server.Host)
			fmt.Printf("  Port:             %d\n", cfg.Server.Port)
			fmt.Printf("  Rate Limit:       %d req/s (burst: %d)\n",
				cfg.Server.RateLimit.Requests, cfg.Server.RateLimit.Burst)
			fmt.Printf("  Shutdown Timeout: %s\n", cfg.Server.ShutdownTimeout)

			fmt.Println("\nSolver:")
			fmt.Printf("  Time Limit:       %ds (max %ds)\n",
				cfg.Solver.DefaultTimeLimitSeconds, cfg.Solver.MaxTimeLimitSeconds)
			fmt.Printf("  Vehicle Cost:     %d\n", cfg.Solver.VehicleFixedCost)
			fmt.Printf("  Distance Cost:    %d/km\n", cfg.Solver.DistanceCostPerKm)
			fmt.Printf("  Temp Penalty:     %d\n", cfg.Solver.TempViolationPenalty)
			fmt.Printf("  Late Penalty:     %d\n", cfg.Solver.LateDeliveryPenalty)

			fmt.Println("\nPlanner:")
			fmt.Printf("  Departure:        %s\n", cfg.Planner.DefaultDeparture)
			fmt.Printf("  Avg Speed:        %.1f km/h\n", cfg.Planner.AverageSpeedKmh)
			fmt.Printf("  Ambient Temp:     %.1f °C\n", cfg.Planner.AmbientTemp)
			fmt.Printf("  Cargo Temp:       %.1f °C\n", cfg.Planner.InitialCargoTemp)
			fmt.Printf("  Labor Dimension:  %v\n", cfg.Planner.Labor.Enabled)

			fmt.Println("\nDaemon:")
			fmt.Printf("  PID File:         %s\n", cfg.Daemon.PIDFile)
			fmt.Printf("  Workers:          %d\n", cfg.Daemon.Workers)
			fmt.Printf("  Queue Size:       %d\n", cfg.Daemon.QueueSize)

			fmt.Println("\nLogging:")
			fmt.Printf("  Level:            %s\n", cfg.Logging.Level)
			fmt.Printf("  Output:           %s\n", cfg.Logging.Output)

			return nil
		},
	}

	return cmd
}

// newConfigSetServerCommand creates the config set-server subcommand
func newConfigSetServerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-server <url>",
		Short: "Set the daemon server URL",
		Long: `Set the daemon server URL used by all CLI commands.

Examples:
  coldroute config set-server http://10.0.0.5:8090
  coldroute config set-server localhost:8090`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Reject URLs the client itself could not use
			if _, err := NewDaemonClient(args[0]); err != nil {
				return err
			}

			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}

			if err := userConfigHandler.SetServerURL(args[0]); err != nil {
				return fmt.Errorf("failed to set server URL: %w", err)
			}

			fmt.Println("✓ Server URL set successfully")
			fmt.Printf("  Server: %s\n", args[0])

			return nil
		},
	}

	return cmd
}

// newConfigSetDepotCommand creates the config set-depot subcommand
func newConfigSetDepotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-depot <depot-id>",
		Short: "Set the default depot",
		Long: `Set the default depot used when submitting plans.

Example:
  coldroute config set-depot DEPOT-MAD`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}

			if err := userConfigHandler.SetDefaultDepot(args[0]); err != nil {
				return fmt.Errorf("failed to set default depot: %w", err)
			}

			fmt.Println("✓ Default depot set successfully")
			fmt.Printf("  Depot: %s\n", args[0])
			fmt.Printf("\nPlan submissions will use this depot by default.\n")
			fmt.Printf("Override with the --depot flag.\n")

			return nil
		},
	}

	return cmd
}

// newConfigSetDateCommand creates the config set-date subcommand
func newConfigSetDateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-date <YYYY-MM-DD>",
		Short: "Set the default plan date",
		Long: `Set the default plan date used when none is given.

Example:
  coldroute config set-date 2025-07-01`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := time.Parse(planDateLayout, args[0]); err != nil {
				return fmt.Errorf("invalid plan date %q: expected YYYY-MM-DD", args[0])
			}

			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}

			if err := userConfigHandler.SetDefaultPlanDate(args[0]); err != nil {
				return fmt.Errorf("failed to set default plan date: %w", err)
			}

			fmt.Println("✓ Default plan date set successfully")
			fmt.Printf("  Date: %s\n", args[0])

			return nil
		},
	}

	return cmd
}

// newConfigClearCommand creates the config clear subcommand
func newConfigClearCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear all user preferences",
		Long: `Remove the saved server URL, default depot and default plan date.

Example:
  coldroute config clear`,
		RunE: func(cmd *cobra.Command, args []string) error {
			userConfigHandler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create user config handler: %w", err)
			}

			if err := userConfigHandler.Clear(); err != nil {
				return fmt.Errorf("failed to clear user config: %w", err)
			}

			fmt.Println("✓ User preferences cleared")

			return nil
		},
	}

	return cmd
}

// maskPassword masks passwords in connection strings for display
func maskPassword(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return parsed.Redacted()
}

func orNotSet(value string) string {
	if value == "" {
		return "(not set)"
	}
	return value
}
