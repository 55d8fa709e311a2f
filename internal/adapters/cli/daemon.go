package cli

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/coldroute-go/internal/infrastructure/config"
	"github.com/andrescamacho/coldroute-go/internal/infrastructure/pidfile"
)

// NewDaemonCommand creates the daemon command with subcommands
func NewDaemonCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Manage the ColdRoute daemon process",
		Long: `Start, stop and inspect the background daemon that runs
optimization jobs and serves the HTTP API.

Examples:
  coldroute daemon start
  coldroute daemon status
  coldroute daemon stop`,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to daemon config file")

	cmd.AddCommand(newDaemonStartCommand(&configPath))
	cmd.AddCommand(newDaemonStopCommand(&configPath))
	cmd.AddCommand(newDaemonStatusCommand(&configPath))

	return cmd
}

// newDaemonStartCommand launches the daemon binary in the background
func newDaemonStartCommand(configPath *string) *cobra.Command {
	var binary string

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the daemon in the background",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfigOrDefault(*configPath)

			pf := pidfile.New(cfg.Daemon.PIDFile)
			if pf.IsRunning() {
				pid, _ := pf.ReadPID()
				fmt.Printf("Daemon is already running (PID %d)\n", pid)
				return nil
			}

			binPath, err := resolveDaemonBinary(binary)
			if err != nil {
				return err
			}

			daemonArgs := []string{}
			if *configPath != "" {
				daemonArgs = append(daemonArgs, "--config", *configPath)
			}

			daemon := exec.Command(binPath, daemonArgs...)
			daemon.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
			if err := daemon.Start(); err != nil {
				return fmt.Errorf("failed to start daemon: %w", err)
			}
			pid := daemon.Process.Pid

			// The child outlives us; Release the handle without waiting
			if err := daemon.Process.Release(); err != nil {
				return fmt.Errorf("failed to detach from daemon: %w", err)
			}

			baseURL := daemonBaseURL(cfg)
			if err := waitForHealthy(baseURL, 10*time.Second); err != nil {
				return fmt.Errorf("daemon started (PID %d) but is not responding: %w", pid, err)
			}

			fmt.Printf("✓ Daemon started (PID %d)\n", pid)
			fmt.Printf("  Listening on %s\n", baseURL)

			return nil
		},
	}

	cmd.Flags().StringVar(&binary, "binary", "",
		"Path to the coldroute-daemon binary (default: next to this binary or on PATH)")

	return cmd
}

// newDaemonStopCommand stops a running daemon via its PID file
func newDaemonStopCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the running daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfigOrDefault(*configPath)

			pf := pidfile.New(cfg.Daemon.PIDFile)
			pid, err := pf.ReadPID()
			if err != nil {
				fmt.Println("Daemon is not running")
				return nil
			}
			if !pf.IsRunning() {
				fmt.Printf("Daemon is not running (stale PID file for PID %d)\n", pid)
				return nil
			}

			fmt.Printf("Stopping daemon (PID %d)...\n", pid)
			if err := pf.KillExisting(); err != nil {
				return fmt.Errorf("failed to stop daemon: %w", err)
			}

			fmt.Println("✓ Daemon stopped")

			return nil
		},
	}

	return cmd
}

// newDaemonStatusCommand reports whether the daemon is up and responsive
func newDaemonStatusCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfigOrDefault(*configPath)

			pf := pidfile.New(cfg.Daemon.PIDFile)
			pid, err := pf.ReadPID()
			if err != nil {
				fmt.Println("Daemon is not running")
				return nil
			}
			if !pf.IsRunning() {
				fmt.Printf("Daemon is not running (stale PID file for PID %d)\n", pid)
				return nil
			}

			fmt.Printf("✓ Daemon is running (PID %d)\n", pid)

			client, err := newDaemonClient()
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			health, err := client.HealthCheck(ctx)
			if err != nil {
				fmt.Printf("  API:         not responding (%v)\n", err)
				return nil
			}

			fmt.Printf("  API:         %s\n", health.Status)
			fmt.Printf("  Active Jobs: %d\n", len(health.ActiveJobs))
			for _, jobID := range health.ActiveJobs {
				fmt.Printf("    - %s\n", jobID)
			}

			return nil
		},
	}

	return cmd
}

// resolveDaemonBinary locates the coldroute-daemon executable
func resolveDaemonBinary(override string) (string, error) {
	if override != "" {
		return override, nil
	}

	// Prefer a daemon binary installed next to the CLI
	if self, err := os.Executable(); err == nil {
		sibling := filepath.Join(filepath.Dir(self), "coldroute-daemon")
		if _, err := os.Stat(sibling); err == nil {
			return sibling, nil
		}
	}

	binPath, err := exec.LookPath("coldroute-daemon")
	if err != nil {
		return "", fmt.Errorf("coldroute-daemon binary not found: install it on PATH or pass --binary")
	}
	return binPath, nil
}

// daemonBaseURL derives the local API URL from the daemon config
func daemonBaseURL(cfg *config.Config) string {
	host := cfg.Server.Host
	if host == "" || host == "0.0.0.0" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s:%d", host, cfg.Server.Port)
}

// waitForHealthy polls the daemon health endpoint until it responds or
// the deadline passes
func waitForHealthy(baseURL string, timeout time.Duration) error {
	client, err := NewDaemonClient(baseURL)
	if err != nil {
		return err
	}
	defer client.Close()

	deadline := time.Now().Add(timeout)
	for {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		_, err := client.HealthCheck(ctx)
		cancel()
		if err == nil {
			return nil
		}
		if time.Now().After(deadline) {
			return err
		}
		time.Sleep(200 * time.Millisecond)
	}
}
