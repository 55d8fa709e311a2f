package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/andrescamacho/coldroute-go/internal/adapters/httpapi"
	"github.com/andrescamacho/coldroute-go/internal/adapters/metrics"
	"github.com/andrescamacho/coldroute-go/internal/adapters/persistence"
	"github.com/andrescamacho/coldroute-go/internal/adapters/solver"
	"github.com/andrescamacho/coldroute-go/internal/application/planning/services"
	"github.com/andrescamacho/coldroute-go/internal/application/setup"
	"github.com/andrescamacho/coldroute-go/internal/domain/shared"
	"github.com/andrescamacho/coldroute-go/internal/infrastructure/config"
	"github.com/andrescamacho/coldroute-go/internal/infrastructure/database"
	"github.com/andrescamacho/coldroute-go/internal/infrastructure/pidfile"
)

func main() {
	// Parse command-line flags
	forceFlag := flag.Bool("force", false, "Kill any existing daemon and start a new one")
	configFlag := flag.String("config", "", "Path to config file (default: search standard locations)")
	flag.Parse()

	fmt.Println("ColdRoute Daemon v0.1.0")
	fmt.Println("=======================")

	// Load configuration
	fmt.Println("Loading configuration...")
	cfg := config.MustLoadConfig(*configFlag)

	// Point the process log where the config says before anything logs
	closeLogs, err := cfg.Logging.Apply()
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer closeLogs()

	// Acquire PID file lock to prevent multiple instances
	fmt.Printf("Acquiring PID file lock: %s\n", cfg.Daemon.PIDFile)
	pf := pidfile.New(cfg.Daemon.PIDFile)

	// Try to acquire the lock
	err = pf.Acquire()
	if err != nil {
		if *forceFlag {
			// Force mode: kill existing daemon and try again
			fmt.Println("Force mode enabled - attempting to kill existing daemon...")
			if killErr := pf.KillExisting(); killErr != nil {
				log.Fatalf("Failed to kill existing daemon: %v", killErr)
			}
			fmt.Println("Existing daemon killed")

			// Try to acquire lock again
			if err := pf.Acquire(); err != nil {
				log.Fatalf("Failed to acquire PID file lock after killing existing daemon: %v", err)
			}
		} else {
			log.Fatalf("Failed to acquire PID file lock: %v\nUse --force to kill the existing daemon", err)
		}
	}

	defer func() {
		if err := pf.Release(); err != nil {
			log.Printf("Warning: failed to release PID file: %v", err)
		}
	}()
	fmt.Println("PID file lock acquired")

	// Initialize application
	if err := run(cfg); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run(cfg *config.Config) error {
	// 1. Setup database connection
	fmt.Printf("Connecting to %s database...\n", cfg.Database.Type)

	cfg.Database.LogSQL = cfg.Logging.Verbose()
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database schema: %w", err)
	}
	fmt.Println("Database connected")

	// 2. Initialize repositories
	clock := shared.NewRealClock()
	vehicleRepo := persistence.NewGormVehicleRepository(db)
	shipmentRepo := persistence.NewGormShipmentRepository(db)
	depotRepo := persistence.NewGormDepotRepository(db)
	driverRepo := persistence.NewGormDriverRepository(db)
	jobRepo := persistence.NewGormPlanJobRepository(db, clock)
	routeRepo := persistence.NewGormRouteRepository(db)
	planRepo := persistence.NewGormPlanRepository(db)
	logRepo := persistence.NewGormJobLogRepository(db, clock)
	fmt.Println("Repositories initialized")

	// 3. Initialize planning services
	settings := cfg.PlannerSettings()
	loader := services.NewSnapshotLoader(vehicleRepo, shipmentRepo, depotRepo, driverRepo)
	builder := services.NewModelBuilder(settings)
	assembler := services.NewPlanAssembler(settings)
	engine := solver.NewNativeSolverEngine(clock)
	fmt.Println("Solver engine initialized")

	// 4. Initialize worker pool
	pool := services.NewWorkerPool(
		loader, builder, assembler, engine,
		jobRepo, planRepo, logRepo,
		settings, clock,
	)

	// 5. Initialize metrics (optional)
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()

		jobCollector := metrics.NewJobMetricsCollector(pool)
		if err := jobCollector.Register(); err != nil {
			return fmt.Errorf("failed to register job metrics: %w", err)
		}
		jobCollector.Start(context.Background())
		defer jobCollector.Stop()
		metrics.SetGlobalJobCollector(jobCollector)

		solverCollector := metrics.NewSolverMetricsCollector()
		if err := solverCollector.Register(); err != nil {
			return fmt.Errorf("failed to register solver metrics: %w", err)
		}
		metrics.SetGlobalSolverCollector(solverCollector)

		fmt.Printf("Metrics enabled at %s\n", cfg.Metrics.Path)
	}

	// 6. Initialize mediator (CQRS dispatcher) with all planning handlers
	registry := setup.NewHandlerRegistry(
		jobRepo, routeRepo, logRepo,
		vehicleRepo, shipmentRepo, depotRepo,
		loader, pool, settings, clock,
	)

	med, err := registry.CreateConfiguredMediator()
	if err != nil {
		return fmt.Errorf("failed to configure mediator: %w", err)
	}
	fmt.Println("Mediator configured")

	// 7. Start the workers before accepting requests
	pool.Start()

	// 8. Initialize HTTP server
	server := httpapi.NewServer(med, pool, httpapi.Config{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		RateLimitRPS:    float64(cfg.Server.RateLimit.Requests),
		RateLimitBurst:  cfg.Server.RateLimit.Burst,
		MetricsPath:     cfg.Metrics.Path,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})

	fmt.Println("\n✓ Daemon is ready to accept connections")
	fmt.Println("Press Ctrl+C to stop")

	// Start serving (blocks until shutdown)
	if err := server.Start(); err != nil {
		return fmt.Errorf("daemon server error: %w", err)
	}

	fmt.Println("\nDaemon stopped")
	return nil
}
