package httpapi

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/andrescamacho/coldroute-go/internal/adapters/metrics"
	"github.com/andrescamacho/coldroute-go/internal/application/common"
)

// JobPool is the part of the worker pool the server drives
type JobPool interface {
	ActiveJobs() []string
	Shutdown()
}

// Config holds the HTTP server settings
type Config struct {
	Host            string
	Port            int
	RateLimitRPS    float64
	RateLimitBurst  int
	MetricsPath     string
	ShutdownTimeout time.Duration
}

// Server serves the planner's HTTP API
// Handles dashboard and dispatcher requests and owns graceful shutdown
// of the worker pool
type Server struct {
	mediator common.Mediator
	pool     JobPool
	app      *fiber.App
	config   Config

	httpMetrics *metrics.HTTPMetricsCollector

	// Shutdown coordination
	shutdownChan chan os.Signal
	done         chan struct{}
}

// NewServer creates a new HTTP server instance
func NewServer(mediator common.Mediator, pool JobPool, config Config) *Server {
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = 30 * time.Second
	}
	if config.MetricsPath == "" {
		config.MetricsPath = "/metrics"
	}

	app := fiber.New(fiber.Config{
		AppName:               "coldroute-daemon",
		DisableStartupMessage: true,
	})

	server := &Server{
		mediator:     mediator,
		pool:         pool,
		app:          app,
		config:       config,
		shutdownChan: make(chan os.Signal, 1),
		done:         make(chan struct{}),
	}

	if metrics.IsEnabled() {
		server.httpMetrics = metrics.NewHTTPMetricsCollector()
		if err := server.httpMetrics.Register(); err != nil {
			log.Printf("Failed to register HTTP metrics: %v", err)
		}
	}

	server.setupMiddleware()
	server.setupRoutes()

	// Setup signal handling
	signal.Notify(server.shutdownChan, os.Interrupt, syscall.SIGTERM)

	return server
}

// App exposes the fiber app for in-process request testing
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) setupMiddleware() {
	s.app.Use(recover.New())
	s.app.Use(logger.New())

	if s.config.RateLimitRPS > 0 {
		burst := s.config.RateLimitBurst
		if burst <= 0 {
			burst = int(s.config.RateLimitRPS)
		}
		s.app.Use(NewRateLimiter(s.config.RateLimitRPS, burst))
	}

	if s.httpMetrics != nil {
		s.app.Use(metrics.HTTPMiddleware(s.httpMetrics))
	}
}

func (s *Server) setupRoutes() {
	planHandler := NewPlanHandler(s.mediator)
	routeHandler := NewRouteHandler(s.mediator)

	s.app.Get("/health", s.handleHealth)

	if metrics.IsEnabled() {
		s.app.Get(s.config.MetricsPath, adaptor.HTTPHandler(promhttp.HandlerFor(
			metrics.GetRegistry(),
			promhttp.HandlerOpts{},
		)))
	}

	api := s.app.Group("/api/v1")

	jobs := api.Group("/optimization/jobs")
	jobs.Post("/", planHandler.CreateJob)
	jobs.Get("/", planHandler.ListJobs)
	jobs.Get("/:id", planHandler.GetJob)
	jobs.Post("/:id/cancel", planHandler.CancelJob)
	jobs.Get("/:id/violations", planHandler.GetJobViolations)
	jobs.Get("/:id/logs", planHandler.GetJobLogs)

	routes := api.Group("/routes")
	routes.Get("/", routeHandler.ListRoutes)
	// map-data registers before :id so it is not captured as a route id
	routes.Get("/map-data", routeHandler.GetMapData)
	routes.Get("/:id", routeHandler.GetRoute)
	routes.Get("/:id/temperature-analysis", routeHandler.GetTemperatureAnalysis)
	routes.Patch("/:id/status", routeHandler.UpdateRouteStatus)
}

// handleHealth reports liveness plus the jobs currently being solved
func (s *Server) handleHealth(c *fiber.Ctx) error {
	activeJobs := []string{}
	if s.pool != nil {
		activeJobs = s.pool.ActiveJobs()
	}

	return c.JSON(fiber.Map{
		"status":      "ok",
		"active_jobs": activeJobs,
	})
}

// Start begins serving HTTP requests
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	fmt.Printf("HTTP server listening on %s\n", addr)

	// Start shutdown handler
	go s.handleShutdown()

	// Start serving in a goroutine
	errChan := make(chan error, 1)
	go func() {
		if err := s.app.Listen(addr); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Wait for shutdown signal or error
	select {
	case err := <-errChan:
		return err
	case <-s.done:
		return nil
	}
}

// handleShutdown manages graceful shutdown
func (s *Server) handleShutdown() {
	<-s.shutdownChan
	fmt.Println("\nShutdown signal received, stopping daemon...")

	// Stop accepting requests first, then drain the worker pool so
	// running solves still commit or cancel cleanly
	if err := s.app.ShutdownWithTimeout(s.config.ShutdownTimeout); err != nil {
		fmt.Printf("HTTP server shutdown error: %v\n", err)
	}

	if s.pool != nil {
		s.pool.Shutdown()
	}

	close(s.done)
}
