package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/coldroute-go/internal/domain/planning"
)

// JobMetricsCollector handles planning job lifecycle and queue metrics
type JobMetricsCollector struct {
	// Dependencies
	pool PoolInfo // For queue depth and active job gauges

	// Job metrics
	jobsTotal   *prometheus.CounterVec
	jobDuration *prometheus.HistogramVec
	jobsActive  prometheus.Gauge
	queueDepth  prometheus.Gauge

	// Lifecycle
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// JobInfo represents the data needed for job metrics collection
// This interface abstracts away the actual job implementation
type JobInfo interface {
	Status() planning.JobStatus
	RuntimeDuration() time.Duration
}

// PoolInfo exposes the worker pool state the gauges poll
type PoolInfo interface {
	ActiveJobs() []string
	QueueDepth() int
}

// NewJobMetricsCollector creates a new job metrics collector
func NewJobMetricsCollector(pool PoolInfo) *JobMetricsCollector {
	return &JobMetricsCollector{
		pool: pool,

		// Job lifecycle counter
		jobsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "jobs_total",
				Help:      "Total number of job lifecycle events by terminal status",
			},
			[]string{"status"},
		),

		// Job execution duration histogram
		jobDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "job_duration_seconds",
				Help:      "Job execution duration distribution",
				Buckets:   []float64{1, 5, 10, 30, 60, 300, 600, 1800, 3600},
			},
			[]string{"status"},
		),

		// Currently running jobs gauge
		jobsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "jobs_active",
				Help:      "Number of jobs currently held by a worker",
			},
		),

		// Queued jobs gauge
		queueDepth: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "queue_depth",
				Help:      "Number of accepted jobs waiting for a worker",
			},
		),
	}
}

// Register registers all metrics with the Prometheus registry
func (c *JobMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.jobsTotal,
		c.jobDuration,
		c.jobsActive,
		c.queueDepth,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// Start begins the metrics collection goroutine
func (c *JobMetricsCollector) Start(ctx context.Context) {
	c.ctx, c.cancelFunc = context.WithCancel(ctx)

	// Poll pool state every 10 seconds
	if c.pool != nil {
		c.wg.Add(1)
		go c.collectPoolMetrics(10 * time.Second)
	}
}

// Stop gracefully stops the metrics collection
func (c *JobMetricsCollector) Stop() {
	if c.cancelFunc != nil {
		c.cancelFunc()
	}
	c.wg.Wait()
}

// collectPoolMetrics polls the worker pool and updates the gauges
func (c *JobMetricsCollector) collectPoolMetrics(interval time.Duration) {
	defer c.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.jobsActive.Set(float64(len(c.pool.ActiveJobs())))
			c.queueDepth.Set(float64(c.pool.QueueDepth()))
		}
	}
}

// RecordJobCompletion records a job reaching a terminal state
// This should be called when a job transitions out of RUNNING
func (c *JobMetricsCollector) RecordJobCompletion(job JobInfo) {
	status := string(job.Status())

	// Increment completion counter
	c.jobsTotal.WithLabelValues(status).Inc()

	// Record duration histogram (only for completed/failed, not cancelled)
	if job.Status() == planning.JobStatusCompleted ||
		job.Status() == planning.JobStatusFailed {
		duration := job.RuntimeDuration().Seconds()
		c.jobDuration.WithLabelValues(status).Observe(duration)
	}
}
