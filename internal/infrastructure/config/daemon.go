package config

// DaemonConfig holds daemon process configuration
type DaemonConfig struct {
	// PID file location
	PIDFile string `mapstructure:"pid_file"`

	// Number of concurrent solve workers
	Workers int `mapstructure:"workers" validate:"min=1"`

	// Accepted jobs that may wait for a worker before submissions are refused
	QueueSize int `mapstructure:"queue_size" validate:"min=1"`
}
