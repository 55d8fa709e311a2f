package config

// MetricsConfig holds metrics collection and exposure configuration.
// The Prometheus endpoint is served by the API server itself, so there is
// no separate listener to configure.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active
	Enabled bool `mapstructure:"enabled"`

	// Path for the metrics endpoint (default: /metrics)
	Path string `mapstructure:"path"`
}
