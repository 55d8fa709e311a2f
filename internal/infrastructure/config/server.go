package config

import "time"

// ServerConfig holds the HTTP API server configuration
type ServerConfig struct {
	// Host to bind (default: localhost)
	Host string `mapstructure:"host"`

	// Port for the REST API
	Port int `mapstructure:"port" validate:"min=1,max=65535"`

	// Rate limiting settings for the request edge
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// Graceful shutdown timeout
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	// Maximum requests per second (0 disables the limiter)
	Requests int `mapstructure:"requests" validate:"min=0"`

	// Burst size for token bucket
	Burst int `mapstructure:"burst" validate:"min=0"`
}
