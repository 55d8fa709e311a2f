package config

import (
	"fmt"
	"io"
	"log"
	"os"
)

// LoggingConfig controls where the daemon's process log goes. Job
// execution logs are separate and always land in the job_logs table.
type LoggingConfig struct {
	// debug, info, warn or error
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`

	// stdout, stderr or file
	Output string `mapstructure:"output" validate:"required,oneof=stdout stderr file"`

	// Destination when Output is "file"
	FilePath string `mapstructure:"file_path"`
}

// Apply points the standard logger at the configured destination.
// The returned closer releases the log file; it is a no-op for
// console outputs.
func (c *LoggingConfig) Apply() (func(), error) {
	var w io.Writer
	closer := func() {}

	switch c.Output {
	case "stderr":
		w = os.Stderr
	case "file":
		if c.FilePath == "" {
			return nil, fmt.Errorf("logging.file_path is required when logging.output is file")
		}
		f, err := os.OpenFile(c.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = f
		closer = func() { _ = f.Close() }
	default:
		w = os.Stdout
	}

	log.SetOutput(w)
	log.SetFlags(log.LstdFlags | log.LUTC)
	return closer, nil
}

// Verbose reports whether debug-level logging is on. The database layer
// echoes SQL when it is.
func (c *LoggingConfig) Verbose() bool {
	return c.Level == "debug"
}
