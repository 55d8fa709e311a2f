package common

import "context"

// Log levels recorded in the planning job log stream.
const (
	LogLevelInfo    = "INFO"
	LogLevelWarning = "WARNING"
	LogLevelError   = "ERROR"
)

// JobLogger sinks log entries produced while a planning job runs. The
// worker's runner implements it; entries land on stdout and in job_logs.
type JobLogger interface {
	Log(level, message string, metadata map[string]interface{})
}

type loggerCtxKey struct{}

// WithLogger returns a context carrying the job's logger so deeper
// pipeline stages, the solver in particular, can add entries to the
// job's log stream without a direct dependency on the runner.
func WithLogger(ctx context.Context, logger JobLogger) context.Context {
	return context.WithValue(ctx, loggerCtxKey{}, logger)
}

// LoggerFromContext yields the job logger carried by ctx, or a sink that
// discards everything when the caller runs outside a job.
func LoggerFromContext(ctx context.Context) JobLogger {
	if logger, ok := ctx.Value(loggerCtxKey{}).(JobLogger); ok {
		return logger
	}
	return noOpLogger{}
}

type noOpLogger struct{}

func (noOpLogger) Log(string, string, map[string]interface{}) {}
