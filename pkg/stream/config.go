package stream

import (
	"log/slog"
	"time"
)

// Config holds the tunables for stream sessions.
type Config struct {
	// ReadTimeout is the deadline for a single read from the sink.
	// A sink that sends nothing (not even pings) within it is gone.
	ReadTimeout time.Duration

	// WriteTimeout is the deadline for writing one frame.
	WriteTimeout time.Duration

	// HistorySize is the number of sent patches frames retained for
	// resync replay.
	HistorySize int

	// Logger receives session lifecycle and error logs.
	// Defaults to slog.Default().
	Logger *slog.Logger

	// Metrics, when non-nil, receives render and session observations.
	Metrics *Metrics

	// TracerName names the OpenTelemetry tracer for render spans.
	TracerName string
}

// DefaultConfig returns the default stream configuration.
func DefaultConfig() *Config {
	return &Config{
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 10 * time.Second,
		HistorySize:  100,
		TracerName:   "vireo/stream",
	}
}

func (c *Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
