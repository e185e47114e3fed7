package executor

import "context"

// Executor defines the interface for executing external commands
type Executor interface {
	// Execute runs name to completion and returns its stdout. A non-zero exit
	// is reported as an *ExitError.
	Execute(ctx context.Context, name string, args ...string) (string, error)

	// Run spawns name, captures stdout and stderr, and polls cancel every
	// PollInterval while waiting. When cancel trips (or ctx is done) the child
	// is terminated and reaped and ErrCancelled is returned.
	Run(ctx context.Context, cancel Canceller, name string, args ...string) (Result, error)
}

// Canceller reports whether in-flight work should be abandoned.
type Canceller interface {
	Cancelled() bool
}

// Result is what a finished child left behind.
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}
