package executor

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSpawnFailed means the program could not be started.
	ErrSpawnFailed = errors.New("executor: spawn failed")
	// ErrIOFailed means a pipe to the child broke.
	ErrIOFailed = errors.New("executor: io failed")
	// ErrCancelled means the cancellation token tripped and the child was killed.
	ErrCancelled = errors.New("executor: cancelled")
)

// ExitError is returned by Execute when the child exits non-zero.
type ExitError struct {
	Name   string
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("command '%s' failed: exit status %d\nstderr: %s", e.Name, e.Code, e.Stderr)
	}
	return fmt.Sprintf("command '%s' failed: exit status %d", e.Name, e.Code)
}

// NewExitError builds the error for a finished child that exited non-zero.
func NewExitError(name string, res Result) *ExitError {
	return &ExitError{
		Name:   name,
		Code:   res.ExitCode,
		Stderr: strings.TrimSpace(string(res.Stderr)),
	}
}
