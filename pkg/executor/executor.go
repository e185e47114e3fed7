package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"syscall"
	"time"
)

const (
	// PollInterval is how often Run checks the cancellation token.
	PollInterval = 500 * time.Millisecond
	// killGrace is how long a terminated child gets before SIGKILL.
	killGrace = 3 * time.Second
)

type implExecutor struct {
	pollInterval time.Duration
}

// New creates a new Executor instance
func New() Executor {
	return &implExecutor{pollInterval: PollInterval}
}

// Execute runs an external command with the given arguments
func (e *implExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	res, err := e.Run(ctx, nil, name, args...)
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", NewExitError(name, res)
	}
	return string(res.Stdout), nil
}

// Run spawns name and waits for it, checking cancel at every poll tick.
func (e *implExecutor) Run(ctx context.Context, cancel Canceller, name string, args ...string) (Result, error) {
	if cancel != nil && cancel.Cancelled() {
		return Result{}, ErrCancelled
	}

	cmd := exec.Command(name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return Result{}, fmt.Errorf("%w: %s: %v", ErrSpawnFailed, name, err)
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	ticker := time.NewTicker(e.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case err := <-done:
			return finish(name, cmd, &stdout, &stderr, err)

		case <-ticker.C:
			if cancel != nil && cancel.Cancelled() {
				terminate(cmd, done)
				return Result{}, ErrCancelled
			}

		case <-ctx.Done():
			terminate(cmd, done)
			return Result{}, fmt.Errorf("%w: %v", ErrCancelled, ctx.Err())
		}
	}
}

func finish(name string, cmd *exec.Cmd, stdout, stderr *bytes.Buffer, waitErr error) (Result, error) {
	res := Result{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}
	if waitErr == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		if res.ExitCode < 0 {
			// killed by a signal we did not send
			res.ExitCode = 1
		}
		return res, nil
	}
	return res, fmt.Errorf("%w: %s: %v", ErrIOFailed, name, waitErr)
}

// terminate asks the child to stop, escalates to SIGKILL after killGrace and
// always reaps it so no process outlives Run.
func terminate(cmd *exec.Cmd, done <-chan error) {
	if cmd.Process == nil {
		return
	}
	if err := cmd.Process.Signal(syscall.SIGTERM); err != nil {
		_ = cmd.Process.Kill()
	}

	select {
	case <-done:
	case <-time.After(killGrace):
		_ = cmd.Process.Kill()
		<-done
	}
}
