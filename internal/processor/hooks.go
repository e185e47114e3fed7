package processor

import (
	"context"
	"strings"
)

// runHook starts the configured command with videoPath appended as the last
// argument. No shell is involved; the command line is split on whitespace.
// It returns immediately; Run waits for started hooks before it returns.
func (p *implProcessor) runHook(ctx context.Context, command, videoPath string) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return
	}
	name := fields[0]
	args := append(fields[1:], videoPath)

	p.running.Add(1)
	go func() {
		defer p.running.Done()
		if p.hooks.inUse() >= maxHooks {
			p.logger.Debug(ctx, "All %d hook slots busy, %s waits", maxHooks, name)
		}
		if err := p.hooks.acquire(ctx); err != nil {
			return
		}
		defer p.hooks.release()

		res, err := p.deps.Executor.Run(ctx, nil, name, args...)
		if err != nil {
			p.logger.Warn(ctx, "Hook %s failed to run: %v", name, err)
			return
		}
		if res.ExitCode != 0 {
			p.logger.Warn(ctx, "Hook %s exited with status %d: %s", name, res.ExitCode, strings.TrimSpace(string(res.Stderr)))
			return
		}
		p.logger.Debug(ctx, "Hook %s finished for %s", name, videoPath)
	}()
}
