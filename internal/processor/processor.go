package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nguyentantai21042004/atci/internal/logger"
	"github.com/nguyentantai21042004/atci/internal/media"
	"github.com/nguyentantai21042004/atci/internal/transcriber"
	"github.com/nguyentantai21042004/atci/internal/transcript"
)

// Run orchestrates the queue loop until ctx is cancelled. It pauses for the
// idle interval after every iteration and waits for running hooks before
// returning.
func (p *implProcessor) Run(ctx context.Context) error {
	p.logger.Info(ctx, "Queue processor started (idle %s)", p.opts.Idle)

	for {
		if _, err := p.ProcessNext(ctx); err != nil {
			p.logger.Error(ctx, "Queue processor: %v", err)
		}
		if ctx.Err() != nil {
			return p.stop(ctx)
		}

		select {
		case <-ctx.Done():
			return p.stop(ctx)
		case <-time.After(p.opts.Idle):
		}
	}
}

func (p *implProcessor) stop(ctx context.Context) error {
	if n := p.hooks.inUse(); n > 0 {
		p.logger.Info(ctx, "Waiting for %d running hooks", n)
	}
	p.running.Wait()
	p.logger.Info(ctx, "Queue processor stopped")
	return nil
}

// ProcessNext runs one loop iteration.
func (p *implProcessor) ProcessNext(ctx context.Context) (bool, error) {
	if err := p.recover(ctx); err != nil {
		return false, err
	}

	head, ok, err := p.deps.Queue.PopHead()
	if err != nil {
		return false, fmt.Errorf("pop queue: %w", err)
	}
	if !ok {
		return false, nil
	}

	jobID := uuid.NewString()
	log := p.logger.With("job_id", jobID).With("path", head)

	if err := p.validate(ctx, head); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			log.Warn(ctx, "Dropping queue entry: %v", err)
			p.metrics.record(ctx, "invalid", 0)
			return true, nil
		}
		return true, err
	}

	return true, p.process(ctx, log, head)
}

// recover clears a CurrentlyProcessing marker left by a crashed run and a
// cancel sentinel that arrived while nothing was in flight.
func (p *implProcessor) recover(ctx context.Context) error {
	st, err := p.deps.Queue.Status()
	if err != nil {
		return fmt.Errorf("read processing status: %w", err)
	}
	if st.Processing {
		p.logger.Warn(ctx, "Clearing stale processing marker for %s (%ds old)", st.Path, st.AgeSeconds())
		if err := p.deps.Queue.ClearProcessing(); err != nil {
			return err
		}
	}
	if p.deps.Cancel != nil && p.deps.Cancel.Cancelled() {
		p.logger.Info(ctx, "Discarding cancel request received while idle")
		if err := p.deps.Cancel.Consume(); err != nil {
			return err
		}
	}
	return nil
}

func (p *implProcessor) process(ctx context.Context, log logger.Logger, videoPath string) error {
	started := time.Now()

	log.Info(ctx, "========================================")
	log.Info(ctx, "Starting video processing: %s", videoPath)
	log.Info(ctx, "========================================")

	if err := p.deps.Queue.MarkProcessing(videoPath); err != nil {
		return err
	}

	part, isPart := media.ParsePart(videoPath)
	if isPart && p.deps.Parts != nil {
		missing, err := p.deps.Parts.Missing(ctx, part)
		if err != nil {
			p.clearProcessing(ctx, log)
			return err
		}
		if len(missing) > 0 {
			err := p.deps.Parts.WritePlaceholder(ctx, part, missing)
			p.clearProcessing(ctx, log)
			p.metrics.record(ctx, "waiting", time.Since(started).Seconds())
			return err
		}
	}

	res := p.deps.Transcriber.Produce(ctx, videoPath)
	if res.Outcome == transcriber.Cancelled {
		p.clearProcessing(ctx, log)
		if p.deps.Cancel != nil {
			if err := p.deps.Cancel.Consume(); err != nil {
				log.Warn(ctx, "Failed to consume cancel sentinel: %v", err)
			}
		}
		p.metrics.record(ctx, "cancelled", time.Since(started).Seconds())
		log.Info(ctx, "Processing cancelled: %s", videoPath)
		return nil
	}

	failure := res.Err
	if failure != nil {
		log.Warn(ctx, "Transcript degraded to empty: %v", failure)
	}

	if err := p.stampLength(ctx, videoPath); err != nil {
		log.Warn(ctx, "Failed to stamp length: %v", err)
		failure = errors.Join(failure, err)
	}

	if isPart && p.deps.Parts != nil {
		if err := p.deps.Parts.Complete(ctx, part); err != nil {
			log.Warn(ctx, "Failed to update multi-part master: %v", err)
			failure = errors.Join(failure, err)
		}
	}

	p.clearProcessing(ctx, log)

	if failure != nil {
		p.runHook(ctx, p.opts.FailureCommand, videoPath)
		p.metrics.record(ctx, "failed", time.Since(started).Seconds())
	} else {
		p.runHook(ctx, p.opts.SuccessCommand, videoPath)
		p.metrics.record(ctx, "completed", time.Since(started).Seconds())
	}

	p.rebuildCatalog(ctx, log)

	log.Info(ctx, "========================================")
	log.Info(ctx, "Processing finished: %s", videoPath)
	log.Info(ctx, "Source: %s", sourceLabel(res))
	log.Info(ctx, "Processing time: %s", time.Since(started).Round(time.Millisecond))
	log.Info(ctx, "========================================")
	return nil
}

func (p *implProcessor) stampLength(ctx context.Context, videoPath string) error {
	length, err := p.deps.Prober.Duration(ctx, videoPath)
	if err != nil {
		return err
	}
	return transcript.SetMeta(media.TranscriptPath(videoPath), transcript.KeyLength, length)
}

func (p *implProcessor) clearProcessing(ctx context.Context, log logger.Logger) {
	if err := p.deps.Queue.ClearProcessing(); err != nil {
		log.Warn(ctx, "Failed to clear processing marker: %v", err)
	}
}

func (p *implProcessor) rebuildCatalog(ctx context.Context, log logger.Logger) {
	if p.deps.Catalog == nil {
		return
	}
	if _, err := p.deps.Catalog.Rebuild(ctx, p.opts.Roots); err != nil {
		log.Warn(ctx, "Catalog rebuild failed: %v", err)
	}
}

func sourceLabel(res transcriber.Result) string {
	switch {
	case res.Skipped:
		return "existing transcript"
	case res.Source == "":
		return "none"
	default:
		return res.Source
	}
}
