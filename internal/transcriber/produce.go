package transcriber

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/nguyentantai21042004/atci/internal/media"
	"github.com/nguyentantai21042004/atci/pkg/executor"
)

// Produce runs the source policy for one video.
func (t *implTranscriber) Produce(ctx context.Context, videoPath string) Result {
	transcriptPath := media.TranscriptPath(videoPath)
	if _, err := os.Stat(transcriptPath); err == nil {
		t.logger.Info(ctx, "Transcript already exists, skipping: %s", transcriptPath)
		return Result{Outcome: Completed, Skipped: true}
	}

	if t.opts.AllowSubtitles {
		res, ok := t.trySubtitles(ctx, videoPath)
		if ok {
			return res
		}
	}

	if t.cancelled(ctx) {
		t.cleanupCancelled(ctx, videoPath)
		return Result{Outcome: Cancelled}
	}

	if !t.opts.AllowWhisper {
		t.logger.Info(ctx, "Speech-to-text disabled, writing empty transcript: %s", videoPath)
		return t.writeEmpty(ctx, videoPath, nil)
	}

	hasAudio, err := t.prober.HasAudio(ctx, videoPath)
	if err != nil {
		t.logger.Warn(ctx, "Audio probe failed for %s: %v", videoPath, err)
		return t.writeEmpty(ctx, videoPath, err)
	}
	if !hasAudio {
		t.logger.Info(ctx, "No audio stream, writing empty transcript: %s", videoPath)
		return t.writeEmpty(ctx, videoPath, nil)
	}

	return t.speechToText(ctx, videoPath)
}

// trySubtitles returns ok=false when Produce should fall through to audio.
func (t *implTranscriber) trySubtitles(ctx context.Context, videoPath string) (Result, bool) {
	streams, err := t.prober.SubtitleStreams(ctx, videoPath)
	if err != nil {
		t.logger.Warn(ctx, "Subtitle probe failed for %s: %v", videoPath, err)
		return Result{}, false
	}
	if len(streams) == 0 {
		t.logger.Debug(ctx, "No subtitle streams in %s", videoPath)
		return Result{}, false
	}

	err = t.extractSubtitles(ctx, videoPath, streams[0])
	switch {
	case err == nil:
		return Result{Outcome: Completed, Source: sourceSubtitles}, true
	case isCancelled(ctx, err):
		t.cleanupCancelled(ctx, videoPath)
		return Result{Outcome: Cancelled}, true
	default:
		t.logger.Warn(ctx, "Subtitle extraction failed for %s, falling back: %v", videoPath, err)
		return Result{}, false
	}
}

func (t *implTranscriber) speechToText(ctx context.Context, videoPath string) Result {
	audioPath, err := t.extractAudio(ctx, videoPath)
	if err != nil {
		if isCancelled(ctx, err) {
			t.cleanupCancelled(ctx, videoPath)
			return Result{Outcome: Cancelled}
		}
		t.cleanupTempFile(ctx, audioPath)
		return t.writeEmpty(ctx, videoPath, err)
	}

	if err := t.transcribe(ctx, videoPath, audioPath); err != nil {
		if isCancelled(ctx, err) {
			t.cleanupCancelled(ctx, videoPath)
			return Result{Outcome: Cancelled}
		}
		t.cleanupTempFile(ctx, audioPath)
		t.cleanupTempFile(ctx, media.VTTPath(audioPath))
		return t.writeEmpty(ctx, videoPath, err)
	}

	return Result{Outcome: Completed, Source: t.opts.ModelName}
}

// writeEmpty leaves an empty transcript behind so the video is not picked up
// again, and reports cause as a degraded completion.
func (t *implTranscriber) writeEmpty(ctx context.Context, videoPath string, cause error) Result {
	path := media.TranscriptPath(videoPath)
	if err := os.WriteFile(path, nil, 0644); err != nil {
		werr := fmt.Errorf("write empty transcript: %w", err)
		t.logger.Error(ctx, "%v", werr)
		return Result{Outcome: Completed, Err: errors.Join(cause, werr)}
	}
	return Result{Outcome: Completed, Err: cause}
}

func (t *implTranscriber) cancelled(ctx context.Context) bool {
	if ctx.Err() != nil {
		return true
	}
	return t.cancel != nil && t.cancel.Cancelled()
}

func isCancelled(ctx context.Context, err error) bool {
	return errors.Is(err, executor.ErrCancelled) || ctx.Err() != nil
}
