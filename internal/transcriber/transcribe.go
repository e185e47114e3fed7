package transcriber

import (
	"context"
	"fmt"
	"os"

	"github.com/nguyentantai21042004/atci/internal/media"
	"github.com/nguyentantai21042004/atci/internal/transcript"
	"github.com/nguyentantai21042004/atci/pkg/executor"
)

// transcribe runs whisper-cli on the extracted audio and moves its VTT
// output into place as the transcript.
func (t *implTranscriber) transcribe(ctx context.Context, videoPath, audioPath string) error {
	t.logger.Info(ctx, "Starting transcription with model %s: %s", t.opts.ModelName, audioPath)

	// -np: no progress prints
	// --max-context 0: do not carry text between windows, avoids repetition loops
	// -ovtt: writes <audio>.vtt
	args := []string{
		"-m", t.opts.ModelPath,
		"-np",
		"--max-context", "0",
		"-ovtt",
		"-f", audioPath,
	}

	if err := t.run(ctx, t.opts.WhisperCLIPath, args...); err != nil {
		return fmt.Errorf("whisper transcribe: %w", err)
	}

	vttPath := media.VTTPath(audioPath)
	data, err := os.ReadFile(vttPath)
	if err != nil {
		return fmt.Errorf("read whisper output: %w", err)
	}
	if err := os.WriteFile(vttPath, []byte(transcript.StripVTTHeader(string(data))), 0644); err != nil {
		return fmt.Errorf("rewrite whisper output: %w", err)
	}

	transcriptPath := media.TranscriptPath(videoPath)
	if err := os.Rename(vttPath, transcriptPath); err != nil {
		return fmt.Errorf("move whisper output: %w", err)
	}
	t.cleanupTempFile(ctx, audioPath)

	if err := transcript.SetMeta(transcriptPath, transcript.KeySource, t.opts.ModelName); err != nil {
		return fmt.Errorf("stamp source: %w", err)
	}

	t.logger.Info(ctx, "Transcription completed: %s", transcriptPath)
	return nil
}

// run executes a tool under the cancellation token. A non-zero exit becomes
// an *executor.ExitError.
func (t *implTranscriber) run(ctx context.Context, name string, args ...string) error {
	res, err := t.executor.Run(ctx, t.cancel, name, args...)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return executor.NewExitError(name, res)
	}
	return nil
}
