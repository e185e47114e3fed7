package transcriber

import (
	"context"
	"fmt"

	"github.com/nguyentantai21042004/atci/internal/media"
)

// extractAudio writes a mono 16kHz mp3 next to the video for whisper-cli.
func (t *implTranscriber) extractAudio(ctx context.Context, videoPath string) (string, error) {
	audioPath := media.AudioTempPath(videoPath)

	t.logger.Info(ctx, "Extracting audio: %s", videoPath)

	// -map 0:a:0: first audio stream only
	// -q:a 0: best VBR quality
	// -ac 1 -ar 16000: mono 16kHz, what whisper expects
	args := []string{
		"-i", videoPath,
		"-map", "0:a:0",
		"-q:a", "0",
		"-ac", "1",
		"-ar", "16000",
		"-y",
		audioPath,
	}

	if err := t.run(ctx, t.opts.FFmpegPath, args...); err != nil {
		return audioPath, fmt.Errorf("ffmpeg extract audio: %w", err)
	}

	t.logger.Info(ctx, "Audio extracted successfully: %s", audioPath)
	return audioPath, nil
}
