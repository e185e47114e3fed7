package transcriber

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/nguyentantai21042004/atci/internal/media"
)

// cleanupCancelled removes everything a cancelled run may have left: the
// temp audio, whisper output, subtitle temp and the partial transcript.
func (t *implTranscriber) cleanupCancelled(ctx context.Context, videoPath string) {
	audioPath := media.AudioTempPath(videoPath)

	t.logger.Info(ctx, "Cancelled, cleaning up: %s", videoPath)

	for _, p := range []string{
		audioPath,
		media.VTTPath(audioPath),
		media.SubtitleTempPath(videoPath),
		media.TranscriptPath(videoPath),
	} {
		t.cleanupTempFile(ctx, p)
	}
}

// cleanupTempFile removes a temporary file, logs warning if fails
func (t *implTranscriber) cleanupTempFile(ctx context.Context, filePath string) {
	if filePath == "" {
		return
	}
	if err := os.Remove(filePath); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			t.logger.Warn(ctx, "Failed to cleanup temp file %s: %v", filePath, err)
		}
	} else {
		t.logger.Debug(ctx, "Cleaned up temp file: %s", filePath)
	}
}
