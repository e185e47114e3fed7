package transcriber

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/nguyentantai21042004/atci/internal/media"
	"github.com/nguyentantai21042004/atci/internal/transcript"
)

const sourceSubtitles = transcript.SourceSubtitles

// extractSubtitles remuxes one subtitle stream to SRT next to the video,
// converts it to a transcript body and stamps source: subtitles.
func (t *implTranscriber) extractSubtitles(ctx context.Context, videoPath string, streamIndex int) error {
	srtPath := media.SubtitleTempPath(videoPath)
	defer t.cleanupTempFile(ctx, srtPath)

	t.logger.Info(ctx, "Extracting subtitle stream %d: %s", streamIndex, videoPath)

	// -map 0:<idx>: the absolute stream index reported by ffprobe
	// -c:s srt: convert whatever subtitle codec to SubRip
	args := []string{
		"-y",
		"-i", videoPath,
		"-map", "0:" + strconv.Itoa(streamIndex),
		"-c:s", "srt",
		srtPath,
	}

	if err := t.run(ctx, t.opts.FFmpegPath, args...); err != nil {
		return fmt.Errorf("ffmpeg extract subtitles: %w", err)
	}

	data, err := os.ReadFile(srtPath)
	if err != nil {
		return fmt.Errorf("read extracted subtitles: %w", err)
	}

	body := transcript.FromSRT(string(data))
	transcriptPath := media.TranscriptPath(videoPath)
	if err := os.WriteFile(transcriptPath, []byte(body), 0644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	if err := transcript.SetMeta(transcriptPath, transcript.KeySource, sourceSubtitles); err != nil {
		return fmt.Errorf("stamp source: %w", err)
	}

	t.logger.Info(ctx, "Subtitles converted: %s (%d lines)", transcriptPath, transcript.BodyLineCount(body))
	return nil
}
