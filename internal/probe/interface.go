package probe

import "context"

// Prober queries container metadata through ffprobe. Every call is read-only.
type Prober interface {
	// Duration returns the container duration rounded to whole seconds as HH:MM:SS.
	Duration(ctx context.Context, path string) (string, error)
	// SubtitleStreams returns subtitle stream indices in container order.
	SubtitleStreams(ctx context.Context, path string) ([]int, error)
	// HasAudio reports whether at least one audio stream is present.
	HasAudio(ctx context.Context, path string) (bool, error)
	// ChannelLayout returns the first audio stream's layout, lowercased.
	// Absent layouts and probe failures yield "stereo".
	ChannelLayout(ctx context.Context, path string) string
	// FrameRate returns the first video stream's frame rate, 30.0 on failure.
	FrameRate(ctx context.Context, path string) float64
}
