package transcriber

import "context"

// Transcriber produces the transcript that sits next to a video.
type Transcriber interface {
	// Produce writes <stem>.txt for videoPath using embedded subtitles, then
	// speech-to-text, then an empty body. Only cancellation is reported as a
	// distinct outcome; tool failures come back as Completed with Err set.
	Produce(ctx context.Context, videoPath string) Result
}

// Outcome is the terminal state of Produce.
type Outcome int

const (
	Completed Outcome = iota
	Cancelled
)

func (o Outcome) String() string {
	switch o {
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	}
	return "unknown"
}

// Result describes one Produce call.
type Result struct {
	Outcome Outcome
	// Source is the value stamped as source, empty when nothing was stamped.
	Source string
	// Skipped is true when a transcript already existed.
	Skipped bool
	// Err carries the failure behind a degraded Completed result.
	Err error
}
