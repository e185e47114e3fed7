package summarizer

import "context"

// Summarizer writes LLM-generated markdown summaries next to transcripts.
type Summarizer interface {
	// SummarizeAll summarizes every transcript under roots that has no
	// summary yet.
	SummarizeAll(ctx context.Context, roots []string) (Report, error)
	// Summarize writes the summary for one video's transcript, replacing
	// any existing one.
	Summarize(ctx context.Context, videoPath string) error
}

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Report counts the outcome of a SummarizeAll pass.
type Report struct {
	Written int
	Skipped int
	Failed  int
}
