package summarizer

import (
	"fmt"

	"github.com/nguyentantai21042004/atci/internal/logger"
)

// Options configures summaries.
type Options struct {
	APIKeys           []string
	Model             string
	RequestsPerMinute int
	// Docx also exports the summary and the transcript as Word documents.
	Docx bool
}

type implSummarizer struct {
	gen    Generator
	docx   bool
	logger logger.Logger
}

// New creates a Summarizer that rotates through the supplied Gemini API keys.
func New(opts Options, log logger.Logger) (Summarizer, error) {
	if len(opts.APIKeys) == 0 {
		return nil, fmt.Errorf("no Gemini API keys configured")
	}
	return NewWithGenerator(newGemini(opts, log), opts.Docx, log), nil
}

// NewWithGenerator creates a Summarizer backed by gen.
func NewWithGenerator(gen Generator, docx bool, log logger.Logger) Summarizer {
	return &implSummarizer{
		gen:    gen,
		docx:   docx,
		logger: log,
	}
}
