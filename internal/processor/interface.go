package processor

import "context"

// Processor drains the queue one video at a time.
type Processor interface {
	// Run loops until ctx is done, idling between empty polls.
	Run(ctx context.Context) error
	// ProcessNext handles at most one queue entry. It reports whether an
	// entry was drawn.
	ProcessNext(ctx context.Context) (bool, error)
}

// Canceller is the process-wide cancellation token as the processor sees it.
type Canceller interface {
	Cancelled() bool
	Consume() error
}
