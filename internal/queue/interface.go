package queue

import "time"

// Queue is the crash-safe list of videos waiting for the processor, plus the
// currently-processing marker and the blocklist.
type Queue interface {
	// Get returns the queued paths in order.
	Get() ([]string, error)
	// Append enqueues path unless it is already queued or being processed.
	// It reports whether the queue changed.
	Append(path string) (bool, error)
	// Set replaces the whole list.
	Set(paths []string) error
	// PeekHead returns the head, ok=false when the queue is empty.
	PeekHead() (string, bool, error)
	// PopHead removes and returns the head under one lock, ok=false when the
	// queue is empty.
	PopHead() (string, bool, error)

	// MarkProcessing records path as in flight, stamped with the current time.
	MarkProcessing(path string) error
	// ClearProcessing removes the in-flight marker.
	ClearProcessing() error
	// Status reports the in-flight path and how long ago it was marked.
	Status() (Status, error)

	// Block adds path to the blocklist.
	Block(path string) error
	// Blocked returns the blocklist as a set.
	Blocked() (map[string]bool, error)

	// Cancel creates the cancellation sentinel.
	Cancel() error
}

// Status is the CurrentlyProcessing record.
type Status struct {
	Path       string
	Processing bool
	Age        time.Duration
}

// AgeSeconds is the age in whole seconds.
func (s Status) AgeSeconds() int64 {
	return int64(s.Age / time.Second)
}
