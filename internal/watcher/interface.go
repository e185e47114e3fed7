package watcher

import "context"

// Watcher periodically scans the watch roots and enqueues videos that have
// no transcript yet.
type Watcher interface {
	// Start scans every Interval until ctx is done. Filesystem events under a
	// root trigger an early scan.
	Start(ctx context.Context) error
	// ScanOnce runs a single pass and returns how many paths were enqueued.
	ScanOnce(ctx context.Context) (int, error)
	Stop() error
}

// Enqueuer is the part of the queue the watcher writes to.
type Enqueuer interface {
	Append(path string) (bool, error)
	Blocked() (map[string]bool, error)
}
