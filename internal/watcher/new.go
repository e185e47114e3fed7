package watcher

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/atci/internal/logger"
)

const (
	// DefaultInterval is the scan cadence.
	DefaultInterval = 2 * time.Second
	// DefaultQuietPeriod is how long a file must stay unmodified before it
	// is enqueued. It guards against in-progress copies.
	DefaultQuietPeriod = 3 * time.Second
	// settleDelay coalesces bursts of filesystem events into one scan.
	settleDelay = 500 * time.Millisecond
)

// Options configures the watcher.
type Options struct {
	Roots       []string
	Interval    time.Duration
	QuietPeriod time.Duration
}

type implWatcher struct {
	opts    Options
	queue   Enqueuer
	logger  logger.Logger
	watcher *fsnotify.Watcher
	now     func() time.Time
}

// New creates a new Watcher instance. Roots that cannot be watched for
// events are still scanned on every tick.
func New(opts Options, q Enqueuer, log logger.Logger) (Watcher, error) {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.QuietPeriod <= 0 {
		opts.QuietPeriod = DefaultQuietPeriod
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	return &implWatcher{
		opts:    opts,
		queue:   q,
		logger:  log,
		watcher: watcher,
		now:     time.Now,
	}, nil
}
