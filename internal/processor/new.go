package processor

import (
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/nguyentantai21042004/atci/internal/catalog"
	"github.com/nguyentantai21042004/atci/internal/logger"
	"github.com/nguyentantai21042004/atci/internal/parts"
	"github.com/nguyentantai21042004/atci/internal/probe"
	"github.com/nguyentantai21042004/atci/internal/queue"
	"github.com/nguyentantai21042004/atci/internal/transcriber"
	"github.com/nguyentantai21042004/atci/pkg/executor"
)

const (
	// DefaultIdle is the pause between loop iterations.
	DefaultIdle = 2 * time.Second
	// maxHooks bounds concurrently running hook processes.
	maxHooks = 4
)

// Options configures the loop.
type Options struct {
	Idle           time.Duration
	SuccessCommand string
	FailureCommand string
	// Roots are rescanned into the catalog after each item.
	Roots []string
}

// Deps are the collaborators the loop drives. Catalog and Parts may be nil;
// a nil Meter falls back to the global provider.
type Deps struct {
	Queue       queue.Queue
	Transcriber transcriber.Transcriber
	Prober      probe.Prober
	Executor    executor.Executor
	Catalog     catalog.Catalog
	Parts       parts.Reassembler
	Cancel      Canceller
	Meter       metric.MeterProvider
	Logger      logger.Logger
}

type implProcessor struct {
	opts    Options
	deps    Deps
	logger  logger.Logger
	hooks   *semaphore
	running sync.WaitGroup
	metrics *metrics
}

// New creates a new Processor instance
func New(opts Options, deps Deps) Processor {
	if opts.Idle <= 0 {
		opts.Idle = DefaultIdle
	}
	return &implProcessor{
		opts:    opts,
		deps:    deps,
		logger:  deps.Logger,
		hooks:   newSemaphore(maxHooks),
		metrics: newMetrics(deps.Meter, deps.Logger),
	}
}
