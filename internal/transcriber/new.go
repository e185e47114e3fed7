package transcriber

import (
	"github.com/nguyentantai21042004/atci/internal/logger"
	"github.com/nguyentantai21042004/atci/internal/probe"
	"github.com/nguyentantai21042004/atci/pkg/executor"
)

// Options selects the binaries and sources Produce may use.
type Options struct {
	FFmpegPath     string
	WhisperCLIPath string
	ModelPath      string
	ModelName      string
	AllowWhisper   bool
	AllowSubtitles bool
}

type implTranscriber struct {
	opts     Options
	executor executor.Executor
	prober   probe.Prober
	cancel   executor.Canceller
	logger   logger.Logger
}

// New creates a new Transcriber instance
func New(opts Options, exec executor.Executor, prober probe.Prober, cancel executor.Canceller, log logger.Logger) Transcriber {
	return &implTranscriber{
		opts:     opts,
		executor: exec,
		prober:   prober,
		cancel:   cancel,
		logger:   log,
	}
}
