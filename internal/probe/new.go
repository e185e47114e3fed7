package probe

import (
	"errors"

	"github.com/nguyentantai21042004/atci/internal/logger"
	"github.com/nguyentantai21042004/atci/pkg/executor"
)

const (
	DefaultChannelLayout = "stereo"
	DefaultFrameRate     = 30.0
)

// ErrProbeFailed is returned when ffprobe exits non-zero or prints
// something that cannot be parsed.
var ErrProbeFailed = errors.New("probe failed")

type implProber struct {
	binary string
	exec   executor.Executor
	logger logger.Logger
}

// New creates a Prober that runs the ffprobe binary at path.
func New(path string, exec executor.Executor, l logger.Logger) Prober {
	return &implProber{
		binary: path,
		exec:   exec,
		logger: l,
	}
}
