package processor

import (
	"context"
	"fmt"
	"os"

	"github.com/h2non/filetype"

	"github.com/nguyentantai21042004/atci/internal/media"
)

// ValidationError means a queued path cannot be processed. The entry is
// dropped and the loop moves on.
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid queue entry %s: %s", e.Path, e.Reason)
}

func (p *implProcessor) validate(ctx context.Context, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return &ValidationError{Path: path, Reason: "missing"}
	}
	if !info.Mode().IsRegular() {
		return &ValidationError{Path: path, Reason: "not a file"}
	}
	if !media.IsVideo(path) {
		return &ValidationError{Path: path, Reason: "unrecognised extension"}
	}

	p.sniff(ctx, path)
	return nil
}

// sniff logs when the content does not look like video. Extension still
// decides; some containers have no magic bytes filetype knows.
func (p *implProcessor) sniff(ctx context.Context, path string) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	head := make([]byte, 262)
	n, _ := f.Read(head)
	if n == 0 {
		p.logger.Warn(ctx, "Queued file is empty: %s", path)
		return
	}
	if !filetype.IsVideo(head[:n]) {
		kind, _ := filetype.Match(head[:n])
		p.logger.Debug(ctx, "Content of %s does not look like video (%s)", path, kind.MIME.Value)
	}
}
