package parts

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/atci/internal/media"
)

// Reassembler tracks processed parts of name.partN.ext sequences and keeps
// the master transcript stitched from the contiguous prefix.
type Reassembler interface {
	// Missing returns the part numbers in 1..N-1 that have no record.
	Missing(ctx context.Context, p media.Part) ([]int, error)
	// WritePlaceholder writes a master transcript that lists missing parts.
	WritePlaceholder(ctx context.Context, p media.Part, missing []int) error
	// Complete records part p, restitches the master transcript and enqueues
	// part N+1 when it exists on disk.
	Complete(ctx context.Context, p media.Part) error
	// Records returns the stored records for p's sequence ordered by part.
	Records(ctx context.Context, p media.Part) ([]Record, error)
}

// Record is one processed part.
type Record struct {
	Base             string
	N                int
	Path             string
	ProcessedAt      time.Time
	TranscriptLength int
	Duration         string
}

// Enqueuer is the slice of the queue the reassembler needs.
type Enqueuer interface {
	Append(path string) (bool, error)
}
