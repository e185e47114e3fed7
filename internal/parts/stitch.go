package parts

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/nguyentantai21042004/atci/internal/media"
	"github.com/nguyentantai21042004/atci/internal/timeutil"
	"github.com/nguyentantai21042004/atci/internal/transcript"
)

func (r *implReassembler) WritePlaceholder(ctx context.Context, p media.Part, missing []int) error {
	nums := make([]string, len(missing))
	for i, n := range missing {
		nums[i] = strconv.Itoa(n)
	}

	body := fmt.Sprintf("Transcript for %s is incomplete.\nWaiting for part %s before part %d can be processed.\n",
		p.Base, strings.Join(nums, ", "), p.N)

	if err := transcript.Write(p.MasterTranscriptPath(), transcript.File{Body: body}); err != nil {
		return fmt.Errorf("write placeholder: %w", err)
	}
	r.logger.Info(ctx, "Part %d of %s waiting for parts %v", p.N, p.Base, missing)
	return nil
}

func (r *implReassembler) Complete(ctx context.Context, p media.Part) error {
	tf, err := transcript.Read(media.TranscriptPath(p.Path(p.N)))
	if err != nil {
		return err
	}

	rec := Record{
		Base:             p.Key(),
		N:                p.N,
		Path:             p.Path(p.N),
		ProcessedAt:      r.now(),
		TranscriptLength: transcript.BodyLineCount(tf.Body),
		Duration:         tf.Meta.Length,
	}
	if err := r.record(ctx, rec); err != nil {
		return err
	}

	if err := r.stitch(ctx, p); err != nil {
		return err
	}

	next := p.Path(p.N + 1)
	if _, err := os.Stat(next); err == nil {
		if _, err := r.queue.Append(next); err != nil {
			return fmt.Errorf("enqueue next part: %w", err)
		}
		r.logger.Info(ctx, "Queued next part: %s", next)
	}
	return nil
}

// stitch rewrites the master transcript from the contiguous prefix of
// processed parts, shifting each part by the lengths of the parts before it.
func (r *implReassembler) stitch(ctx context.Context, p media.Part) error {
	recs, err := r.Records(ctx, p)
	if err != nil {
		return err
	}

	var (
		segs   []transcript.Segment
		offset time.Duration
		source string
		count  int
	)
	for i, rec := range recs {
		if rec.N != i+1 {
			break
		}
		tf, err := transcript.Read(media.TranscriptPath(rec.Path))
		if err != nil {
			return err
		}
		segs = append(segs, transcript.Shift(transcript.Segments(tf.Body), offset)...)
		if tf.Meta.Source != "" {
			source = tf.Meta.Source
		}

		d, err := timeutil.ParseClock(tf.Meta.Length)
		if err != nil {
			r.logger.Warn(ctx, "Part %d of %s has no usable length, later parts may be misaligned", rec.N, p.Base)
		}
		offset += d
		count++
	}
	if count == 0 {
		return nil
	}

	master := transcript.File{
		Meta: transcript.Meta{
			Length: timeutil.FormatClock(offset.Seconds()),
			Source: source,
		},
		Body: transcript.FormatSegments(segs),
	}
	if err := transcript.Write(p.MasterTranscriptPath(), master); err != nil {
		return fmt.Errorf("write master transcript: %w", err)
	}

	r.logger.Info(ctx, "Master transcript %s stitched from %d parts", p.MasterTranscriptPath(), count)
	return nil
}
