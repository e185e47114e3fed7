package clip

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/nguyentantai21042004/atci/internal/media"
	"github.com/nguyentantai21042004/atci/internal/probe"
	"github.com/nguyentantai21042004/atci/internal/timeutil"
)

// DefaultSegmentSeconds is used when no chunk size is configured.
const DefaultSegmentSeconds = 600

// Clip describes a cut of Source between Start and End.
type Clip struct {
	Source string
	Start  time.Duration
	End    time.Duration
	// Layout is the channel layout of the first audio stream.
	Layout string
}

// Args returns the ffmpeg arguments writing the clip to output.
func (c Clip) Args(output string) []string {
	args := []string{
		"-y",
		"-ss", timeutil.FormatTimestamp(c.Start),
		"-i", c.Source,
		"-t", timeutil.FormatTimestamp(c.End - c.Start),
		"-map", "0:v:0",
		"-map", "0:a:0?",
		"-c:v", "libx264",
		"-preset", "veryfast",
	}
	args = append(args, AudioArgs(c.Source, c.Layout)...)
	args = append(args, "-movflags", "+faststart", output)
	return args
}

// Name is the cache file name for the clip. It changes whenever the
// arguments would.
func (c Clip) Name() string {
	h := sha256.New()
	h.Write([]byte(c.Source))
	for _, a := range c.Args("") {
		h.Write([]byte{0})
		h.Write([]byte(a))
	}
	return fmt.Sprintf("%s.%s.mp4", media.Stem(filepath.Base(c.Source)), hex.EncodeToString(h.Sum(nil))[:16])
}

// Validate reports whether the time range is usable.
func (c Clip) Validate() error {
	if c.Start < 0 || c.End <= c.Start {
		return fmt.Errorf("invalid clip range %s-%s", timeutil.FormatTimestamp(c.Start), timeutil.FormatTimestamp(c.End))
	}
	return nil
}

// FrameArgs returns the ffmpeg arguments grabbing the frame at (or just
// before) at, snapped to the stream's frame grid.
func FrameArgs(source string, at time.Duration, fps float64, output string) []string {
	if fps <= 0 {
		fps = probe.DefaultFrameRate
	}
	frame := math.Floor(at.Seconds() * fps)
	snapped := time.Duration(frame / fps * float64(time.Second)).Round(time.Millisecond)

	return []string{
		"-y",
		"-ss", timeutil.FormatTimestamp(snapped),
		"-i", source,
		"-frames:v", "1",
		"-q:v", "2",
		output,
	}
}

// SegmentArgs returns the ffmpeg arguments recording input into MPEG-TS
// segments of chunkSeconds each. pattern is a printf-style output path such
// as "capture_%05d.ts".
func SegmentArgs(input string, chunkSeconds int, pattern string) []string {
	if chunkSeconds <= 0 {
		chunkSeconds = DefaultSegmentSeconds
	}
	return []string{
		"-y",
		"-i", input,
		"-c", "copy",
		"-f", "segment",
		"-segment_time", strconv.Itoa(chunkSeconds),
		"-segment_format", "mpegts",
		"-reset_timestamps", "1",
		pattern,
	}
}

// Builder fills in the probe-dependent parts of clip and frame commands.
type Builder struct {
	prober probe.Prober
}

// NewBuilder creates a Builder backed by p.
func NewBuilder(p probe.Prober) *Builder {
	return &Builder{prober: p}
}

// Clip probes source's channel layout and returns the described clip.
func (b *Builder) Clip(ctx context.Context, source string, start, end time.Duration) (Clip, error) {
	c := Clip{Source: source, Start: start, End: end}
	if err := c.Validate(); err != nil {
		return Clip{}, err
	}
	if reencodeContainers[strings.TrimPrefix(strings.ToLower(filepath.Ext(source)), ".")] {
		c.Layout = b.prober.ChannelLayout(ctx, source)
	}
	return c, nil
}

// Frame probes source's frame rate and returns the frame grab arguments.
func (b *Builder) Frame(ctx context.Context, source string, at time.Duration, output string) []string {
	return FrameArgs(source, at, b.prober.FrameRate(ctx, source), output)
}
