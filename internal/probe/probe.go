package probe

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/atci/internal/timeutil"
)

// Stream is one row of the stream listing.
type Stream struct {
	Index     int
	CodecName string
	CodecType string
}

func (p *implProber) query(ctx context.Context, path string, args ...string) (string, error) {
	full := append([]string{"-v", "error"}, args...)
	full = append(full, "-of", "csv=p=0", path)

	out, err := p.exec.Execute(ctx, p.binary, full...)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrProbeFailed, path, err)
	}
	return out, nil
}

func (p *implProber) Duration(ctx context.Context, path string) (string, error) {
	out, err := p.query(ctx, path, "-show_entries", "format=duration")
	if err != nil {
		return "", err
	}

	raw := strings.TrimSpace(firstLine(out))
	secs, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return "", fmt.Errorf("%w: duration %q: %v", ErrProbeFailed, raw, err)
	}
	return timeutil.FormatClock(secs), nil
}

// streams lists every stream of path.
func (p *implProber) streams(ctx context.Context, path string) ([]Stream, error) {
	out, err := p.query(ctx, path, "-show_entries", "stream=index,codec_name,codec_type")
	if err != nil {
		return nil, err
	}
	return parseStreams(out)
}

func parseStreams(out string) ([]Stream, error) {
	var streams []Stream
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) < 2 {
			return nil, fmt.Errorf("%w: stream row %q", ErrProbeFailed, line)
		}
		idx, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("%w: stream index %q", ErrProbeFailed, fields[0])
		}
		s := Stream{Index: idx, CodecType: fields[len(fields)-1]}
		if len(fields) > 2 {
			s.CodecName = fields[1]
		}
		streams = append(streams, s)
	}
	return streams, nil
}

func (p *implProber) SubtitleStreams(ctx context.Context, path string) ([]int, error) {
	streams, err := p.streams(ctx, path)
	if err != nil {
		return nil, err
	}
	var out []int
	for _, s := range streams {
		if s.CodecType == "subtitle" {
			out = append(out, s.Index)
		}
	}
	return out, nil
}

func (p *implProber) HasAudio(ctx context.Context, path string) (bool, error) {
	streams, err := p.streams(ctx, path)
	if err != nil {
		return false, err
	}
	for _, s := range streams {
		if s.CodecType == "audio" {
			return true, nil
		}
	}
	return false, nil
}

func (p *implProber) ChannelLayout(ctx context.Context, path string) string {
	out, err := p.query(ctx, path, "-select_streams", "a:0", "-show_entries", "stream=channel_layout")
	if err != nil {
		p.logger.Debug(ctx, "Channel layout probe failed for %s: %v", path, err)
		return DefaultChannelLayout
	}
	layout := strings.ToLower(strings.TrimSpace(firstLine(out)))
	if layout == "" || layout == "unknown" {
		return DefaultChannelLayout
	}
	return layout
}

func (p *implProber) FrameRate(ctx context.Context, path string) float64 {
	out, err := p.query(ctx, path, "-select_streams", "v:0", "-show_entries", "stream=r_frame_rate")
	if err != nil {
		p.logger.Debug(ctx, "Frame rate probe failed for %s: %v", path, err)
		return DefaultFrameRate
	}
	rate, ok := parseFrameRate(strings.TrimSpace(firstLine(out)))
	if !ok {
		return DefaultFrameRate
	}
	return rate
}

// parseFrameRate accepts "num/den" and decimal forms.
func parseFrameRate(s string) (float64, bool) {
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err1 := strconv.ParseFloat(num, 64)
		d, err2 := strconv.ParseFloat(den, 64)
		if err1 != nil || err2 != nil || d == 0 || n <= 0 {
			return 0, false
		}
		return n / d, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f <= 0 {
		return 0, false
	}
	return f, true
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimLeft(s, "\r\n"), "\n")
	return strings.TrimRight(line, "\r,")
}
