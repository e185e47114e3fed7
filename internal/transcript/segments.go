package transcript

import (
	"strings"
	"time"

	"github.com/nguyentantai21042004/atci/internal/timeutil"
)

// Segment is one timestamped cue of a transcript body.
type Segment struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

// Segments extracts the well-formed cues of body. Blocks whose first line is
// not a cue are skipped.
func Segments(body string) []Segment {
	var out []Segment
	for _, block := range splitBlocks(strings.ReplaceAll(body, "\r\n", "\n")) {
		m := cuePattern.FindStringSubmatch(block[0])
		if m == nil {
			continue
		}
		start, err := timeutil.ParseTimestamp(m[1])
		if err != nil {
			continue
		}
		end, err := timeutil.ParseTimestamp(m[2])
		if err != nil {
			continue
		}
		var text []string
		for _, line := range block[1:] {
			if t := strings.TrimSpace(line); t != "" {
				text = append(text, t)
			}
		}
		out = append(out, Segment{Start: start, End: end, Text: strings.Join(text, " ")})
	}
	return out
}

// FormatSegments renders segments in body form: a leading blank line, then
// blocks separated by blank lines.
func FormatSegments(segs []Segment) string {
	if len(segs) == 0 {
		return ""
	}
	var b strings.Builder
	for _, s := range segs {
		b.WriteByte('\n')
		b.WriteString(timeutil.FormatTimestamp(s.Start))
		b.WriteString(" --> ")
		b.WriteString(timeutil.FormatTimestamp(s.End))
		b.WriteByte('\n')
		b.WriteString(s.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

// Shift moves every segment by offset.
func Shift(segs []Segment, offset time.Duration) []Segment {
	out := make([]Segment, len(segs))
	for i, s := range segs {
		out[i] = Segment{Start: s.Start + offset, End: s.End + offset, Text: s.Text}
	}
	return out
}
