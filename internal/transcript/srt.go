package transcript

import (
	"regexp"
	"strings"

	"github.com/nguyentantai21042004/atci/internal/timeutil"
)

var cuePattern = regexp.MustCompile(`^\s*(\d{1,3}:\d{2}:\d{2}[,.]\d{3})\s*-->\s*(\d{1,3}:\d{2}:\d{2}[,.]\d{3})`)

// FromSRT converts SRT content to a transcript body. Blocks without text or
// without a parseable cue line are dropped. The result starts with a blank
// line that reserves room for the metadata block; no blocks yields "".
func FromSRT(srt string) string {
	srt = strings.ReplaceAll(srt, "\r\n", "\n")
	srt = strings.TrimPrefix(srt, "\ufeff")

	var blocks []string
	for _, raw := range splitBlocks(srt) {
		if block, ok := convertSRTBlock(raw); ok {
			blocks = append(blocks, block)
		}
	}
	if len(blocks) == 0 {
		return ""
	}
	return "\n" + strings.Join(blocks, "\n\n") + "\n"
}

func splitBlocks(s string) [][]string {
	var (
		blocks  [][]string
		current []string
	)
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) == "" {
			if len(current) > 0 {
				blocks = append(blocks, current)
				current = nil
			}
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		blocks = append(blocks, current)
	}
	return blocks
}

func convertSRTBlock(lines []string) (string, bool) {
	cueAt := -1
	for i, line := range lines {
		if strings.Contains(line, "-->") {
			cueAt = i
			break
		}
	}
	if cueAt < 0 {
		return "", false
	}

	start, end, ok := parseCue(lines[cueAt])
	if !ok {
		return "", false
	}

	var text []string
	for _, line := range lines[cueAt+1:] {
		if t := strings.TrimSpace(line); t != "" {
			text = append(text, t)
		}
	}
	if len(text) == 0 {
		return "", false
	}

	return start + " --> " + end + "\n" + strings.Join(text, " "), true
}

func parseCue(line string) (string, string, bool) {
	m := cuePattern.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	start, err := timeutil.ParseTimestamp(m[1])
	if err != nil {
		return "", "", false
	}
	end, err := timeutil.ParseTimestamp(m[2])
	if err != nil {
		return "", "", false
	}
	return timeutil.FormatTimestamp(start), timeutil.FormatTimestamp(end), true
}

// StripVTTHeader drops the first line of whisper-cli VTT output.
func StripVTTHeader(vtt string) string {
	_, rest, found := strings.Cut(vtt, "\n")
	if !found {
		return ""
	}
	return rest
}
