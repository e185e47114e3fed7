// Package timeutil converts between durations and the clock strings used in
// transcripts, SRT files and transcoder arguments.
package timeutil

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"
)

var timestampPattern = regexp.MustCompile(`^(\d{1,3}):(\d{2}):(\d{2})[,.](\d{3})$`)

// FormatClock rounds seconds to the nearest whole second and formats it as
// HH:MM:SS.
//
//	FormatClock(0)       // "00:00:00"
//	FormatClock(3661.4)  // "01:01:01"
//	FormatClock(59.5)    // "00:01:00"
func FormatClock(seconds float64) string {
	total := int64(math.Round(seconds))
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// ParseClock parses HH:MM:SS into a duration.
func ParseClock(s string) (time.Duration, error) {
	var h, m, sec int
	if _, err := fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec); err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", s, err)
	}
	if m > 59 || sec > 59 || h < 0 || m < 0 || sec < 0 {
		return 0, fmt.Errorf("parse clock %q: out of range", s)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(sec)*time.Second, nil
}

// FormatTimestamp formats d as HH:MM:SS.mmm, the transcript cue form.
func FormatTimestamp(d time.Duration) string {
	return formatMillis(d, '.')
}

// FormatSRTTimestamp formats d as HH:MM:SS,mmm.
func FormatSRTTimestamp(d time.Duration) string {
	return formatMillis(d, ',')
}

func formatMillis(d time.Duration, sep byte) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	return fmt.Sprintf("%02d:%02d:%02d%c%03d", ms/3600000, (ms%3600000)/60000, (ms%60000)/1000, sep, ms%1000)
}

// ParseTimestamp accepts HH:MM:SS.mmm or HH:MM:SS,mmm.
func ParseTimestamp(s string) (time.Duration, error) {
	m := timestampPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("parse timestamp %q: bad format", s)
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	sec, _ := strconv.Atoi(m[3])
	ms, _ := strconv.Atoi(m[4])
	if min > 59 || sec > 59 {
		return 0, fmt.Errorf("parse timestamp %q: out of range", s)
	}
	return time.Duration(h)*time.Hour +
		time.Duration(min)*time.Minute +
		time.Duration(sec)*time.Second +
		time.Duration(ms)*time.Millisecond, nil
}
