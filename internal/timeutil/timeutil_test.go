package timeutil

import (
	"testing"
	"time"
)

func TestFormatClock(t *testing.T) {
	tests := []struct {
		name     string
		seconds  float64
		expected string
	}{
		{"Zero", 0, "00:00:00"},
		{"Rounds down", 1.4, "00:00:01"},
		{"Rounds up", 59.5, "00:01:00"},
		{"One hour", 3600, "01:00:00"},
		{"Complex time", 3661.2, "01:01:01"},
		{"Past a day", 90000, "25:00:00"},
		{"Negative", -3, "00:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatClock(tt.seconds); got != tt.expected {
				t.Errorf("FormatClock(%.2f) = %s; want %s", tt.seconds, got, tt.expected)
			}
		})
	}
}

func TestParseClock(t *testing.T) {
	d, err := ParseClock("01:02:03")
	if err != nil {
		t.Fatalf("ParseClock() error = %v", err)
	}
	if want := time.Hour + 2*time.Minute + 3*time.Second; d != want {
		t.Errorf("ParseClock() = %v, want %v", d, want)
	}

	for _, bad := range []string{"", "abc", "00:61:00"} {
		if _, err := ParseClock(bad); err == nil {
			t.Errorf("ParseClock(%q) expected error", bad)
		}
	}
}

func TestTimestampRoundTrip(t *testing.T) {
	tests := []struct {
		srt  string
		cue  string
		want time.Duration
	}{
		{"00:00:01,000", "00:00:01.000", time.Second},
		{"00:00:02,500", "00:00:02.500", 2500 * time.Millisecond},
		{"01:23:45,678", "01:23:45.678", time.Hour + 23*time.Minute + 45*time.Second + 678*time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.srt, func(t *testing.T) {
			d, err := ParseTimestamp(tt.srt)
			if err != nil {
				t.Fatalf("ParseTimestamp() error = %v", err)
			}
			if d != tt.want {
				t.Errorf("ParseTimestamp() = %v, want %v", d, tt.want)
			}
			if got := FormatTimestamp(d); got != tt.cue {
				t.Errorf("FormatTimestamp() = %s, want %s", got, tt.cue)
			}
			back, err := ParseTimestamp(tt.cue)
			if err != nil {
				t.Fatalf("ParseTimestamp(cue) error = %v", err)
			}
			if got := FormatSRTTimestamp(back); got != tt.srt {
				t.Errorf("FormatSRTTimestamp() = %s, want %s", got, tt.srt)
			}
		})
	}
}

func TestParseTimestampRejects(t *testing.T) {
	for _, bad := range []string{"1:2:3", "00:00:01", "00:99:00,000", "00:00:01;000"} {
		if _, err := ParseTimestamp(bad); err == nil {
			t.Errorf("ParseTimestamp(%q) expected error", bad)
		}
	}
}
