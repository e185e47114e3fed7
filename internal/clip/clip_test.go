package clip

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestAudioArgs(t *testing.T) {
	tests := []struct {
		source string
		layout string
		want   []string
	}{
		{"a.mp4", "5.1", []string{"-c:a", "copy"}},
		{"a.m4v", "stereo", []string{"-c:a", "copy"}},
		{"a.mkv", "stereo", []string{"-c:a", "aac"}},
		{"a.MKV", "mono", []string{"-c:a", "aac"}},
		{"a.webm", "5.1", []string{"-c:a", "aac", "-af", Filter51}},
		{"a.avi", "5.1(side)", []string{"-c:a", "aac", "-af", Filter51Side}},
		{"a.mov", "7.1", []string{"-c:a", "aac", "-af", Filter71}},
		{"a.mov", "7.1(wide)", []string{"-c:a", "aac", "-af", Filter71}},
		{"a.mov", "7.1(wide-side)", []string{"-c:a", "aac", "-af", Filter71}},
		{"a.mkv", "quad", []string{"-c:a", "aac", "-af", FilterStereo}},
		{"a.mkv", "6.1", []string{"-c:a", "aac", "-af", FilterStereo}},
	}

	for _, tt := range tests {
		t.Run(tt.source+"/"+tt.layout, func(t *testing.T) {
			if got := AudioArgs(tt.source, tt.layout); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("AudioArgs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterStrings(t *testing.T) {
	if FilterStereo != "pan=stereo|FL=0.5*FL+0.707*FC+0.5*BL+0.5*SL|FR=0.5*FR+0.707*FC+0.5*BR+0.5*SR" {
		t.Errorf("stereo downmix changed: %s", FilterStereo)
	}
	if !strings.Contains(Filter51Side, "SL-BL|SR-BR") {
		t.Errorf("5.1(side) map = %s", Filter51Side)
	}
}

func TestClipArgs(t *testing.T) {
	c := Clip{Source: "/v/show.mkv", Start: 90 * time.Second, End: 95*time.Second + 500*time.Millisecond, Layout: "5.1"}
	got := c.Args("/tmp/out.mp4")
	want := []string{
		"-y", "-ss", "00:01:30.000", "-i", "/v/show.mkv", "-t", "00:00:05.500",
		"-map", "0:v:0", "-map", "0:a:0?", "-c:v", "libx264", "-preset", "veryfast",
		"-c:a", "aac", "-af", Filter51,
		"-movflags", "+faststart", "/tmp/out.mp4",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Args() = %v, want %v", got, want)
	}
}

func TestClipName(t *testing.T) {
	a := Clip{Source: "/v/show.mkv", Start: time.Second, End: 2 * time.Second, Layout: "stereo"}
	b := a
	b.Layout = "5.1"

	if a.Name() != a.Name() {
		t.Error("Name() is not stable")
	}
	if a.Name() == b.Name() {
		t.Error("Name() ignores the audio parameters")
	}
	if !strings.HasPrefix(a.Name(), "show.") || !strings.HasSuffix(a.Name(), ".mp4") {
		t.Errorf("Name() = %q", a.Name())
	}
}

func TestClipValidate(t *testing.T) {
	if err := (Clip{Start: 2 * time.Second, End: time.Second}).Validate(); err == nil {
		t.Error("Validate() accepted an inverted range")
	}
	if err := (Clip{Start: -time.Second, End: time.Second}).Validate(); err == nil {
		t.Error("Validate() accepted a negative start")
	}
	if err := (Clip{End: time.Second}).Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestFrameArgs(t *testing.T) {
	tests := []struct {
		name string
		at   time.Duration
		fps  float64
		ts   string
	}{
		{"on grid", 1500 * time.Millisecond, 30, "00:00:01.500"},
		{"snapped down", 1010 * time.Millisecond, 25, "00:00:01.000"},
		{"default rate", 1020 * time.Millisecond, 0, "00:00:01.000"},
		{"ntsc", 10 * time.Second, 30000.0 / 1001.0, "00:00:09.977"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FrameArgs("/v/a.mp4", tt.at, tt.fps, "/tmp/f.jpg")
			want := []string{"-y", "-ss", tt.ts, "-i", "/v/a.mp4", "-frames:v", "1", "-q:v", "2", "/tmp/f.jpg"}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("FrameArgs() = %v, want %v", got, want)
			}
		})
	}
}

func TestSegmentArgs(t *testing.T) {
	got := SegmentArgs("rtmp://live/x", 0, "/rec/capture_%05d.ts")
	want := []string{
		"-y", "-i", "rtmp://live/x", "-c", "copy",
		"-f", "segment", "-segment_time", "600", "-segment_format", "mpegts",
		"-reset_timestamps", "1", "/rec/capture_%05d.ts",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SegmentArgs() = %v, want %v", got, want)
	}
	if got := SegmentArgs("in", 30, "out"); got[8] != "30" {
		t.Errorf("segment_time = %s, want 30", got[8])
	}
}

type stubProber struct {
	layout string
	fps    float64
	probed bool
}

func (s *stubProber) Duration(ctx context.Context, path string) (string, error) { return "", nil }
func (s *stubProber) SubtitleStreams(ctx context.Context, path string) ([]int, error) {
	return nil, nil
}
func (s *stubProber) HasAudio(ctx context.Context, path string) (bool, error) { return true, nil }
func (s *stubProber) ChannelLayout(ctx context.Context, path string) string {
	s.probed = true
	return s.layout
}
func (s *stubProber) FrameRate(ctx context.Context, path string) float64 { return s.fps }

func TestBuilder(t *testing.T) {
	p := &stubProber{layout: "7.1", fps: 24}
	b := NewBuilder(p)

	c, err := b.Clip(context.Background(), "/v/a.mp4", 0, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if p.probed {
		t.Error("layout probed for a stream-copied container")
	}

	c, err = b.Clip(context.Background(), "/v/a.mov", 0, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if c.Layout != "7.1" {
		t.Errorf("Layout = %q, want 7.1", c.Layout)
	}

	if _, err := b.Clip(context.Background(), "/v/a.mov", time.Second, time.Second); err == nil {
		t.Error("Clip() accepted an empty range")
	}

	args := b.Frame(context.Background(), "/v/a.mov", 1030*time.Millisecond, "/tmp/f.jpg")
	if args[2] != "00:00:01.000" {
		t.Errorf("frame timestamp = %s, want 00:00:01.000", args[2])
	}
}
