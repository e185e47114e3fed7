package media

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsVideo(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/v/movie.mkv", true},
		{"/v/MOVIE.MP4", true},
		{"/v/clip.m4v", true},
		{"/v/movie.txt", false},
		{"/v/movie", false},
		{"/v/movie.mkv.part", false},
	}

	for _, tt := range tests {
		if got := IsVideo(tt.path); got != tt.want {
			t.Errorf("IsVideo(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestSiblingPaths(t *testing.T) {
	video := "/videos/show/movie.mkv"

	if got := TranscriptPath(video); got != "/videos/show/movie.txt" {
		t.Errorf("TranscriptPath() = %q", got)
	}
	if got := AudioTempPath(video); got != "/videos/show/movie.mp3" {
		t.Errorf("AudioTempPath() = %q", got)
	}
	if got := VTTPath(AudioTempPath(video)); got != "/videos/show/movie.mp3.vtt" {
		t.Errorf("VTTPath() = %q", got)
	}
	if got := Stem(video); got != "movie" {
		t.Errorf("Stem() = %q", got)
	}
}

func TestParsePart(t *testing.T) {
	tests := []struct {
		path   string
		ok     bool
		base   string
		n      int
		master string
	}{
		{"/v/show.part2.mp4", true, "show", 2, "/v/show.txt"},
		{"/v/my.show.part10.mkv", true, "my.show", 10, "/v/my.show.txt"},
		{"/v/show.part0.mp4", false, "", 0, ""},
		{"/v/show.mp4", false, "", 0, ""},
		{"/v/show.part2.txt", false, "", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			p, ok := ParsePart(tt.path)
			if ok != tt.ok {
				t.Fatalf("ParsePart() ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if p.Base != tt.base || p.N != tt.n {
				t.Errorf("ParsePart() = %+v, want base %q n %d", p, tt.base, tt.n)
			}
			if got := p.MasterTranscriptPath(); got != tt.master {
				t.Errorf("MasterTranscriptPath() = %q, want %q", got, tt.master)
			}
		})
	}

	p, _ := ParsePart("/v/show.part2.mp4")
	if got := p.Path(3); got != "/v/show.part3.mp4" {
		t.Errorf("Path(3) = %q", got)
	}
}

func TestHasTranscript(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "a.mp4")

	if HasTranscript(video) {
		t.Fatal("HasTranscript() = true before the file exists")
	}
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), nil, 0644); err != nil {
		t.Fatal(err)
	}
	if !HasTranscript(video) {
		t.Error("HasTranscript() = false after writing the transcript")
	}
}

func TestScan(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"b.mkv", "a.mp4", "notes.txt", "sub/c.webm", "sub/deeper/d.MOV"} {
		p := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, nil, 0644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := Scan(root)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	want := []string{
		filepath.Join(root, "a.mp4"),
		filepath.Join(root, "b.mkv"),
		filepath.Join(root, "sub", "c.webm"),
		filepath.Join(root, "sub", "deeper", "d.MOV"),
	}
	if len(got) != len(want) {
		t.Fatalf("Scan() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Scan()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if _, err := Scan(filepath.Join(root, "missing")); err == nil {
		t.Error("Scan() on a missing root should fail")
	}
}
