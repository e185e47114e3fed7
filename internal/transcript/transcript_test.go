package transcript

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		wantMeta Meta
		wantBody string
	}{
		{
			name:     "empty",
			data:     "",
			wantMeta: Meta{},
			wantBody: "",
		},
		{
			name:     "block and body",
			data:     "length: 00:01:00\nsource: subtitles\n>>>.atcimetaend\n\n00:00:01.000 --> 00:00:02.500\nHello world\n",
			wantMeta: Meta{Length: "00:01:00", Source: "subtitles"},
			wantBody: "\n00:00:01.000 --> 00:00:02.500\nHello world\n",
		},
		{
			name:     "sentinel only",
			data:     ">>>.atcimetaend\n",
			wantMeta: Meta{},
			wantBody: "",
		},
		{
			name:     "no sentinel with leading meta",
			data:     "source: base.en\n\n00:00:00.000 --> 00:00:01.000\nhi\n",
			wantMeta: Meta{Source: "base.en"},
			wantBody: "\n00:00:00.000 --> 00:00:01.000\nhi\n",
		},
		{
			name:     "no sentinel raw body",
			data:     "\n00:00:00.000 --> 00:00:01.000\nhi\n",
			wantMeta: Meta{},
			wantBody: "\n00:00:00.000 --> 00:00:01.000\nhi\n",
		},
		{
			name:     "unknown key above sentinel moves to body",
			data:     "speaker: bob\nlength: 00:00:05\n>>>.atcimetaend\nbody\n",
			wantMeta: Meta{Length: "00:00:05"},
			wantBody: "speaker: bob\nbody\n",
		},
		{
			name:     "crlf",
			data:     "source: subtitles\r\n>>>.atcimetaend\r\nline\r\n",
			wantMeta: Meta{Source: "subtitles"},
			wantBody: "line\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Parse(tt.data)
			if f.Meta != tt.wantMeta {
				t.Errorf("Parse() meta = %+v, want %+v", f.Meta, tt.wantMeta)
			}
			if f.Body != tt.wantBody {
				t.Errorf("Parse() body = %q, want %q", f.Body, tt.wantBody)
			}
		})
	}
}

func TestFormatCanonicalOrder(t *testing.T) {
	f := File{Meta: Meta{Source: "subtitles", Length: "00:00:03"}, Body: "\nx\n"}
	want := "length: 00:00:03\nsource: subtitles\n>>>.atcimetaend\n\nx\n"
	if got := f.Format(); got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestSetMetaSubtitleHappyPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movie.txt")
	body := FromSRT("1\n00:00:01,000 --> 00:00:02,500\nHello world\n")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	if err := SetMeta(path, KeySource, SourceSubtitles); err != nil {
		t.Fatalf("SetMeta(source) error = %v", err)
	}
	if err := SetMeta(path, KeyLength, "00:01:40"); err != nil {
		t.Fatalf("SetMeta(length) error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "length: 00:01:40\nsource: subtitles\n>>>.atcimetaend\n\n00:00:01.000 --> 00:00:02.500\nHello world\n"
	if string(data) != want {
		t.Errorf("transcript = %q, want %q", data, want)
	}
}

func TestSetMetaIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")

	for i := 0; i < 3; i++ {
		if err := SetMeta(path, KeyLength, "00:00:10"); err != nil {
			t.Fatalf("SetMeta() error = %v", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := "length: 00:00:10\n>>>.atcimetaend\n"; string(data) != want {
		t.Errorf("transcript = %q, want %q", data, want)
	}

	f := Parse(string(data))
	if n := BodyLineCount(f.Body); n != 0 {
		t.Errorf("BodyLineCount() = %d, want 0", n)
	}
}

func TestSetMetaRejectsUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.txt")
	err := SetMeta(path, "speaker", "bob")
	if !errors.Is(err, ErrUnknownKey) {
		t.Errorf("SetMeta() error = %v, want ErrUnknownKey", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("SetMeta() created a file for a rejected key")
	}
}

func TestBodyLineCount(t *testing.T) {
	body := "\n00:00:01.000 --> 00:00:02.000\nHello\n\n00:00:03.000 --> 00:00:04.000\nWorld\n"
	if n := BodyLineCount(body); n != 4 {
		t.Errorf("BodyLineCount() = %d, want 4", n)
	}
}

func TestBodyStartLine(t *testing.T) {
	tests := []struct {
		data string
		want int
	}{
		{"length: 00:00:01\nsource: x\n>>>.atcimetaend\n\nbody", 4},
		{">>>.atcimetaend\nbody", 2},
		{"source: x\nbody", 2},
		{"body", 1},
	}
	for _, tt := range tests {
		if got := BodyStartLine(tt.data); got != tt.want {
			t.Errorf("BodyStartLine(%q) = %d, want %d", tt.data, got, tt.want)
		}
	}
}
