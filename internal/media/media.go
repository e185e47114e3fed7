// Package media holds the file naming rules shared by the watcher, the
// processor, the catalog and search.
package media

import (
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// TranscriptExt is the extension of every transcript file.
const TranscriptExt = ".txt"

var videoExts = map[string]bool{
	".mp4":  true,
	".avi":  true,
	".mov":  true,
	".mkv":  true,
	".wmv":  true,
	".flv":  true,
	".webm": true,
	".m4v":  true,
}

var partPattern = regexp.MustCompile(`^(.+)\.part(\d+)\.(mp4|avi|mov|mkv|wmv|flv|webm|m4v)$`)

// IsVideo reports whether path has a recognised video extension.
// The comparison is case-insensitive.
func IsVideo(path string) bool {
	return videoExts[strings.ToLower(filepath.Ext(path))]
}

// Extensions returns the recognised video extensions without the dot.
func Extensions() []string {
	return []string{"mp4", "avi", "mov", "mkv", "wmv", "flv", "webm", "m4v"}
}

// Stem returns the file name of path without directory and extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// TranscriptPath returns the sibling transcript path for a video.
func TranscriptPath(videoPath string) string {
	return strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + TranscriptExt
}

// AudioTempPath returns the temporary audio path used during speech-to-text.
func AudioTempPath(videoPath string) string {
	return strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + ".mp3"
}

// VTTPath returns where whisper-cli writes its output for an audio file.
func VTTPath(audioPath string) string {
	return audioPath + ".vtt"
}

// SubtitleTempPath returns the temporary SRT used during subtitle extraction.
func SubtitleTempPath(videoPath string) string {
	return strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + ".atci.srt"
}

// HasTranscript reports whether the video's sibling transcript exists.
func HasTranscript(videoPath string) bool {
	_, err := os.Stat(TranscriptPath(videoPath))
	return err == nil
}

// Part describes a video whose name matches <base>.part<N>.<ext>.
type Part struct {
	Dir  string
	Base string
	N    int
	Ext  string
}

// ParsePart reports whether path names a part of a multi-part video.
func ParsePart(path string) (Part, bool) {
	m := partPattern.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return Part{}, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil || n < 1 {
		return Part{}, false
	}
	return Part{
		Dir:  filepath.Dir(path),
		Base: m[1],
		N:    n,
		Ext:  m[3],
	}, true
}

// Path returns the path of part n in the same sequence.
func (p Part) Path(n int) string {
	return filepath.Join(p.Dir, p.Base+".part"+strconv.Itoa(n)+"."+p.Ext)
}

// Key identifies the sequence independent of the part number.
func (p Part) Key() string {
	return filepath.Join(p.Dir, p.Base)
}

// MasterVideoPath returns <base>.<ext>.
func (p Part) MasterVideoPath() string {
	return filepath.Join(p.Dir, p.Base+"."+p.Ext)
}

// MasterTranscriptPath returns <base>.txt.
func (p Part) MasterTranscriptPath() string {
	return filepath.Join(p.Dir, p.Base+TranscriptExt)
}

// Scan walks root and returns every recognised video, sorted by path.
// Unreadable entries are skipped.
func Scan(root string) ([]string, error) {
	var videos []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if d.Type().IsRegular() && IsVideo(path) {
			videos = append(videos, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(videos)
	return videos, nil
}
