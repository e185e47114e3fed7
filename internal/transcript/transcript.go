// Package transcript reads and writes transcript files: an optional block of
// "key: value" lines, the sentinel line, then the timestamped body.
package transcript

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// Sentinel separates the metadata block from the body.
const Sentinel = ">>>.atcimetaend"

const (
	KeyLength = "length"
	KeySource = "source"
)

// SourceSubtitles is the source tag for transcripts built from an embedded
// subtitle stream.
const SourceSubtitles = "subtitles"

// ErrUnknownKey is returned when writing a metadata key other than length or
// source.
var ErrUnknownKey = errors.New("unknown metadata key")

var recognisedKeys = []string{KeyLength, KeySource}

// Meta is the parsed metadata block.
type Meta struct {
	Length string
	Source string
}

// File is a parsed transcript.
type File struct {
	Meta Meta
	Body string
}

func isRecognised(key string) bool {
	for _, k := range recognisedKeys {
		if k == key {
			return true
		}
	}
	return false
}

// parseMetaLine splits "key: value" when key is recognised.
func parseMetaLine(line string) (string, string, bool) {
	key, value, ok := strings.Cut(line, ":")
	if !ok {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	if !isRecognised(key) {
		return "", "", false
	}
	return key, strings.TrimSpace(value), true
}

func (m *Meta) set(key, value string) {
	switch key {
	case KeyLength:
		m.Length = value
	case KeySource:
		m.Source = value
	}
}

// Get returns the value stored for key.
func (m Meta) Get(key string) string {
	switch key {
	case KeyLength:
		return m.Length
	case KeySource:
		return m.Source
	}
	return ""
}

// Parse splits data into metadata and body. Without a sentinel the leading
// recognised metadata lines form the block. Lines above the sentinel that are
// neither blank nor recognised metadata move to the start of the body.
func Parse(data string) File {
	data = strings.ReplaceAll(data, "\r\n", "\n")

	var f File
	idx := sentinelIndex(data)
	if idx < 0 {
		rest := data
		for rest != "" {
			line, tail, _ := strings.Cut(rest, "\n")
			key, value, ok := parseMetaLine(line)
			if !ok {
				break
			}
			f.Meta.set(key, value)
			rest = tail
		}
		f.Body = rest
		return f
	}

	head := data[:idx]
	body := data[idx+len(Sentinel):]
	body = strings.TrimPrefix(body, "\n")

	var stray []string
	for _, line := range strings.Split(head, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if key, value, ok := parseMetaLine(line); ok {
			f.Meta.set(key, value)
			continue
		}
		stray = append(stray, line)
	}
	if len(stray) > 0 {
		body = strings.Join(stray, "\n") + "\n" + body
	}
	f.Body = body
	return f
}

// sentinelIndex returns the byte offset of the sentinel when it occupies a
// whole line, or -1.
func sentinelIndex(data string) int {
	offset := 0
	for {
		i := strings.Index(data[offset:], Sentinel)
		if i < 0 {
			return -1
		}
		start := offset + i
		end := start + len(Sentinel)
		atLineStart := start == 0 || data[start-1] == '\n'
		atLineEnd := end == len(data) || data[end] == '\n'
		if atLineStart && atLineEnd {
			return start
		}
		offset = end
	}
}

// Format renders f with keys in canonical order and exactly one sentinel.
func (f File) Format() string {
	var b strings.Builder
	for _, key := range recognisedKeys {
		if v := f.Meta.Get(key); v != "" {
			fmt.Fprintf(&b, "%s: %s\n", key, v)
		}
	}
	b.WriteString(Sentinel)
	b.WriteByte('\n')
	b.WriteString(f.Body)
	return b.String()
}

// Read loads and parses the transcript at path. A missing file reads as an
// empty transcript.
func Read(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return File{}, nil
		}
		return File{}, fmt.Errorf("read transcript: %w", err)
	}
	return Parse(string(data)), nil
}

// Write renders f to path.
func Write(path string, f File) error {
	if err := os.WriteFile(path, []byte(f.Format()), 0644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	return nil
}

// SetMeta replaces or inserts key in the transcript at path, keeping the body
// unchanged.
func SetMeta(path, key, value string) error {
	if !isRecognised(key) {
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	f, err := Read(path)
	if err != nil {
		return err
	}
	f.Meta.set(key, value)
	return Write(path, f)
}

// ReadMeta returns only the metadata block of the transcript at path.
func ReadMeta(path string) (Meta, error) {
	f, err := Read(path)
	if err != nil {
		return Meta{}, err
	}
	return f.Meta, nil
}

// BodyLineCount counts non-blank body lines.
func BodyLineCount(body string) int {
	n := 0
	for _, line := range strings.Split(body, "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}

// BodyStartLine returns the 1-based line number of the first body line in
// data, so callers that scan the raw file can skip the metadata block.
func BodyStartLine(data string) int {
	data = strings.ReplaceAll(data, "\r\n", "\n")
	idx := sentinelIndex(data)
	if idx < 0 {
		n := 1
		rest := data
		for rest != "" {
			line, tail, _ := strings.Cut(rest, "\n")
			if _, _, ok := parseMetaLine(line); !ok {
				break
			}
			n++
			rest = tail
		}
		return n
	}
	return strings.Count(data[:idx], "\n") + 2
}
