package search

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/nguyentantai21042004/atci/internal/catalog"
	"github.com/nguyentantai21042004/atci/internal/media"
	"github.com/nguyentantai21042004/atci/internal/transcript"
)

type candidate struct {
	root  string
	video string
}

func (s *implSearcher) Search(ctx context.Context, query string, filter []string) ([]Result, error) {
	needle := Normalize(strings.TrimSpace(query))
	if needle == "" {
		return []Result{}, nil
	}

	var terms []string
	for _, f := range filter {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			terms = append(terms, f)
		}
	}

	candidates, err := s.candidates(ctx, terms)
	if err != nil {
		return nil, err
	}

	results := make([]*Result, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, c := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			matches, err := scanTranscript(media.TranscriptPath(c.video), needle)
			if err != nil {
				s.logger.Debug(gctx, "Skipping transcript of %s: %v", c.video, err)
				return nil
			}
			if len(matches) == 0 {
				return nil
			}
			entry := s.snapshot(gctx, c)
			for j := range matches {
				matches[j].Video = entry
			}
			results[i] = &Result{VideoPath: c.video, Matches: matches}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("search transcripts: %w", err)
	}

	out := []Result{}
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VideoPath < out[j].VideoPath })
	return out, nil
}

// candidates lists videos with a transcript whose path passes the filter,
// scanning the roots in parallel.
func (s *implSearcher) candidates(ctx context.Context, terms []string) ([]candidate, error) {
	found := make([][]candidate, len(s.roots))
	g, gctx := errgroup.WithContext(ctx)
	for i, root := range s.roots {
		g.Go(func() error {
			videos, err := media.Scan(root)
			if err != nil {
				s.logger.Warn(gctx, "Skipping watch root %s: %v", root, err)
				return nil
			}
			for _, v := range videos {
				if matchesFilter(v, terms) && media.HasTranscript(v) {
					found[i] = append(found[i], candidate{root: root, video: v})
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var out []candidate
	for _, group := range found {
		for _, c := range group {
			if !seen[c.video] {
				seen[c.video] = true
				out = append(out, c)
			}
		}
	}
	return out, nil
}

// scanTranscript returns matches of needle on every line of the transcript
// at path, metadata included. Line numbers count from the top of the file;
// only body lines carry the preceding cue timestamp.
func scanTranscript(path, needle string) ([]Match, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	lines := strings.Split(text, "\n")
	body := transcript.BodyStartLine(text) - 1

	var matches []Match
	for i := range lines {
		if !strings.Contains(Normalize(lines[i]), needle) {
			continue
		}
		m := Match{Line: i + 1, Text: lines[i]}
		if i > body && isTimestampLine(lines[i-1]) {
			m.Timestamp = lines[i-1]
		}
		matches = append(matches, m)
	}
	return matches, nil
}

func (s *implSearcher) snapshot(ctx context.Context, c candidate) catalog.Entry {
	if s.catalog != nil {
		if e, ok, err := s.catalog.Get(ctx, c.video); err == nil && ok {
			return e
		}
	}
	e, err := catalog.Describe(c.root, c.video)
	if err != nil {
		return catalog.Entry{FullPath: c.video, BaseName: media.Stem(c.video)}
	}
	return e
}
