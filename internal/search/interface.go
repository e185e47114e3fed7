package search

import (
	"context"

	"github.com/nguyentantai21042004/atci/internal/catalog"
)

// Searcher scans transcripts under the watch roots.
type Searcher interface {
	// Search returns every transcript line containing query, grouped by
	// video and sorted by video path. filter terms are OR-ed
	// case-insensitive substrings of the video path; empty means all.
	Search(ctx context.Context, query string, filter []string) ([]Result, error)
}

// Result groups the matches of one video.
type Result struct {
	VideoPath string  `json:"video_path"`
	Matches   []Match `json:"matches"`
}

// Match is one matching line.
type Match struct {
	Line      int           `json:"line"`
	Text      string        `json:"text"`
	Timestamp string        `json:"timestamp,omitempty"`
	Video     catalog.Entry `json:"video"`
}
