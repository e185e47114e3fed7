package catalog

import "context"

// Catalog is the derived view of every video under the watch roots. Disk is
// authoritative; Rebuild replaces the whole view.
type Catalog interface {
	// Rebuild rescans roots in parallel and replaces every row in one
	// transaction. It returns the number of rows written.
	Rebuild(ctx context.Context, roots []string) (int, error)
	// List returns one page of rows.
	List(ctx context.Context, q Query) (Page, error)
	// Sources returns the distinct non-empty source tags.
	Sources(ctx context.Context) ([]string, error)
	// Get returns the row for fullPath, ok=false when absent.
	Get(ctx context.Context, fullPath string) (Entry, bool, error)
}

// Entry is one video row.
type Entry struct {
	Name          string `json:"name"`
	BaseName      string `json:"base_name"`
	CreatedAt     string `json:"created_at"`
	LineCount     int    `json:"line_count"`
	FullPath      string `json:"full_path"`
	Transcript    bool   `json:"transcript"`
	LastGenerated string `json:"last_generated,omitempty"`
	Length        string `json:"length,omitempty"`
	Source        string `json:"source,omitempty"`
}

// Query selects a page of rows. Filter terms are OR-ed, each a
// case-insensitive substring of full_path.
type Query struct {
	Filter    []string
	Page      int
	Limit     int
	SortBy    string
	Ascending bool
}

// Page is one page of List results.
type Page struct {
	Entries      []Entry `json:"entries"`
	Page         int     `json:"page"`
	TotalPages   int     `json:"total_pages"`
	TotalRecords int     `json:"total_records"`
}
