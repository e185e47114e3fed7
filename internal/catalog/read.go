package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

var sortColumns = map[string]string{
	"base_name":      "base_name",
	"created_at":     "created_at",
	"last_generated": "last_generated",
	"line_count":     "line_count",
	"length":         "length",
	"source":         "source",
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (Entry, error) {
	var e Entry
	err := s.Scan(&e.Name, &e.BaseName, &e.CreatedAt, &e.LineCount, &e.FullPath,
		&e.Transcript, &e.LastGenerated, &e.Length, &e.Source)
	return e, err
}

// whereFilter builds the OR-ed LIKE clause for terms.
func whereFilter(terms []string) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	for _, t := range terms {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		clauses = append(clauses, `LOWER(full_path) LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(strings.ToLower(t))+"%")
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " OR "), args
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func (c *implCatalog) List(ctx context.Context, q Query) (Page, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	col, ok := sortColumns[q.SortBy]
	if !ok {
		col = "base_name"
	}
	dir := "DESC"
	if q.Ascending {
		dir = "ASC"
	}

	where, args := whereFilter(q.Filter)

	var total int
	if err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM video_info"+where, args...).Scan(&total); err != nil {
		return Page{}, fmt.Errorf("catalog count: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM video_info%s ORDER BY %s %s, full_path ASC LIMIT ? OFFSET ?", columns, where, col, dir)
	rows, err := c.db.QueryContext(ctx, query, append(args, limit, (page-1)*limit)...)
	if err != nil {
		return Page{}, fmt.Errorf("catalog list: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return Page{}, fmt.Errorf("catalog list scan: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return Page{}, fmt.Errorf("catalog list: %w", err)
	}

	return Page{
		Entries:      entries,
		Page:         page,
		TotalPages:   (total + limit - 1) / limit,
		TotalRecords: total,
	}, nil
}

func (c *implCatalog) Sources(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := c.db.QueryContext(ctx, "SELECT DISTINCT source FROM video_info WHERE source != '' ORDER BY source")
	if err != nil {
		return nil, fmt.Errorf("catalog sources: %w", err)
	}
	defer rows.Close()

	sources := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("catalog sources scan: %w", err)
		}
		sources = append(sources, s)
	}
	return sources, rows.Err()
}

func (c *implCatalog) Get(ctx context.Context, fullPath string) (Entry, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	e, err := scanEntry(c.stmtGet.QueryRowContext(ctx, fullPath))
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("catalog get: %w", err)
	}
	return e, true, nil
}
