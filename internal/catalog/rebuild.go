package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nguyentantai21042004/atci/internal/media"
	"github.com/nguyentantai21042004/atci/internal/transcript"
)

// Describe builds the row for one video from disk.
func Describe(root, videoPath string) (Entry, error) {
	info, err := os.Stat(videoPath)
	if err != nil {
		return Entry{}, fmt.Errorf("stat video: %w", err)
	}

	name, err := filepath.Rel(root, videoPath)
	if err != nil {
		name = filepath.Base(videoPath)
	}

	e := Entry{
		Name:      filepath.ToSlash(name),
		BaseName:  media.Stem(videoPath),
		CreatedAt: createdAt(videoPath, info).UTC().Format(time.RFC3339),
		FullPath:  videoPath,
	}

	tpath := media.TranscriptPath(videoPath)
	tinfo, err := os.Stat(tpath)
	if err != nil {
		return e, nil
	}
	data, err := os.ReadFile(tpath)
	if err != nil {
		return Entry{}, fmt.Errorf("read transcript: %w", err)
	}

	f := transcript.Parse(string(data))
	e.Transcript = true
	e.LastGenerated = tinfo.ModTime().UTC().Format(time.RFC3339)
	e.LineCount = transcript.BodyLineCount(f.Body)
	e.Length = f.Meta.Length
	e.Source = f.Meta.Source
	return e, nil
}

// scanRoots lists every video under roots, one goroutine per root.
func (c *implCatalog) scanRoots(ctx context.Context, roots []string) ([][2]string, error) {
	found := make([][]string, len(roots))
	g, _ := errgroup.WithContext(ctx)
	for i, root := range roots {
		g.Go(func() error {
			videos, err := media.Scan(root)
			if err != nil {
				c.logger.Warn(ctx, "Skipping watch root %s: %v", root, err)
				return nil
			}
			found[i] = videos
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out [][2]string
	for i, videos := range found {
		for _, v := range videos {
			out = append(out, [2]string{roots[i], v})
		}
	}
	return out, nil
}

func (c *implCatalog) Rebuild(ctx context.Context, roots []string) (int, error) {
	started := time.Now()

	files, err := c.scanRoots(ctx, roots)
	if err != nil {
		return 0, fmt.Errorf("scan roots: %w", err)
	}

	entries := make([]*Entry, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			e, err := Describe(f[0], f[1])
			if err != nil {
				c.logger.Debug(gctx, "Skipping %s: %v", f[1], err)
				return nil
			}
			entries[i] = &e
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, fmt.Errorf("describe videos: %w", err)
	}

	n, err := c.replaceAll(ctx, entries)
	if err != nil {
		return 0, err
	}

	c.logger.Info(ctx, "Catalog rebuilt: %d videos from %d roots in %s", n, len(roots), time.Since(started).Round(time.Millisecond))
	return n, nil
}

func (c *implCatalog) replaceAll(ctx context.Context, entries []*Entry) (int, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin rebuild: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM video_info"); err != nil {
		return 0, fmt.Errorf("clear video_info: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT OR REPLACE INTO video_info ("+columns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	n := 0
	for _, e := range entries {
		if e == nil {
			continue
		}
		if _, err := stmt.ExecContext(ctx,
			e.Name, e.BaseName, e.CreatedAt, e.LineCount, e.FullPath,
			e.Transcript, e.LastGenerated, e.Length, e.Source,
		); err != nil {
			return 0, fmt.Errorf("insert %s: %w", e.FullPath, err)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit rebuild: %w", err)
	}
	return n, nil
}
