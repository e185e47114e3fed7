package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/nguyentantai21042004/atci/internal/catalog"
	"github.com/nguyentantai21042004/atci/internal/config"
	"github.com/nguyentantai21042004/atci/internal/media"
	"github.com/nguyentantai21042004/atci/internal/search"
	"github.com/nguyentantai21042004/atci/internal/summarizer"
)

func runInit(ctx context.Context, configPath string, args []string) error {
	fs := newFlagSet("init")
	watch := fs.String("watch", "", "comma-separated absolute watch directories")
	ffmpeg := fs.String("ffmpeg", "", "absolute path of ffmpeg")
	ffprobe := fs.String("ffprobe", "", "absolute path of ffprobe")
	whisper := fs.String("whisper", "", "absolute path of whisper-cli")
	model := fs.String("model", config.DefaultModelName, "whisper model name")
	overwrite := fs.Bool("overwrite", false, "replace an existing file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if configPath == "" {
		p, err := config.Path()
		if err != nil {
			return err
		}
		configPath = p
	}
	if _, err := os.Stat(configPath); err == nil && !*overwrite {
		return fmt.Errorf("%s already exists (use -overwrite)", configPath)
	}

	cfg := &config.Config{
		FFmpegPath:       *ffmpeg,
		FFprobePath:      *ffprobe,
		WhisperCLIPath:   *whisper,
		ModelName:        *model,
		WatchDirectories: splitList(*watch),
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg, configPath); err != nil {
		return err
	}
	fmt.Println("Wrote", configPath)
	return nil
}

func runEnqueue(ctx context.Context, configPath string, args []string) error {
	a, err := load(configPath, os.Stderr)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return errors.New("no videos given")
	}

	for _, arg := range args {
		path, err := filepath.Abs(arg)
		if err != nil {
			return err
		}
		if !media.IsVideo(path) {
			return fmt.Errorf("%s: not a recognised video extension", arg)
		}
		added, err := a.queue.Append(path)
		if err != nil {
			return err
		}
		if added {
			fmt.Println("queued", path)
		} else {
			fmt.Println("already queued", path)
		}
	}
	return nil
}

func runStatus(ctx context.Context, configPath string, args []string) error {
	a, err := load(configPath, os.Stderr)
	if err != nil {
		return err
	}

	st, err := a.queue.Status()
	if err != nil {
		return err
	}
	if st.Processing {
		fmt.Printf("processing: %s (%ds)\n", st.Path, st.AgeSeconds())
	} else {
		fmt.Println("processing: idle")
	}

	paths, err := a.queue.Get()
	if err != nil {
		return err
	}
	fmt.Printf("queued: %d\n", len(paths))
	for i, p := range paths {
		fmt.Printf("%4d  %s\n", i+1, p)
	}
	return nil
}

func runCancel(ctx context.Context, configPath string, args []string) error {
	a, err := load(configPath, os.Stderr)
	if err != nil {
		return err
	}
	if err := a.queue.Cancel(); err != nil {
		return err
	}
	fmt.Println("cancel requested")
	return nil
}

func runBlock(ctx context.Context, configPath string, args []string) error {
	a, err := load(configPath, os.Stderr)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return errors.New("no videos given")
	}
	for _, arg := range args {
		path, err := filepath.Abs(arg)
		if err != nil {
			return err
		}
		if err := a.queue.Block(path); err != nil {
			return err
		}
		fmt.Println("blocked", path)
	}
	return nil
}

func runRebuild(ctx context.Context, configPath string, args []string) error {
	a, err := load(configPath, os.Stderr)
	if err != nil {
		return err
	}
	defer a.close()
	if err := a.openCatalog(ctx); err != nil {
		return err
	}

	n, err := a.catalog.Rebuild(ctx, a.cfg.WatchDirectories)
	if err != nil {
		return err
	}
	fmt.Printf("catalogued %d videos\n", n)
	return nil
}

func runList(ctx context.Context, configPath string, args []string) error {
	fs := newFlagSet("list")
	filter := fs.String("filter", "", "comma-separated path substrings")
	page := fs.Int("page", 1, "page number")
	limit := fs.Int("limit", catalog.DefaultLimit, "rows per page")
	sortBy := fs.String("sort", "base_name", "sort column")
	desc := fs.Bool("desc", false, "sort descending")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := load(configPath, os.Stderr)
	if err != nil {
		return err
	}
	defer a.close()
	if err := a.openCatalog(ctx); err != nil {
		return err
	}

	res, err := a.catalog.List(ctx, catalog.Query{
		Filter:    splitList(*filter),
		Page:      *page,
		Limit:     *limit,
		SortBy:    *sortBy,
		Ascending: !*desc,
	})
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tLENGTH\tSOURCE\tLINES\tCREATED")
	for _, e := range res.Entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", e.Name, dash(e.Length), dash(e.Source), e.LineCount, e.CreatedAt)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Printf("page %d/%d, %d videos\n", res.Page, res.TotalPages, res.TotalRecords)
	return nil
}

func runSearch(ctx context.Context, configPath string, args []string) error {
	fs := newFlagSet("search")
	filter := fs.String("filter", "", "comma-separated path substrings")
	if err := fs.Parse(args); err != nil {
		return err
	}
	query := strings.Join(fs.Args(), " ")
	if strings.TrimSpace(query) == "" {
		return errors.New("empty query")
	}

	a, err := load(configPath, os.Stderr)
	if err != nil {
		return err
	}
	defer a.close()
	if err := a.openCatalog(ctx); err != nil {
		a.log.Warn(ctx, "Catalog unavailable, searching without it: %v", err)
	}

	results, err := search.New(a.cfg.WatchDirectories, a.catalog, a.log).Search(ctx, query, splitList(*filter))
	if err != nil {
		return err
	}

	for _, r := range results {
		fmt.Println(r.VideoPath)
		for _, m := range r.Matches {
			if m.Timestamp != "" {
				fmt.Printf("  %d  [%s]  %s\n", m.Line, m.Timestamp, m.Text)
			} else {
				fmt.Printf("  %d  %s\n", m.Line, m.Text)
			}
		}
	}
	return nil
}

func runSummarize(ctx context.Context, configPath string, args []string) error {
	fs := newFlagSet("summarize")
	docx := fs.Bool("docx", false, "also export .docx files")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := load(configPath, os.Stderr)
	if err != nil {
		return err
	}

	s, err := summarizer.New(summarizer.Options{
		APIKeys:           a.cfg.Gemini.APIKeys,
		Model:             a.cfg.Gemini.Model,
		RequestsPerMinute: a.cfg.Gemini.RequestsPerMinute,
		Docx:              *docx,
	}, a.log)
	if err != nil {
		return err
	}

	if fs.NArg() > 0 {
		for _, arg := range fs.Args() {
			path, err := filepath.Abs(arg)
			if err != nil {
				return err
			}
			if err := s.Summarize(ctx, path); err != nil {
				return fmt.Errorf("%s: %w", arg, err)
			}
			fmt.Println("wrote", summarizer.SummaryPath(path))
		}
		return nil
	}

	report, err := s.SummarizeAll(ctx, a.cfg.WatchDirectories)
	if err != nil {
		return err
	}
	fmt.Printf("%d written, %d skipped, %d failed\n", report.Written, report.Skipped, report.Failed)
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
