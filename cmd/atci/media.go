package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nguyentantai21042004/atci/internal/clip"
	"github.com/nguyentantai21042004/atci/internal/media"
	"github.com/nguyentantai21042004/atci/internal/timeutil"
	"github.com/nguyentantai21042004/atci/pkg/executor"
)

func runClip(ctx context.Context, configPath string, args []string) error {
	fs := newFlagSet("clip")
	outDir := fs.String("o", filepath.Join(os.TempDir(), "atci-clips"), "output directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 3 {
		fs.Usage()
		return errors.New("need <video> <start> <end>")
	}

	start, err := parseTime(fs.Arg(1))
	if err != nil {
		return err
	}
	end, err := parseTime(fs.Arg(2))
	if err != nil {
		return err
	}
	source, err := filepath.Abs(fs.Arg(0))
	if err != nil {
		return err
	}

	a, err := load(configPath, os.Stderr)
	if err != nil {
		return err
	}
	if err := a.cfg.RequireTools(); err != nil {
		return err
	}

	c, err := clip.NewBuilder(a.prober()).Clip(ctx, source, start, end)
	if err != nil {
		return err
	}
	out := filepath.Join(*outDir, c.Name())
	if _, err := os.Stat(out); err == nil {
		fmt.Println(out)
		return nil
	}
	if err := os.MkdirAll(*outDir, 0755); err != nil {
		return err
	}

	if _, err := a.exec.Execute(ctx, a.cfg.FFmpegPath, c.Args(out)...); err != nil {
		return fmt.Errorf("cut clip: %w", err)
	}
	fmt.Println(out)
	return nil
}

func runFrame(ctx context.Context, configPath string, args []string) error {
	fs := newFlagSet("frame")
	out := fs.String("o", "", "output image (default <stem>.<time>.jpg next to the video)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return errors.New("need <video> <time>")
	}

	at, err := parseTime(fs.Arg(1))
	if err != nil {
		return err
	}
	source, err := filepath.Abs(fs.Arg(0))
	if err != nil {
		return err
	}
	if *out == "" {
		*out = filepath.Join(filepath.Dir(source), fmt.Sprintf("%s.%d.jpg", media.Stem(source), at.Milliseconds()))
	}

	a, err := load(configPath, os.Stderr)
	if err != nil {
		return err
	}
	if err := a.cfg.RequireTools(); err != nil {
		return err
	}

	frameArgs := clip.NewBuilder(a.prober()).Frame(ctx, source, at, *out)
	if _, err := a.exec.Execute(ctx, a.cfg.FFmpegPath, frameArgs...); err != nil {
		return fmt.Errorf("grab frame: %w", err)
	}
	fmt.Println(*out)
	return nil
}

// runRecord captures a live stream until interrupted or until `atci cancel`.
func runRecord(ctx context.Context, configPath string, args []string) error {
	fs := newFlagSet("record")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return errors.New("need <url> <dir>")
	}
	dir, err := filepath.Abs(fs.Arg(1))
	if err != nil {
		return err
	}

	a, err := load(configPath, os.Stderr)
	if err != nil {
		return err
	}
	if err := a.cfg.RequireTools(); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	pattern := filepath.Join(dir, fmt.Sprintf("capture_%s_%%05d.ts", time.Now().Format("20060102-150405")))
	segArgs := clip.SegmentArgs(fs.Arg(0), a.cfg.StreamChunkSize, pattern)

	a.log.Info(ctx, "Recording %s into %s (%d s segments)", fs.Arg(0), dir, a.cfg.StreamChunkSize)
	res, err := a.exec.Run(ctx, a.token, a.cfg.FFmpegPath, segArgs...)
	if errors.Is(err, executor.ErrCancelled) {
		if cerr := a.token.Consume(); cerr != nil {
			a.log.Warn(ctx, "Failed to consume cancel sentinel: %v", cerr)
		}
		a.log.Info(ctx, "Recording stopped")
		return nil
	}
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return executor.NewExitError(a.cfg.FFmpegPath, res)
	}
	return nil
}

// parseTime accepts HH:MM:SS.mmm, HH:MM:SS,mmm, HH:MM:SS or seconds.
func parseTime(s string) (time.Duration, error) {
	if d, err := timeutil.ParseTimestamp(s); err == nil {
		return d, nil
	}
	if d, err := timeutil.ParseClock(s); err == nil {
		return d, nil
	}
	if d, err := time.ParseDuration(s + "s"); err == nil && d >= 0 {
		return d, nil
	}
	return 0, fmt.Errorf("invalid time %q", s)
}
