package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/nguyentantai21042004/atci/internal/httpapi"
	"github.com/nguyentantai21042004/atci/internal/instance"
	"github.com/nguyentantai21042004/atci/internal/parts"
	"github.com/nguyentantai21042004/atci/internal/processor"
	"github.com/nguyentantai21042004/atci/internal/search"
	"github.com/nguyentantai21042004/atci/internal/telemetry"
	"github.com/nguyentantai21042004/atci/internal/transcriber"
	"github.com/nguyentantai21042004/atci/internal/watcher"
)

func runWatch(ctx context.Context, configPath string, args []string) error {
	fs := newFlagSet("watch")
	force := fs.Bool("force", false, "take over from a running instance")
	noHTTP := fs.Bool("no-http", false, "do not serve the HTTP API")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := load(configPath, os.Stdout)
	if err != nil {
		return err
	}
	defer a.close()
	log := a.log
	cfg := a.cfg

	if err := cfg.RequireTools(); err != nil {
		return err
	}

	lock := instance.New(a.layout.PIDDir(), a.configPath)
	if err := lock.Acquire(*force); err != nil {
		return err
	}
	defer lock.Release()

	log.Info(ctx, "========================================")
	log.Info(ctx, "atci transcription pipeline")
	log.Info(ctx, "========================================")
	log.Info(ctx, "System: %s/%s", runtime.GOOS, runtime.GOARCH)
	log.Info(ctx, "CPU Cores: %d", runtime.NumCPU())
	log.Info(ctx, "Configuration: %s", a.configPath)
	log.Info(ctx, "State directory: %s", a.layout.Root)

	if err := a.openCatalog(ctx); err != nil {
		return err
	}
	reassembler, err := parts.New(ctx, a.db, a.queue, log)
	if err != nil {
		return err
	}

	tel := telemetry.Setup()
	defer func() {
		if err := tel.Shutdown(context.Background()); err != nil {
			log.Warn(ctx, "Failed to stop metrics: %v", err)
		}
	}()

	prober := a.prober()
	trans := transcriber.New(transcriber.Options{
		FFmpegPath:     cfg.FFmpegPath,
		WhisperCLIPath: cfg.WhisperCLIPath,
		ModelPath:      a.layout.ModelPath(cfg.ModelName),
		ModelName:      cfg.ModelName,
		AllowWhisper:   cfg.WhisperEnabled(),
		AllowSubtitles: cfg.SubtitlesEnabled(),
	}, a.exec, prober, a.token, log)

	proc := processor.New(processor.Options{
		SuccessCommand: cfg.ProcessingSuccessCommand,
		FailureCommand: cfg.ProcessingFailureCommand,
		Roots:          cfg.WatchDirectories,
	}, processor.Deps{
		Queue:       a.queue,
		Transcriber: trans,
		Prober:      prober,
		Executor:    a.exec,
		Catalog:     a.catalog,
		Parts:       reassembler,
		Cancel:      a.token,
		Meter:       tel.MeterProvider(),
		Logger:      log,
	})

	w, err := watcher.New(watcher.Options{Roots: cfg.WatchDirectories}, a.queue, log)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Stop()

	if _, err := a.catalog.Rebuild(ctx, cfg.WatchDirectories); err != nil {
		log.Warn(ctx, "Initial catalog rebuild failed: %v", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return proc.Run(gctx) })
	g.Go(func() error { return w.Start(gctx) })
	if !*noHTTP {
		srv := httpapi.New(httpapi.Deps{
			Queue:    a.queue,
			Catalog:  a.catalog,
			Searcher: search.New(cfg.WatchDirectories, a.catalog, log),
			Roots:    cfg.WatchDirectories,
			Password: cfg.Password,
			Stats: func(ctx context.Context) (map[string]int64, error) {
				return tel.Counter(ctx, processor.ItemsMetric, processor.OutcomeKey)
			},
			Logger: log,
		})
		g.Go(func() error { return srv.Serve(gctx, cfg.HTTP.Listen) })
	}

	log.Info(ctx, "========================================")
	log.Info(ctx, "atci is ready!")
	log.Info(ctx, "Monitoring: %v", cfg.WatchDirectories)
	log.Info(ctx, "Model: %s (whisper %t, subtitles %t)", cfg.ModelName, cfg.WhisperEnabled(), cfg.SubtitlesEnabled())
	if !*noHTTP {
		log.Info(ctx, "HTTP API: http://%s", cfg.HTTP.Listen)
	}
	log.Info(ctx, "")
	log.Info(ctx, "Press Ctrl+C to stop")
	log.Info(ctx, "========================================")

	err = g.Wait()
	log.Info(ctx, "Shutting down gracefully...")
	log.Info(ctx, "atci stopped")
	return err
}
