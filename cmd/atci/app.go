package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/nguyentantai21042004/atci/internal/cancel"
	"github.com/nguyentantai21042004/atci/internal/catalog"
	"github.com/nguyentantai21042004/atci/internal/config"
	"github.com/nguyentantai21042004/atci/internal/logger"
	"github.com/nguyentantai21042004/atci/internal/probe"
	"github.com/nguyentantai21042004/atci/internal/queue"
	"github.com/nguyentantai21042004/atci/internal/store"
	"github.com/nguyentantai21042004/atci/pkg/executor"
)

// app holds what every subcommand shares.
type app struct {
	configPath string
	cfg        *config.Config
	layout     config.Layout
	log        logger.Logger
	exec       executor.Executor
	queue      queue.Queue
	token      *cancel.Token

	db      *sql.DB
	catalog catalog.Catalog
}

// load reads the configuration and resolves the state layout. Logs go to w.
func load(configPath string, w io.Writer) (*app, error) {
	if configPath == "" {
		p, err := config.Path()
		if err != nil {
			return nil, err
		}
		configPath = p
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	layout, err := config.DefaultLayout()
	if err != nil {
		return nil, err
	}
	if err := layout.Ensure(); err != nil {
		return nil, err
	}

	return &app{
		configPath: configPath,
		cfg:        cfg,
		layout:     layout,
		log:        logger.NewWithFormat(w, cfg.Logging.Level, cfg.Logging.Format),
		exec:       executor.New(),
		queue: queue.New(queue.Paths{
			Queue:      layout.QueueFile(),
			Processing: layout.ProcessingFile(),
			Blocklist:  layout.BlocklistFile(),
			Cancel:     layout.CancelFile(),
		}),
		token: cancel.New(layout.CancelFile()),
	}, nil
}

// openCatalog opens the database and the catalog on top of it.
func (a *app) openCatalog(ctx context.Context) error {
	db, err := store.Open(ctx, a.layout.DatabaseFile())
	if err != nil {
		return err
	}
	cat, err := catalog.New(ctx, db, a.log)
	if err != nil {
		db.Close()
		return err
	}
	a.db = db
	a.catalog = cat
	return nil
}

func (a *app) prober() probe.Prober {
	return probe.New(a.cfg.FFprobePath, a.exec, a.log)
}

func (a *app) close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "close database: %v\n", err)
		}
	}
}
