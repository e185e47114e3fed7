package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nguyentantai21042004/atci/internal/logger"
)

const (
	// SchemaVersion is bumped whenever video_info changes shape.
	SchemaVersion = 3

	DefaultLimit = 100

	dbTimeout = 5 * time.Second
)

type implCatalog struct {
	db     *sql.DB
	logger logger.Logger

	stmtGet *sql.Stmt
}

// New ensures the schema and prepares statements. The caller owns db.
func New(ctx context.Context, db *sql.DB, l logger.Logger) (Catalog, error) {
	if err := migrate(ctx, db, l); err != nil {
		return nil, err
	}

	stmtGet, err := db.PrepareContext(ctx, "SELECT "+columns+" FROM video_info WHERE full_path = ?")
	if err != nil {
		return nil, fmt.Errorf("prepare get: %w", err)
	}

	return &implCatalog{
		db:      db,
		logger:  l,
		stmtGet: stmtGet,
	}, nil
}
