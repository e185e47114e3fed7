package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nguyentantai21042004/atci/internal/logger"
)

const columns = "name, base_name, created_at, line_count, full_path, transcript, last_generated, length, source"

const createVideoInfo = `CREATE TABLE IF NOT EXISTS video_info (
	name           TEXT NOT NULL,
	base_name      TEXT NOT NULL,
	created_at     TEXT NOT NULL,
	line_count     INTEGER NOT NULL DEFAULT 0,
	full_path      TEXT NOT NULL UNIQUE,
	transcript     BOOLEAN NOT NULL DEFAULT 0,
	last_generated TEXT NOT NULL DEFAULT '',
	length         TEXT NOT NULL DEFAULT '',
	source         TEXT NOT NULL DEFAULT ''
)`

// migrate drops and recreates video_info when the stored version differs.
// The table is derived data, so nothing is lost.
func migrate(ctx context.Context, db *sql.DB, l logger.Logger) error {
	if _, err := db.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)"); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}

	var version int
	err := db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		version = 0
	case err != nil:
		return fmt.Errorf("read schema_version: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migrate: %w", err)
	}
	defer tx.Rollback()

	if version != SchemaVersion {
		if version != 0 {
			l.Info(ctx, "Catalog schema %d != %d, recreating video_info", version, SchemaVersion)
		}
		if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS video_info"); err != nil {
			return fmt.Errorf("drop video_info: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM schema_version"); err != nil {
			return fmt.Errorf("reset schema_version: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", SchemaVersion); err != nil {
			return fmt.Errorf("write schema_version: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx, createVideoInfo); err != nil {
		return fmt.Errorf("create video_info: %w", err)
	}

	return tx.Commit()
}
