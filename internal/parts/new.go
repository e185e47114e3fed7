package parts

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nguyentantai21042004/atci/internal/logger"
)

const dbTimeout = 5 * time.Second

const createVideoParts = `CREATE TABLE IF NOT EXISTS video_parts (
	base              TEXT NOT NULL,
	part              INTEGER NOT NULL,
	path              TEXT NOT NULL,
	processed_at      TEXT NOT NULL,
	transcript_length INTEGER NOT NULL DEFAULT 0,
	duration          TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (base, part)
)`

type implReassembler struct {
	db     *sql.DB
	queue  Enqueuer
	logger logger.Logger
	now    func() time.Time

	stmtUpsert *sql.Stmt
	stmtList   *sql.Stmt
}

// New ensures the video_parts table and prepares statements. The caller owns db.
func New(ctx context.Context, db *sql.DB, q Enqueuer, l logger.Logger) (Reassembler, error) {
	if _, err := db.ExecContext(ctx, createVideoParts); err != nil {
		return nil, fmt.Errorf("create video_parts: %w", err)
	}

	stmtUpsert, err := db.PrepareContext(ctx, `INSERT OR REPLACE INTO video_parts
		(base, part, path, processed_at, transcript_length, duration) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("prepare upsert: %w", err)
	}

	stmtList, err := db.PrepareContext(ctx, `SELECT base, part, path, processed_at, transcript_length, duration
		FROM video_parts WHERE base = ? ORDER BY part`)
	if err != nil {
		return nil, fmt.Errorf("prepare list: %w", err)
	}

	return &implReassembler{
		db:         db,
		queue:      q,
		logger:     l,
		now:        time.Now,
		stmtUpsert: stmtUpsert,
		stmtList:   stmtList,
	}, nil
}
