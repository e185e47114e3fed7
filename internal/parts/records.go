package parts

import (
	"context"
	"fmt"
	"time"

	"github.com/nguyentantai21042004/atci/internal/media"
)

func (r *implReassembler) Records(ctx context.Context, p media.Part) ([]Record, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	rows, err := r.stmtList.QueryContext(ctx, p.Key())
	if err != nil {
		return nil, fmt.Errorf("parts list: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			rec Record
			at  string
		)
		if err := rows.Scan(&rec.Base, &rec.N, &rec.Path, &at, &rec.TranscriptLength, &rec.Duration); err != nil {
			return nil, fmt.Errorf("parts list scan: %w", err)
		}
		rec.ProcessedAt, _ = time.Parse(time.RFC3339, at)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *implReassembler) Missing(ctx context.Context, p media.Part) ([]int, error) {
	recs, err := r.Records(ctx, p)
	if err != nil {
		return nil, err
	}
	done := make(map[int]bool, len(recs))
	for _, rec := range recs {
		done[rec.N] = true
	}

	var missing []int
	for n := 1; n < p.N; n++ {
		if !done[n] {
			missing = append(missing, n)
		}
	}
	return missing, nil
}

func (r *implReassembler) record(ctx context.Context, rec Record) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	_, err := r.stmtUpsert.ExecContext(ctx,
		rec.Base, rec.N, rec.Path, rec.ProcessedAt.UTC().Format(time.RFC3339),
		rec.TranscriptLength, rec.Duration)
	if err != nil {
		return fmt.Errorf("parts record: %w", err)
	}
	return nil
}
