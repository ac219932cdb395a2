package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// GetProjectorWatermark returns the last applied global journal sequence, or
// 0 when the projector has not applied anything yet.
func (s *Store) GetProjectorWatermark(ctx context.Context) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.q == nil {
		return 0, fmt.Errorf("storage is not configured")
	}

	var appliedSeq uint64
	err := s.q.QueryRowContext(
		ctx,
		"SELECT applied_seq FROM projector_watermark WHERE id = 1",
	).Scan(&appliedSeq)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get projector watermark: %w", err)
	}
	return appliedSeq, nil
}

// SaveProjectorWatermark upserts the single projector watermark row.
func (s *Store) SaveProjectorWatermark(ctx context.Context, appliedSeq uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.q == nil {
		return fmt.Errorf("storage is not configured")
	}

	if _, err := s.q.ExecContext(
		ctx,
		`INSERT INTO projector_watermark (id, applied_seq, updated_at)
		 VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   applied_seq = excluded.applied_seq,
		   updated_at = excluded.updated_at`,
		appliedSeq,
		toMillis(time.Now().UTC()),
	); err != nil {
		return fmt.Errorf("save projector watermark: %w", err)
	}
	return nil
}
