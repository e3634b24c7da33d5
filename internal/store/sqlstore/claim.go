package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ClassyOmkar/queuectl-process-manager/internal/job"
)

// Claim atomically selects the single highest-priority eligible job and
// transitions it to Processing.
//
// One UPDATE ... WHERE id IN (subquery) ... RETURNING * statement, so
// selection and transition happen in one atomic write and no two
// concurrent callers can observe the same row as eligible. Ordering
// follows priority DESC, next_run_at ASC, created_at ASC, id ASC.
func (s *Store) Claim(ctx context.Context, workerID string, now time.Time) (*job.Job, error) {
	subQuery := s.db.NewSelect().
		Model((*jobModel)(nil)).
		Column("id").
		Where("state = ?", job.Pending).
		Where("next_run_at <= ?", now).
		Order("priority DESC", "next_run_at ASC", "created_at ASC", "id ASC").
		Limit(1)

	var rows []*jobModel
	err := s.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("state = ?", job.Processing).
		Set("claimed_by = ?", workerID).
		Set("claimed_at = ?", now).
		Set("updated_at = ?", now).
		Where("id IN (?)", subQuery).
		Returning("*").
		Scan(ctx, &rows)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].toJob(), nil
}
