package sqlstore

import (
	"context"
	"time"

	"github.com/ClassyOmkar/queuectl-process-manager/internal/job"
	qstore "github.com/ClassyOmkar/queuectl-process-manager/internal/store"
)

// DLQList is List(state=Dead, ...).
func (s *Store) DLQList(ctx context.Context, limit, offset int) ([]*job.Job, error) {
	return s.List(ctx, job.Dead, limit, offset)
}

// DLQRetry moves a Dead job back to Pending, clearing attempts and
// prior output. Rejects any job not currently Dead.
func (s *Store) DLQRetry(ctx context.Context, id string, newMaxRetries *uint32, now time.Time) error {
	if s.readOnly {
		return errReadOnly
	}
	query := s.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("state = ?", job.Pending).
		Set("attempts = 0").
		Set("next_run_at = ?", now).
		Set("run_at = ?", now).
		Set("exit_code = NULL").
		Set("error = NULL").
		Set("stdout = ''").
		Set("stderr = ''").
		Set("claimed_by = NULL").
		Set("claimed_at = NULL").
		Set("updated_at = ?", now).
		Where("id = ?", id).
		Where("state = ?", job.Dead)
	if newMaxRetries != nil {
		query = query.Set("max_retries = ?", *newMaxRetries)
	}
	res, err := query.Exec(ctx)
	if err != nil {
		return err
	}
	if !isAffected(res) {
		return qstore.ErrNotFound
	}
	return nil
}
