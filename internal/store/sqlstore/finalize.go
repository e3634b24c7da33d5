package sqlstore

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/ClassyOmkar/queuectl-process-manager/internal/backoff"
	"github.com/ClassyOmkar/queuectl-process-manager/internal/job"
)

// Complete transitions a Processing job to Completed.
func (s *Store) Complete(ctx context.Context, id string, exitCode int, stdout, stderr string, now time.Time) error {
	if s.readOnly {
		return errReadOnly
	}
	_, err := s.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("state = ?", job.Completed).
		Set("attempts = attempts + 1").
		Set("exit_code = ?", exitCode).
		Set("error = NULL").
		Set("stdout = ?", stdout).
		Set("stderr = ?", stderr).
		Set("claimed_by = NULL").
		Set("claimed_at = NULL").
		Set("updated_at = ?", now).
		Where("id = ?", id).
		Where("state = ?", job.Processing).
		Exec(ctx)
	return err
}

// Fail increments Attempts and either reschedules the job for retry or,
// once attempts >= max_retries, kills it. The decision between the two
// depends on the row's own max_retries, so the read-then-write is
// wrapped in a transaction (the storage backend holds a single writer
// connection via SetMaxOpenConns(1), so this transaction is never
// contended).
func (s *Store) Fail(ctx context.Context, id string, exitCode int, execErr string, stdout, stderr string, now time.Time, backoffBase uint32) error {
	if s.readOnly {
		return errReadOnly
	}
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var row jobModel
		if err := tx.NewSelect().
			Model(&row).
			Where("id = ?", id).
			Where("state = ?", job.Processing).
			Scan(ctx); err != nil {
			return err
		}

		attempts := row.Attempts + 1
		if attempts >= row.MaxRetries {
			_, err := tx.NewUpdate().
				Model((*jobModel)(nil)).
				Set("state = ?", job.Dead).
				Set("attempts = ?", attempts).
				Set("exit_code = ?", exitCode).
				Set("error = ?", execErr).
				Set("stdout = ?", stdout).
				Set("stderr = ?", stderr).
				Set("claimed_by = NULL").
				Set("claimed_at = NULL").
				Set("updated_at = ?", now).
				Where("id = ?", id).
				Where("state = ?", job.Processing).
				Exec(ctx)
			return err
		}

		delay := backoff.Delay(backoffBase, attempts)
		_, err := tx.NewUpdate().
			Model((*jobModel)(nil)).
			Set("state = ?", job.Pending).
			Set("attempts = ?", attempts).
			Set("next_run_at = ?", now.Add(delay)).
			Set("exit_code = ?", exitCode).
			Set("error = ?", execErr).
			Set("stdout = ?", stdout).
			Set("stderr = ?", stderr).
			Set("claimed_by = NULL").
			Set("claimed_at = NULL").
			Set("updated_at = ?", now).
			Where("id = ?", id).
			Where("state = ?", job.Processing).
			Exec(ctx)
		return err
	})
}
