package sqlstore

import (
	"context"
	"time"

	"github.com/ClassyOmkar/queuectl-process-manager/internal/backoff"
	"github.com/ClassyOmkar/queuectl-process-manager/internal/job"
)

// SweepExpiredLeases is an optional stuck-job recovery extension. It
// is never invoked by the default Worker loop; operators opt in via
// the `sweep start` CLI subcommand (see internal/sweeper).
//
// Reschedules a stuck Processing row (or moves it to Dead once its
// attempts reach max_retries) and clears its claim fields,
// keyed on ClaimedAt staleness instead of a stored lease deadline (the
// core data model has no lease field), recording the reclaim as a
// failed attempt with error="lease_expired".
func (s *Store) SweepExpiredLeases(ctx context.Context, staleAfter time.Duration, now time.Time) (int64, error) {
	if s.readOnly {
		return 0, errReadOnly
	}
	cutoff := now.Add(-staleAfter)
	leaseExpired := "lease_expired"
	base := s.defaultBackoffBase(ctx)

	var stuck []*jobModel
	if err := s.db.NewSelect().
		Model(&stuck).
		Where("state = ?", job.Processing).
		Where("claimed_at <= ?", cutoff).
		Scan(ctx); err != nil {
		return 0, err
	}

	var swept int64
	for _, row := range stuck {
		attempts := row.Attempts + 1
		if attempts >= row.MaxRetries {
			res, err := s.db.NewUpdate().
				Model((*jobModel)(nil)).
				Set("state = ?", job.Dead).
				Set("attempts = ?", attempts).
				Set("error = ?", leaseExpired).
				Set("claimed_by = NULL").
				Set("claimed_at = NULL").
				Set("updated_at = ?", now).
				Where("id = ?", row.Id).
				Where("state = ?", job.Processing).
				Exec(ctx)
			if err != nil {
				return swept, err
			}
			if isAffected(res) {
				swept++
			}
			continue
		}
		delay := backoff.Delay(base, attempts)
		res, err := s.db.NewUpdate().
			Model((*jobModel)(nil)).
			Set("state = ?", job.Pending).
			Set("attempts = ?", attempts).
			Set("next_run_at = ?", now.Add(delay)).
			Set("error = ?", leaseExpired).
			Set("claimed_by = NULL").
			Set("claimed_at = NULL").
			Set("updated_at = ?", now).
			Where("id = ?", row.Id).
			Where("state = ?", job.Processing).
			Exec(ctx)
		if err != nil {
			return swept, err
		}
		if isAffected(res) {
			swept++
		}
	}
	return swept, nil
}
