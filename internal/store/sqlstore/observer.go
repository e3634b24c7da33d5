package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ClassyOmkar/queuectl-process-manager/internal/job"
)

// Get retrieves a job by id.
func (s *Store) Get(ctx context.Context, id string) (*job.Job, error) {
	var row jobModel
	err := s.db.NewSelect().
		Model(&row).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return row.toJob(), nil
}

// List returns up to limit jobs (offset applied), ordered by
// CreatedAt DESC.
func (s *Store) List(ctx context.Context, state job.State, limit, offset int) ([]*job.Job, error) {
	var rows []*jobModel
	query := s.db.NewSelect().Model(&rows).Order("created_at DESC")
	if state != job.Unknown {
		query = query.Where("state = ?", state)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Scan(ctx); err != nil {
		return nil, err
	}
	ret := make([]*job.Job, 0, len(rows))
	for _, r := range rows {
		ret = append(ret, r.toJob())
	}
	return ret, nil
}

// CountsByState returns the number of jobs in each state.
func (s *Store) CountsByState(ctx context.Context) (map[job.State]int64, error) {
	var rows []struct {
		State job.State `bun:"state"`
		Count int64      `bun:"count"`
	}
	err := s.db.NewSelect().
		Model((*jobModel)(nil)).
		ColumnExpr("state").
		ColumnExpr("count(*) AS count").
		Group("state").
		Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}
	ret := make(map[job.State]int64, len(rows))
	for _, r := range rows {
		ret[r.State] = r.Count
	}
	return ret, nil
}
