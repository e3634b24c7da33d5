package sqlstore

import (
	"context"
	"errors"

	"github.com/uptrace/bun"
)

func createJobsTable(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().
		Model((*jobModel)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

func createConfigTable(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateTable().
		Model((*configModel)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

// createClaimIndex backs the scheduler policy's ordering
// (priority DESC, next_run_at ASC, created_at ASC) for eligible,
// pending jobs.
func createClaimIndex(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateIndex().
		Model((*jobModel)(nil)).
		Index("idx_jobs_claim").
		Column("state").
		ColumnExpr("priority DESC").
		Column("next_run_at", "created_at").
		IfNotExists().
		Exec(ctx)
	return err
}

func createStateIndex(ctx context.Context, db bun.IDB) error {
	_, err := db.NewCreateIndex().
		Model((*jobModel)(nil)).
		Index("idx_jobs_state").
		Column("state").
		IfNotExists().
		Exec(ctx)
	return err
}

func initDB(ctx context.Context, db *bun.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := createJobsTable(ctx, tx); err != nil {
		return errors.Join(err, tx.Rollback())
	}
	if err := createConfigTable(ctx, tx); err != nil {
		return errors.Join(err, tx.Rollback())
	}
	if err := createClaimIndex(ctx, tx); err != nil {
		return errors.Join(err, tx.Rollback())
	}
	if err := createStateIndex(ctx, tx); err != nil {
		return errors.Join(err, tx.Rollback())
	}
	return tx.Commit()
}

// InitDB creates the jobs and config tables and their indexes, inside a
// single transaction. Idempotent; safe to call on every startup.
func InitDB(ctx context.Context, db *bun.DB) error {
	return initDB(ctx, db)
}

// MustInitDB behaves like InitDB but panics on failure, for use at
// application bootstrap.
func MustInitDB(ctx context.Context, db *bun.DB) {
	if err := initDB(ctx, db); err != nil {
		panic(err)
	}
}
