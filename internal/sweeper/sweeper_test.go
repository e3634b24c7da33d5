package sweeper_test

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "modernc.org/sqlite"

	"github.com/ClassyOmkar/queuectl-process-manager/internal/job"
	"github.com/ClassyOmkar/queuectl-process-manager/internal/store/sqlstore"
	"github.com/ClassyOmkar/queuectl-process-manager/internal/sweeper"
)

func newTestStore(t *testing.T) *sqlstore.Store {
	t.Helper()
	sqlDB, err := sql.Open("sqlite", "file::memory:?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	s := sqlstore.New(db)
	if err := s.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	return s
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSweeperReclaimsStuckJob(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	enqueuedAt := time.Now().Add(-2 * time.Hour)
	enq, err := s.Enqueue(ctx, job.Spec{Command: "echo hi", RunAt: &enqueuedAt})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Claim(ctx, "worker-1", time.Now().Add(-time.Hour)); err != nil {
		t.Fatal(err)
	}

	sw := sweeper.New(s, sweeper.Config{Interval: 20 * time.Millisecond, StaleAfter: 30 * time.Minute}, discardLogger())
	if err := sw.Start(ctx); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		got, err := s.Get(ctx, enq.Id)
		if err != nil {
			t.Fatal(err)
		}
		if got.State == job.Pending {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}

	if err := sw.Stop(time.Second); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get(ctx, enq.Id)
	if err != nil {
		t.Fatal(err)
	}
	if got.State != job.Pending {
		t.Fatalf("expected Pending after sweep, got %v", got.State)
	}
}

func TestSweeperDoubleStartFails(t *testing.T) {
	s := newTestStore(t)
	sw := sweeper.New(s, sweeper.Config{Interval: 20 * time.Millisecond, StaleAfter: time.Minute}, discardLogger())

	if err := sw.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := sw.Start(context.Background()); err == nil {
		t.Fatal("expected error on double start")
	}
	if err := sw.Stop(time.Second); err != nil {
		t.Fatal(err)
	}
}
