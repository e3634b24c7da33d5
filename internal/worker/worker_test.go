package worker_test

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
	"github.com/ClassyOmkar/queuectl-process-manager/internal/worker"
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

func TestWorkerCompletesSuccessfulJob(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	enq, err := s.Enqueue(ctx, job.Spec{Command: "true"})
	if err != nil {
		t.Fatal(err)
	}

	w := worker.New(s, worker.Config{ID: "w1", PollInterval: 10 * time.Millisecond, BackoffBase: 2}, discardLogger())
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		got, err := s.Get(ctx, enq.Id)
		if err != nil {
			t.Fatal(err)
		}
		if got.State == job.Completed {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}

	if err := w.Stop(time.Second); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get(ctx, enq.Id)
	if err != nil {
		t.Fatal(err)
	}
	if got.State != job.Completed {
		t.Fatalf("expected Completed, got %v", got.State)
	}
}

func TestWorkerFailsAndDiesAtMaxRetries(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	maxRetries := uint32(1)
	enq, err := s.Enqueue(ctx, job.Spec{Command: "false", MaxRetries: &maxRetries})
	if err != nil {
		t.Fatal(err)
	}

	w := worker.New(s, worker.Config{ID: "w1", PollInterval: 10 * time.Millisecond, BackoffBase: 2}, discardLogger())
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	var got *job.Job
	for time.Now().Before(deadline) {
		got, err = s.Get(ctx, enq.Id)
		if err != nil {
			t.Fatal(err)
		}
		if got.State == job.Dead {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}

	if err := w.Stop(time.Second); err != nil {
		t.Fatal(err)
	}

	if got.State != job.Dead {
		t.Fatalf("expected Dead after exhausting retries, got %v", got.State)
	}
}

func TestWorkerDoubleStartFails(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	w := worker.New(s, worker.Config{ID: "w1", PollInterval: 10 * time.Millisecond}, discardLogger())
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if err := w.Start(ctx); err == nil {
		t.Fatal("expected error on double start")
	}
	if err := w.Stop(time.Second); err != nil {
		t.Fatal(err)
	}
}
