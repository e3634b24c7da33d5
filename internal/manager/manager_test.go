package manager_test

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "modernc.org/sqlite"

	"github.com/ClassyOmkar/queuectl-process-manager/internal/job"
	"github.com/ClassyOmkar/queuectl-process-manager/internal/manager"
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

func testConfig(t *testing.T) manager.Config {
	dir := t.TempDir()
	return manager.Config{
		LifecyclePath:      filepath.Join(dir, "manager.lifecycle"),
		ShutdownMarkerPath: filepath.Join(dir, "manager.shutdown"),
		PollInterval:       20 * time.Millisecond,
		StopGrace:          2 * time.Second,
		Worker:             worker.Config{PollInterval: 10 * time.Millisecond, BackoffBase: 2},
	}
}

func TestManagerRunProcessesJobsUntilStopped(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	enq, err := s.Enqueue(ctx, job.Spec{Command: "true"})
	if err != nil {
		t.Fatal(err)
	}

	cfg := testConfig(t)
	m := manager.New(s, cfg, discardLogger())
	stopper := manager.New(s, cfg, discardLogger())

	runDone := make(chan error, 1)
	runCtx, cancelRun := context.WithCancel(context.Background())
	defer cancelRun()
	go func() { runDone <- m.Run(runCtx, 2) }()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		st, err := m.Status()
		if err != nil {
			t.Fatal(err)
		}
		if st.Running {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	deadline = time.Now().Add(2 * time.Second)
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

	if err := stopper.RequestStop(ctx); err != nil {
		t.Fatal(err)
	}

	select {
	case err := <-runDone:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("manager did not shut down in time")
	}

	got, err := s.Get(ctx, enq.Id)
	if err != nil {
		t.Fatal(err)
	}
	if got.State != job.Completed {
		t.Fatalf("expected Completed, got %v", got.State)
	}
}

func TestManagerRequestStopWithoutRunningManager(t *testing.T) {
	s := newTestStore(t)
	m := manager.New(s, testConfig(t), discardLogger())

	err := m.RequestStop(context.Background())
	if !errors.Is(err, manager.ErrNotRunning) {
		t.Fatalf("expected ErrNotRunning, got %v", err)
	}
}

func TestManagerStatusWhenNotRunning(t *testing.T) {
	s := newTestStore(t)
	m := manager.New(s, testConfig(t), discardLogger())

	st, err := m.Status()
	if err != nil {
		t.Fatal(err)
	}
	if st.Running {
		t.Fatal("expected not running")
	}
}
