// Package manager supervises a configurable number of worker
// goroutines within a single long-lived process.
//
// The jobs-table data model carries no OS-process identity for a
// worker, only a claimed_by string, so true multi-process parallelism
// is not required for correctness: Go's scheduler multiplexes
// goroutines across OS threads without the collaboration a
// single-threaded interpreter would need. WorkerManager therefore
// starts worker.Workers as goroutines of one process rather than
// exec'ing worker children. Lifecycle bookkeeping (which host process
// owns the queue, how to ask it to shut down) still needs to cross
// process boundaries, since `worker start` and `worker stop` are
// separate CLI invocations: a lifecycle file records the running
// manager's PID and worker count, and a shutdown marker file is the
// cross-process stop signal the running manager polls for.
package manager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ClassyOmkar/queuectl-process-manager/internal/conc"
	"github.com/ClassyOmkar/queuectl-process-manager/internal/store"
	"github.com/ClassyOmkar/queuectl-process-manager/internal/worker"
)

var (
	// ErrAlreadyRunning is returned by Run when a live manager is
	// already detected via the lifecycle file.
	ErrAlreadyRunning = errors.New("manager already running")

	// ErrNotRunning is returned by RequestStop when no live manager is
	// detected.
	ErrNotRunning = errors.New("manager not running")
)

// Config controls file locations and timing for a Manager.
type Config struct {
	// LifecyclePath and ShutdownMarkerPath live next to the database
	// file; see the package doc.
	LifecyclePath      string
	ShutdownMarkerPath string

	// PollInterval is how often Run checks for the shutdown marker.
	PollInterval time.Duration

	// StopGrace bounds how long RequestStop waits for a clean exit
	// before escalating to a forceful kill, and how long Run waits for
	// its workers to finish their in-flight job before returning.
	StopGrace time.Duration

	Worker worker.Config
}

// Status reports the current state of a manager, as observed through
// the lifecycle file.
type Status struct {
	Running       bool
	ActiveWorkers int
	PID           int
}

// Manager supervises Workers for the lifetime of one Run call.
type Manager struct {
	cfg     Config
	claimer store.Claimer
	log     *slog.Logger
}

// New creates a Manager. cfg.PollInterval and cfg.StopGrace default to
// one second and ten seconds respectively when zero.
func New(claimer store.Claimer, cfg Config, log *slog.Logger) *Manager {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	if cfg.StopGrace <= 0 {
		cfg.StopGrace = 10 * time.Second
	}
	return &Manager{claimer: claimer, cfg: cfg, log: log}
}

// Run starts count workers and blocks until ctx is canceled or a
// shutdown marker appears (written by a concurrent RequestStop call
// against the same lifecycle file), then stops them gracefully and
// cleans up the lifecycle and shutdown marker files.
//
// Run returns ErrAlreadyRunning if a live manager is already recorded.
func (m *Manager) Run(ctx context.Context, count int) error {
	existing, err := readLifecycleFile(m.cfg.LifecyclePath)
	if err != nil {
		return fmt.Errorf("manager: reading lifecycle file: %w", err)
	}
	if existing != nil && processAlive(existing.PID) {
		return ErrAlreadyRunning
	}
	_ = removeShutdownMarker(m.cfg.ShutdownMarkerPath)

	workers := make([]*worker.Worker, count)
	for i := range workers {
		cfg := m.cfg.Worker
		cfg.ID = fmt.Sprintf("worker-%d", i)
		workers[i] = worker.New(m.claimer, cfg, m.log)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	for _, w := range workers {
		if err := w.Start(runCtx); err != nil {
			for _, started := range workers {
				_ = started.Stop(m.cfg.StopGrace)
			}
			return fmt.Errorf("manager: starting worker: %w", err)
		}
	}

	rec := lifecycleRecord{PID: os.Getpid(), Workers: count, StartedAt: time.Now().UTC()}
	if err := writeLifecycleFile(m.cfg.LifecyclePath, rec); err != nil {
		for _, w := range workers {
			_ = w.Stop(m.cfg.StopGrace)
		}
		return fmt.Errorf("manager: writing lifecycle file: %w", err)
	}
	m.log.Info("manager started", "workers", count, "pid", rec.PID)

	m.waitForShutdown(runCtx)

	stopErr := m.stopAll(workers)
	if err := removeShutdownMarker(m.cfg.ShutdownMarkerPath); err != nil {
		m.log.Error("cannot remove shutdown marker", "err", err)
	}
	if err := removeLifecycleFile(m.cfg.LifecyclePath); err != nil {
		m.log.Error("cannot remove lifecycle file", "err", err)
	}
	m.log.Info("manager stopped")
	return stopErr
}

func (m *Manager) waitForShutdown(ctx context.Context) {
	ticker := time.NewTicker(m.cfg.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if shutdownMarkerExists(m.cfg.ShutdownMarkerPath) {
				return
			}
		}
	}
}

func (m *Manager) stopAll(workers []*worker.Worker) error {
	chans := make([]conc.DoneChan, 0, len(workers))
	errCh := make(chan error, len(workers))
	for _, w := range workers {
		done := make(conc.DoneChan)
		chans = append(chans, done)
		go func(w *worker.Worker) {
			defer close(done)
			errCh <- w.Stop(m.cfg.StopGrace)
		}(w)
	}
	<-conc.CombineAll(chans...)
	close(errCh)
	var firstErr error
	for err := range errCh {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// RequestStop asks a running manager (in another process, or another
// goroutine that called Run) to shut down: it writes the shutdown
// marker and waits up to cfg.StopGrace for the lifecycle file to be
// removed. If the grace period elapses first, it forcibly kills the
// recorded PID and removes both files itself.
//
// RequestStop returns ErrNotRunning if no live manager is detected.
func (m *Manager) RequestStop(ctx context.Context) error {
	rec, err := readLifecycleFile(m.cfg.LifecyclePath)
	if err != nil {
		return fmt.Errorf("manager: reading lifecycle file: %w", err)
	}
	if rec == nil || !processAlive(rec.PID) {
		return ErrNotRunning
	}

	if err := writeShutdownMarker(m.cfg.ShutdownMarkerPath); err != nil {
		return fmt.Errorf("manager: writing shutdown marker: %w", err)
	}

	deadline := time.Now().Add(m.cfg.StopGrace)
	ticker := time.NewTicker(m.cfg.PollInterval)
	defer ticker.Stop()
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			cur, err := readLifecycleFile(m.cfg.LifecyclePath)
			if err != nil {
				return fmt.Errorf("manager: reading lifecycle file: %w", err)
			}
			if cur == nil {
				return nil
			}
		}
	}

	m.log.Warn("manager did not stop within grace period, killing", "pid", rec.PID)
	if err := killProcess(rec.PID); err != nil {
		m.log.Error("cannot kill manager process", "pid", rec.PID, "err", err)
	}
	_ = removeShutdownMarker(m.cfg.ShutdownMarkerPath)
	_ = removeLifecycleFile(m.cfg.LifecyclePath)
	return nil
}

// Status reports whether a manager is currently running.
func (m *Manager) Status() (Status, error) {
	rec, err := readLifecycleFile(m.cfg.LifecyclePath)
	if err != nil {
		return Status{}, fmt.Errorf("manager: reading lifecycle file: %w", err)
	}
	if rec == nil || !processAlive(rec.PID) {
		return Status{Running: false}, nil
	}
	return Status{Running: true, ActiveWorkers: rec.Workers, PID: rec.PID}, nil
}
