// Package worker implements the claim-execute-finalize loop that turns
// queued jobs into completed or failed ones.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/ClassyOmkar/queuectl-process-manager/internal/conc"
	"github.com/ClassyOmkar/queuectl-process-manager/internal/executor"
	"github.com/ClassyOmkar/queuectl-process-manager/internal/store"
)

// Config controls a Worker's polling cadence and per-job execution
// limits.
type Config struct {
	// ID identifies this worker in the jobs table's claimed_by column.
	ID string

	// PollInterval is how long the worker sleeps between claim
	// attempts when the queue is empty. Defaults to one second.
	PollInterval time.Duration

	// ExecTimeout bounds a single job's execution. Defaults to
	// executor.DefaultTimeout.
	ExecTimeout time.Duration

	// BackoffBase is passed through to Store.Fail for computing the
	// next retry delay.
	BackoffBase uint32
}

// Worker repeatedly claims a job, runs it through the executor, and
// reports the outcome back to the store. Exactly one of Complete or
// Fail is called per claimed job.
//
// A claim that returns no job puts the worker to sleep for
// PollInterval before retrying. A worker processes one job at a time;
// concurrency is achieved by running multiple Workers (see
// internal/manager), not by a Worker running jobs in parallel.
type Worker struct {
	conc.Lifecycle

	claimer store.Claimer
	cfg     Config
	log     *slog.Logger

	cancel context.CancelFunc
	done   conc.DoneChan
}

// New creates a Worker bound to claimer. Start must be called to begin
// processing.
func New(claimer store.Claimer, cfg Config, log *slog.Logger) *Worker {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	if cfg.ExecTimeout <= 0 {
		cfg.ExecTimeout = executor.DefaultTimeout
	}
	return &Worker{claimer: claimer, cfg: cfg, log: log}
}

// Start begins the claim loop in its own goroutine. Returns
// conc.ErrDoubleStarted if already running.
func (w *Worker) Start(ctx context.Context) error {
	if err := w.TryStart(); err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.done = make(conc.DoneChan)
	go w.run(ctx)
	return nil
}

// Stop signals the claim loop to exit and waits up to timeout for the
// in-flight job (if any) to finish and be finalized. Returns
// conc.ErrStopTimeout if the grace period elapses first.
func (w *Worker) Stop(timeout time.Duration) error {
	return w.TryStop(timeout, func() conc.DoneChan {
		w.cancel()
		return w.done
	})
}

func (w *Worker) run(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		claimed, err := w.claimer.Claim(ctx, w.cfg.ID, time.Now().UTC())
		if err != nil {
			w.log.Error("claim failed", "worker", w.cfg.ID, "err", err)
			w.sleep(ctx)
			continue
		}
		if claimed == nil {
			w.sleep(ctx)
			continue
		}

		w.log.Info("claimed job", "worker", w.cfg.ID, "job", claimed.Id, "command", claimed.Command)
		w.safeProcess(ctx, claimed.Id, claimed.Command)

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

// safeProcess runs and finalizes one job, recovering from any panic so a
// single bad claim cannot take the worker's goroutine down with it.
func (w *Worker) safeProcess(ctx context.Context, id, command string) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("worker panic recovered", "worker", w.cfg.ID, "job", id, "err", r)
		}
	}()
	// Stop cancels ctx; the job runs and is finalized on a context that
	// ignores that cancellation, so an in-flight job is not killed.
	jobCtx := context.WithoutCancel(ctx)
	result := executor.Run(jobCtx, command, w.cfg.ExecTimeout)
	w.finalize(jobCtx, id, result)
}

func (w *Worker) finalize(ctx context.Context, id string, result executor.Result) {
	now := time.Now().UTC()
	if result.ExitCode == 0 {
		if err := w.claimer.Complete(ctx, id, result.ExitCode, result.Stdout, result.Stderr, now); err != nil {
			w.log.Error("cannot complete job", "worker", w.cfg.ID, "job", id, "err", err)
		}
		return
	}
	if err := w.claimer.Fail(ctx, id, result.ExitCode, result.Error, result.Stdout, result.Stderr, now, w.cfg.BackoffBase); err != nil {
		w.log.Error("cannot fail job", "worker", w.cfg.ID, "job", id, "err", err)
	}
}

func (w *Worker) sleep(ctx context.Context) {
	timer := time.NewTimer(w.cfg.PollInterval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
