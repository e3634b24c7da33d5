// Package sweeper periodically reclaims jobs stuck in Processing
// because their worker crashed or was killed between claim and
// finalize.
//
// It is an optional extension: nothing in the worker/manager path
// depends on it, and an operator who never starts one leaves stuck
// jobs in Processing; dlq retry does not reach them, since it only
// accepts Dead jobs.
package sweeper

import (
	"context"
	"log/slog"
	"time"

	"github.com/ClassyOmkar/queuectl-process-manager/internal/conc"
	"github.com/ClassyOmkar/queuectl-process-manager/internal/store"
)

// Config controls a Sweeper's cadence and staleness threshold.
type Config struct {
	// Interval is how often the sweeper scans for stuck jobs.
	Interval time.Duration

	// StaleAfter is how long a job may sit in Processing before it is
	// considered abandoned.
	StaleAfter time.Duration
}

// Sweeper periodically invokes store.LeaseSweeper.SweepExpiredLeases.
//
// Sweeper does not participate in job processing and does not affect
// normal claim/complete/fail flow; it only recovers jobs whose owning
// worker never finalized them.
//
// Sweeper has a strict lifecycle: Start may only be called once, and
// Stop waits for the in-flight sweep (if any) to finish or the timeout
// to expire.
type Sweeper struct {
	conc.Lifecycle

	sweeper store.LeaseSweeper
	task    conc.TimerTask
	log     *slog.Logger
	cfg     Config
}

// New creates a Sweeper. The sweeper is not started automatically.
func New(s store.LeaseSweeper, cfg Config, log *slog.Logger) *Sweeper {
	return &Sweeper{sweeper: s, cfg: cfg, log: log}
}

func (sw *Sweeper) sweep(ctx context.Context) {
	count, err := sw.sweeper.SweepExpiredLeases(ctx, sw.cfg.StaleAfter, time.Now().UTC())
	if err != nil {
		sw.log.Error("sweep failed", "err", err)
		return
	}
	if count > 0 {
		sw.log.Info("reclaimed stuck jobs", "count", count)
	}
}

// Start begins periodic sweeping. Returns conc.ErrDoubleStarted if
// already running.
func (sw *Sweeper) Start(ctx context.Context) error {
	if err := sw.TryStart(); err != nil {
		return err
	}
	sw.task.Start(ctx, sw.sweep, sw.cfg.Interval)
	return nil
}

// Stop terminates the background sweep task, waiting up to timeout for
// an in-flight sweep to finish.
func (sw *Sweeper) Stop(timeout time.Duration) error {
	return sw.TryStop(timeout, sw.task.Stop)
}
