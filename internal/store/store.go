// Package store defines the durable persistence contract for the queue.
//
// The interfaces below are intentionally narrow: each consumer depends
// only on the slice of storage behavior it actually needs. A concrete
// bun/sqlite implementation lives in the sqlstore subpackage.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/ClassyOmkar/queuectl-process-manager/internal/job"
)

var (
	// ErrDuplicateID is returned by Enqueue when the requested id
	// already exists.
	ErrDuplicateID = errors.New("duplicate job id")

	// ErrInvalidInput is returned when a Spec is missing a required
	// field or otherwise fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned by DLQRetry when no job with the given id
	// exists or the job is not dead. Get reports an absent job as
	// (nil, nil) instead.
	ErrNotFound = errors.New("not found")
)

// Enqueuer inserts new jobs into the queue.
type Enqueuer interface {
	// Enqueue inserts a new job in Pending state. spec is validated by
	// the implementation: ErrInvalidInput if Command is empty,
	// ErrDuplicateID if Id is already taken.
	Enqueue(ctx context.Context, spec job.Spec) (*job.Job, error)
}

// Claimer is the read-write contract used by a Worker to consume jobs.
type Claimer interface {
	// Claim atomically selects at most one eligible job (Pending,
	// NextRunAt <= now), transitions it to Processing, and returns it.
	// Returns (nil, nil) if no job is eligible.
	Claim(ctx context.Context, workerID string, now time.Time) (*job.Job, error)

	// Complete transitions a Processing job to Completed, incrementing
	// Attempts and storing the given output.
	Complete(ctx context.Context, id string, exitCode int, stdout, stderr string, now time.Time) error

	// Fail increments Attempts and either reschedules the job
	// (Pending, NextRunAt = now + backoffBase^attempts) or, once
	// attempts >= maxRetries, transitions it to Dead.
	Fail(ctx context.Context, id string, exitCode int, execErr string, stdout, stderr string, now time.Time, backoffBase uint32) error
}

// Observer provides read-only access to job state.
type Observer interface {
	// Get returns the job identified by id, or (nil, nil) if absent.
	Get(ctx context.Context, id string) (*job.Job, error)

	// List returns up to limit jobs (offset-paginated) ordered by
	// CreatedAt DESC. state == job.Unknown means no filter.
	List(ctx context.Context, state job.State, limit, offset int) ([]*job.Job, error)

	// CountsByState returns the number of jobs in each state.
	CountsByState(ctx context.Context) (map[job.State]int64, error)
}

// DLQAdmin manages the dead-letter queue.
type DLQAdmin interface {
	// DLQList is List(state=Dead, ...).
	DLQList(ctx context.Context, limit, offset int) ([]*job.Job, error)

	// DLQRetry moves a Dead job back to Pending, clearing attempts and
	// prior output. Fails with ErrNotFound if the job doesn't exist or
	// isn't Dead. newMaxRetries, if non-nil, overwrites MaxRetries.
	DLQRetry(ctx context.Context, id string, newMaxRetries *uint32, now time.Time) error
}

// ConfigStore persists the flat operational config map.
type ConfigStore interface {
	// ConfigSet upserts a key/value pair. Hyphens and underscores are
	// equivalent; the canonical persisted form uses underscores.
	ConfigSet(ctx context.Context, key, value string) error

	// ConfigGet returns the value for key, or ("", false) if unset.
	ConfigGet(ctx context.Context, key string) (string, bool, error)
}

// LeaseSweeper is an optional stuck-job recovery extension. It is
// never called by the default Worker loop.
type LeaseSweeper interface {
	// SweepExpiredLeases reclaims Processing jobs whose ClaimedAt is
	// older than staleAfter, recording error="lease_expired" as a failed
	// attempt: a job with attempts left goes back to Pending with a
	// backoff delay, one whose attempts reach MaxRetries goes to Dead.
	// It returns the number of jobs reclaimed.
	SweepExpiredLeases(ctx context.Context, staleAfter time.Duration, now time.Time) (int64, error)
}

// Store is the full persistence contract; concrete implementations
// (sqlstore.Store) satisfy all of the above.
type Store interface {
	Init(ctx context.Context) error

	Enqueuer
	Claimer
	Observer
	DLQAdmin
	ConfigStore
	LeaseSweeper

	Close() error
}
