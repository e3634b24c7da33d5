// Package job defines the central entity managed by the queue: a
// shell-command job and its delivery state.
//
// Unlike a transport-only message, Job carries both the command to run
// and the full state-machine metadata (State, Attempts, claim info,
// scheduling timestamps). Job values returned by the store are
// snapshots; mutating them does not change persisted state. Transitions
// must go through the store's Claimer/Enqueuer/DLQAdmin methods.
package job

import "time"

// Job is a single unit of work tracked by the queue.
type Job struct {
	Id         string
	Command    string
	State      State
	Attempts   uint32
	MaxRetries uint32
	Priority   int64
	RunAt      time.Time
	NextRunAt  time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time

	ExitCode *int
	Error    *string
	Stdout   string
	Stderr   string

	ClaimedBy *string
	ClaimedAt *time.Time
}

// Spec describes a validated request to enqueue a new Job.
//
// Command is required. Id, MaxRetries, Priority and RunAt are optional
// and are defaulted by the caller (the store fills MaxRetries from
// config when the field is nil; Id is generated when empty; RunAt
// defaults to "now").
type Spec struct {
	Id         string
	Command    string
	MaxRetries *uint32
	Priority   int64
	RunAt      *time.Time
}
