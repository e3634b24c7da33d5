package sqlstore

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/ClassyOmkar/queuectl-process-manager/internal/job"
)

// jobModel is a bun.BaseModel carrying the full row, plus conversions
// to/from the domain job.Job type.
type jobModel struct {
	bun.BaseModel `bun:"table:jobs"`

	Id      string `bun:"id,pk"`
	Command string `bun:"command,notnull"`

	State      job.State `bun:"state,notnull,default:1"`
	Attempts   uint32    `bun:"attempts,notnull,default:0"`
	MaxRetries uint32    `bun:"max_retries,notnull"`
	Priority   int64     `bun:"priority,notnull,default:0"`

	RunAt     time.Time `bun:"run_at,notnull"`
	NextRunAt time.Time `bun:"next_run_at,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`

	ExitCode *int    `bun:"exit_code,nullzero"`
	Error    *string `bun:"error,nullzero"`
	Stdout   string  `bun:"stdout,notnull,default:''"`
	Stderr   string  `bun:"stderr,notnull,default:''"`

	ClaimedBy *string    `bun:"claimed_by,nullzero"`
	ClaimedAt *time.Time `bun:"claimed_at,nullzero"`
}

type configModel struct {
	bun.BaseModel `bun:"table:config"`

	Key   string `bun:"key,pk"`
	Value string `bun:"value,notnull"`
}

func (m *jobModel) toJob() *job.Job {
	return &job.Job{
		Id:         m.Id,
		Command:    m.Command,
		State:      m.State,
		Attempts:   m.Attempts,
		MaxRetries: m.MaxRetries,
		Priority:   m.Priority,
		RunAt:      m.RunAt,
		NextRunAt:  m.NextRunAt,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
		ExitCode:   m.ExitCode,
		Error:      m.Error,
		Stdout:     m.Stdout,
		Stderr:     m.Stderr,
		ClaimedBy:  m.ClaimedBy,
		ClaimedAt:  m.ClaimedAt,
	}
}

// fromSpec builds a new pending jobModel from a validated job.Spec.
func fromSpec(spec job.Spec, defaultMaxRetries uint32, now time.Time) *jobModel {
	id := spec.Id
	if id == "" {
		id = uuid.NewString()
	}
	maxRetries := defaultMaxRetries
	if spec.MaxRetries != nil {
		maxRetries = *spec.MaxRetries
	}
	runAt := now
	if spec.RunAt != nil {
		runAt = *spec.RunAt
	}
	return &jobModel{
		Id:         id,
		Command:    spec.Command,
		State:      job.Pending,
		Attempts:   0,
		MaxRetries: maxRetries,
		Priority:   spec.Priority,
		RunAt:      runAt,
		NextRunAt:  runAt,
		CreatedAt:  now,
		UpdatedAt:  now,
		Stdout:     "",
		Stderr:     "",
	}
}
