// Package sqlstore is the bun/sqlite-backed implementation of
// store.Store: a single bun.DB handle, an atomic
// "UPDATE ... WHERE id IN (subquery) RETURNING *" claim strategy, and
// one small file per concern (model, init, claim, finalize, observer,
// dlq, config, sweep, util).
package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	qstore "github.com/ClassyOmkar/queuectl-process-manager/internal/store"
)

// errReadOnly is returned by every mutating method on a Store created
// with NewReadOnly.
var errReadOnly = errors.New("store: read-only handle cannot mutate state")

// Store is a store.Store backed by a *bun.DB. The caller is responsible
// for opening and configuring the underlying *sql.DB (connection
// limits, WAL mode, busy_timeout for SQLite) before constructing Store.
type Store struct {
	db       *bun.DB
	readOnly bool
}

const fallbackMaxRetries uint32 = 3

// New creates a Store over db.
func New(db *bun.DB) *Store {
	return &Store{db: db}
}

// defaultMaxRetries is consulted by Enqueue whenever a Spec omits
// MaxRetries; it reads config's "max_retries" key, falling back to
// fallbackMaxRetries if unset or unparsable.
func (s *Store) defaultMaxRetries(ctx context.Context) uint32 {
	v, ok, err := s.ConfigGet(ctx, "max_retries")
	if err != nil || !ok {
		return fallbackMaxRetries
	}
	var n uint32
	if _, err := fmt.Sscan(v, &n); err != nil {
		return fallbackMaxRetries
	}
	return n
}

const fallbackBackoffBase uint32 = 2

// defaultBackoffBase reads config's "backoff_base" key, falling back to
// fallbackBackoffBase if unset or unparsable. Used by SweepExpiredLeases,
// which, unlike Fail, takes no caller-supplied backoff base.
func (s *Store) defaultBackoffBase(ctx context.Context) uint32 {
	v, ok, err := s.ConfigGet(ctx, "backoff_base")
	if err != nil || !ok {
		return fallbackBackoffBase
	}
	var n uint32
	if _, err := fmt.Sscan(v, &n); err != nil {
		return fallbackBackoffBase
	}
	return n
}

// NewReadOnly creates a Store intended only for Observer use (the
// dashboard façade). Mutating methods return an error rather than
// touching the database.
func NewReadOnly(db *bun.DB) *Store {
	return &Store{db: db, readOnly: true}
}

func (s *Store) Init(ctx context.Context) error {
	if s.readOnly {
		return errReadOnly
	}
	return InitDB(ctx, s.db)
}

func (s *Store) Close() error {
	return s.db.Close()
}

var _ qstore.Store = (*Store)(nil)
