// Package dashboard serves a read-only HTTP view over the job store:
// a small server-rendered HTML page that refreshes itself, plus JSON
// endpoints for status counts and job listings.
//
// The dashboard never mutates the store. Callers are expected to hand
// it a store.Observer backed by a read-only database handle
// (sqlstore.NewReadOnly).
package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ClassyOmkar/queuectl-process-manager/internal/store"
)

// New builds the dashboard's http.Handler.
func New(observer store.Observer, log *slog.Logger) http.Handler {
	h := &handler{observer: observer, log: log}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Get("/", h.index)
	r.Get("/api/status", h.status)
	r.Get("/api/jobs", h.jobs)
	return r
}
