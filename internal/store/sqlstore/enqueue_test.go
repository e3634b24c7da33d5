package sqlstore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ClassyOmkar/queuectl-process-manager/internal/job"
	"github.com/ClassyOmkar/queuectl-process-manager/internal/store"
)

func TestEnqueueAssignsDefaults(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	j, err := s.Enqueue(ctx, job.Spec{Command: "echo hi"})
	if err != nil {
		t.Fatal(err)
	}
	if j.Id == "" {
		t.Fatal("expected generated id")
	}
	if j.State != job.Pending {
		t.Fatalf("expected Pending, got %v", j.State)
	}
	if j.MaxRetries == 0 {
		t.Fatal("expected a default max retries")
	}
}

func TestEnqueueRejectsBlankCommand(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Enqueue(ctx, job.Spec{Command: "   "})
	if !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestEnqueueRejectsDuplicateID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	spec := job.Spec{Id: "fixed-id", Command: "echo hi"}
	if _, err := s.Enqueue(ctx, spec); err != nil {
		t.Fatal(err)
	}
	_, err := s.Enqueue(ctx, spec)
	if !errors.Is(err, store.ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}
