package sqlstore_test

import (
	"context"
	"testing"

	"github.com/ClassyOmkar/queuectl-process-manager/internal/job"
)

func TestGetReturnsNilForUnknownID(t *testing.T) {
	s := newTestStore(t)
	got, err := s.Get(context.Background(), "does-not-exist")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestListFiltersByStateAndPaginates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := s.Enqueue(ctx, job.Spec{Command: "echo hi"}); err != nil {
			t.Fatal(err)
		}
	}

	all, err := s.List(ctx, job.Unknown, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 jobs, got %d", len(all))
	}

	page, err := s.List(ctx, job.Unknown, 2, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 2 {
		t.Fatalf("expected page of 2, got %d", len(page))
	}

	pending, err := s.List(ctx, job.Pending, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 3 {
		t.Fatalf("expected 3 pending jobs, got %d", len(pending))
	}

	completed, err := s.List(ctx, job.Completed, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(completed) != 0 {
		t.Fatalf("expected 0 completed jobs, got %d", len(completed))
	}
}

func TestCountsByState(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Enqueue(ctx, job.Spec{Command: "a"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Enqueue(ctx, job.Spec{Command: "b"}); err != nil {
		t.Fatal(err)
	}

	counts, err := s.CountsByState(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if counts[job.Pending] != 2 {
		t.Fatalf("expected 2 pending, got %d", counts[job.Pending])
	}
}
