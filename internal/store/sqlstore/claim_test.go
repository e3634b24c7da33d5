package sqlstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/ClassyOmkar/queuectl-process-manager/internal/job"
)

func TestClaimOrdersByPriority(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	low, err := s.Enqueue(ctx, job.Spec{Command: "low", Priority: 0})
	if err != nil {
		t.Fatal(err)
	}
	high, err := s.Enqueue(ctx, job.Spec{Command: "high", Priority: 10})
	if err != nil {
		t.Fatal(err)
	}
	now := time.Now()

	claimed, err := s.Claim(ctx, "worker-1", now)
	if err != nil {
		t.Fatal(err)
	}
	if claimed == nil || claimed.Id != high.Id {
		t.Fatalf("expected to claim the higher priority job %s, got %v", high.Id, claimed)
	}
	if claimed.State != job.Processing {
		t.Fatalf("expected Processing, got %v", claimed.State)
	}
	if claimed.ClaimedBy == nil || *claimed.ClaimedBy != "worker-1" {
		t.Fatalf("expected claimed_by worker-1, got %v", claimed.ClaimedBy)
	}
	if claimed.Attempts != 0 {
		t.Fatalf("expected Claim to leave attempts untouched, got %d", claimed.Attempts)
	}

	next, err := s.Claim(ctx, "worker-1", now)
	if err != nil {
		t.Fatal(err)
	}
	if next == nil || next.Id != low.Id {
		t.Fatalf("expected to claim the remaining job %s, got %v", low.Id, next)
	}
}

func TestClaimSkipsFutureRunAt(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()
	future := now.Add(time.Hour)

	if _, err := s.Enqueue(ctx, job.Spec{Command: "later", RunAt: &future}); err != nil {
		t.Fatal(err)
	}

	claimed, err := s.Claim(ctx, "worker-1", now)
	if err != nil {
		t.Fatal(err)
	}
	if claimed != nil {
		t.Fatalf("expected no claimable job, got %v", claimed)
	}
}

func TestClaimReturnsNilWhenEmpty(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	claimed, err := s.Claim(ctx, "worker-1", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if claimed != nil {
		t.Fatalf("expected nil, got %v", claimed)
	}
}
