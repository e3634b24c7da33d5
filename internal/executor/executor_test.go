package executor_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ClassyOmkar/queuectl-process-manager/internal/executor"
)

func TestRunSuccessCapturesStdout(t *testing.T) {
	res := executor.Run(context.Background(), "printf hello", time.Second)
	if res.ExitCode != 0 {
		t.Fatalf("expected exit code 0, got %d", res.ExitCode)
	}
	if res.Error != "" {
		t.Fatalf("expected no error, got %q", res.Error)
	}
	if res.Stdout != "hello" {
		t.Fatalf("expected stdout %q, got %q", "hello", res.Stdout)
	}
}

func TestRunNonZeroExit(t *testing.T) {
	res := executor.Run(context.Background(), "exit 7", time.Second)
	if res.ExitCode != 7 {
		t.Fatalf("expected exit code 7, got %d", res.ExitCode)
	}
	if res.Error != "nonzero_exit" {
		t.Fatalf("expected nonzero_exit, got %q", res.Error)
	}
}

func TestRunTimeout(t *testing.T) {
	res := executor.Run(context.Background(), "sleep 5", 50*time.Millisecond)
	if res.Error != "timeout" {
		t.Fatalf("expected timeout, got %q", res.Error)
	}
	if res.ExitCode != -1 {
		t.Fatalf("expected exit code -1, got %d", res.ExitCode)
	}
}

func TestRunCapturesStderr(t *testing.T) {
	res := executor.Run(context.Background(), "printf err >&2; exit 1", time.Second)
	if !strings.Contains(res.Stderr, "err") {
		t.Fatalf("expected stderr to contain 'err', got %q", res.Stderr)
	}
}
