// Command queuectl is the CLI front end for the job queue: it enqueues
// work, runs workers against it, and inspects its state.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ClassyOmkar/queuectl-process-manager/internal/manager"
	"github.com/ClassyOmkar/queuectl-process-manager/internal/store"
)

func main() {
	os.Exit(run())
}

func run() int {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "queuectl:", err)
		return exitCodeFor(err)
	}
	return 0
}

// exitCodeFor maps a returned error to the process exit code: 1 for
// user-facing validation/state errors, 2 for everything else
// (storage/I/O failures bubbled up unchanged).
func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, store.ErrDuplicateID),
		errors.Is(err, store.ErrInvalidInput),
		errors.Is(err, store.ErrNotFound),
		errors.Is(err, manager.ErrAlreadyRunning),
		errors.Is(err, manager.ErrNotRunning):
		return 1
	default:
		return 2
	}
}
