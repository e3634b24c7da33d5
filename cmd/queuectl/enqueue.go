package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ClassyOmkar/queuectl-process-manager/internal/job"
	"github.com/ClassyOmkar/queuectl-process-manager/internal/store"
)

// enqueueRequest is the JSON shape accepted as the positional argument
// to `enqueue`; its fields mirror the --command/--id/... flags.
type enqueueRequest struct {
	Id         string  `json:"id"`
	Command    string  `json:"command"`
	MaxRetries *uint32 `json:"max_retries"`
	Priority   int64   `json:"priority"`
	RunAt      string  `json:"run_at"`
}

func newEnqueueCmd() *cobra.Command {
	var (
		id         string
		command    string
		maxRetries uint32
		hasMax     bool
		priority   int64
		runAt      string
	)

	cmd := &cobra.Command{
		Use:   "enqueue [json]",
		Short: "Add a new job to the queue",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var req enqueueRequest
			if len(args) == 1 {
				dec := json.NewDecoder(bytes.NewReader([]byte(args[0])))
				dec.DisallowUnknownFields()
				if err := dec.Decode(&req); err != nil {
					return fmt.Errorf("%w: %v", store.ErrInvalidInput, err)
				}
			} else {
				req = enqueueRequest{Id: id, Command: command, Priority: priority, RunAt: runAt}
				if hasMax {
					req.MaxRetries = &maxRetries
				}
			}

			spec := job.Spec{
				Id:         req.Id,
				Command:    req.Command,
				MaxRetries: req.MaxRetries,
				Priority:   req.Priority,
			}
			if req.RunAt != "" {
				t, err := time.Parse(time.RFC3339, req.RunAt)
				if err != nil {
					return fmt.Errorf("%w: invalid run-at %q: %v", store.ErrInvalidInput, req.RunAt, err)
				}
				spec.RunAt = &t
			}

			j, err := current.store.Enqueue(cmd.Context(), spec)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), j.Id)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "job id (generated if omitted)")
	cmd.Flags().StringVar(&command, "command", "", "shell command to run")
	cmd.Flags().Uint32Var(&maxRetries, "max-retries", 0, "maximum retry attempts")
	cmd.Flags().Int64Var(&priority, "priority", 0, "scheduling priority, higher runs first")
	cmd.Flags().StringVar(&runAt, "run-at", "", "earliest eligible time, RFC3339 UTC")
	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		hasMax = cmd.Flags().Changed("max-retries")
		return nil
	}

	return cmd
}
