package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDLQCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dlq",
		Short: "Inspect and recover dead-lettered jobs",
	}
	cmd.AddCommand(newDLQListCmd(), newDLQRetryCmd())
	return cmd
}

func newDLQListCmd() *cobra.Command {
	var (
		limit  int
		offset int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List jobs that exhausted their retries",
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, err := current.store.DLQList(cmd.Context(), limit, offset)
			if err != nil {
				return err
			}
			renderJobTable(cmd, jobs)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum jobs to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of jobs to skip")
	return cmd
}

func newDLQRetryCmd() *cobra.Command {
	var maxRetries uint32
	cmd := &cobra.Command{
		Use:   "retry <id>",
		Short: "Move a dead job back to pending",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var newMax *uint32
			if cmd.Flags().Changed("max-retries") {
				newMax = &maxRetries
			}
			if err := current.store.DLQRetry(cmd.Context(), args[0], newMax, timeNowUTC()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "retried", args[0])
			return nil
		},
	}
	cmd.Flags().Uint32Var(&maxRetries, "max-retries", 0, "override max retries on retry")
	return cmd
}
