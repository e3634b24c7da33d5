package main

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/ClassyOmkar/queuectl-process-manager/internal/job"
	"github.com/ClassyOmkar/queuectl-process-manager/internal/store"
)

func newListCmd() *cobra.Command {
	var (
		state  string
		limit  int
		offset int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List jobs, optionally filtered by state",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := job.ParseState(state)
			if err != nil {
				return fmt.Errorf("%w: %v", store.ErrInvalidInput, err)
			}
			jobs, err := current.store.List(cmd.Context(), st, limit, offset)
			if err != nil {
				return err
			}
			renderJobTable(cmd, jobs)
			return nil
		},
	}
	cmd.Flags().StringVar(&state, "state", "", "filter by state (pending, processing, completed, failed, dead)")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum jobs to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of jobs to skip")
	return cmd
}

func renderJobTable(cmd *cobra.Command, jobs []*job.Job) {
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"id", "state", "attempts/max", "priority", "command"})
	for _, j := range jobs {
		table.Append([]string{
			j.Id,
			j.State.String(),
			fmt.Sprintf("%d/%d", j.Attempts, j.MaxRetries),
			fmt.Sprintf("%d", j.Priority),
			j.Command,
		})
	}
	table.Render()
}
