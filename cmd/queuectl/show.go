package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ClassyOmkar/queuectl-process-manager/internal/store"
)

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a single job's full metadata and captured output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := current.store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if j == nil {
				return fmt.Errorf("%w: job %q", store.ErrNotFound, args[0])
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "id:          %s\n", j.Id)
			fmt.Fprintf(out, "command:     %s\n", j.Command)
			fmt.Fprintf(out, "state:       %s\n", j.State)
			fmt.Fprintf(out, "attempts:    %d/%d\n", j.Attempts, j.MaxRetries)
			fmt.Fprintf(out, "priority:    %d\n", j.Priority)
			fmt.Fprintf(out, "run_at:      %s\n", j.RunAt.Format(timeLayout))
			fmt.Fprintf(out, "next_run_at: %s\n", j.NextRunAt.Format(timeLayout))
			fmt.Fprintf(out, "created_at:  %s\n", j.CreatedAt.Format(timeLayout))
			fmt.Fprintf(out, "updated_at:  %s\n", j.UpdatedAt.Format(timeLayout))
			if j.ExitCode != nil {
				fmt.Fprintf(out, "exit_code:   %d\n", *j.ExitCode)
			}
			if j.Error != nil {
				fmt.Fprintf(out, "error:       %s\n", *j.Error)
			}
			fmt.Fprintf(out, "stdout:\n%s\n", j.Stdout)
			fmt.Fprintf(out, "stderr:\n%s\n", j.Stderr)
			return nil
		},
	}
}

const timeLayout = "2006-01-02T15:04:05Z07:00"
