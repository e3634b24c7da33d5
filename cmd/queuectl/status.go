package main

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/ClassyOmkar/queuectl-process-manager/internal/job"
	"github.com/ClassyOmkar/queuectl-process-manager/internal/manager"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show job counts by state and worker manager status",
		RunE: func(cmd *cobra.Command, args []string) error {
			counts, err := current.store.CountsByState(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			table := tablewriter.NewWriter(out)
			table.SetHeader([]string{"state", "count"})
			for _, st := range []job.State{job.Pending, job.Processing, job.Completed, job.Failed, job.Dead} {
				table.Append([]string{st.String(), fmt.Sprintf("%d", counts[st])})
			}
			table.Render()

			m := manager.New(current.store, manager.Config{
				LifecyclePath:      current.lifecycle,
				ShutdownMarkerPath: current.shutdownMkr,
			}, current.log)
			st, err := m.Status()
			if err != nil {
				return err
			}
			if st.Running {
				fmt.Fprintf(out, "manager: running (pid %d, %d workers)\n", st.PID, st.ActiveWorkers)
			} else {
				fmt.Fprintln(out, "manager: not running")
			}
			return nil
		},
	}
}
