package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ClassyOmkar/queuectl-process-manager/internal/sweeper"
)

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Manage the optional stuck-job recovery sweeper",
	}
	cmd.AddCommand(newSweepStartCmd())
	return cmd
}

func newSweepStartCmd() *cobra.Command {
	var (
		interval   time.Duration
		staleAfter time.Duration
	)
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the lease sweeper in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			sw := sweeper.New(current.store, sweeper.Config{
				Interval:   interval,
				StaleAfter: staleAfter,
			}, current.log)
			if err := sw.Start(ctx); err != nil {
				return err
			}
			<-ctx.Done()
			return sw.Stop(10 * time.Second)
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 30*time.Second, "how often to scan for stuck jobs")
	cmd.Flags().DurationVar(&staleAfter, "stale-after", 5*time.Minute, "how long a job may sit in processing before being reclaimed")
	return cmd
}
