package main

import (
	"context"
	"fmt"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ClassyOmkar/queuectl-process-manager/internal/manager"
	"github.com/ClassyOmkar/queuectl-process-manager/internal/worker"
)

const (
	defaultPollInterval = time.Second
	defaultBackoffBase  = 2
)

func newWorkerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Manage the worker pool",
	}
	cmd.AddCommand(newWorkerStartCmd(), newWorkerStopCmd())
	return cmd
}

func newWorkerStartCmd() *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the worker manager in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			poll, err := configDuration(ctx, "worker_poll_interval", defaultPollInterval)
			if err != nil {
				return err
			}
			backoffBase, err := configUint32(ctx, "backoff_base", defaultBackoffBase)
			if err != nil {
				return err
			}

			m := manager.New(current.store, manager.Config{
				LifecyclePath:      current.lifecycle,
				ShutdownMarkerPath: current.shutdownMkr,
				Worker: worker.Config{
					PollInterval: poll,
					BackoffBase:  backoffBase,
				},
			}, current.log)

			fmt.Fprintf(cmd.OutOrStdout(), "starting %d worker(s)\n", count)
			return m.Run(ctx, count)
		},
	}
	cmd.Flags().IntVar(&count, "count", 1, "number of workers to run")
	return cmd
}

func newWorkerStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Ask a running worker manager to shut down",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := manager.New(current.store, manager.Config{
				LifecyclePath:      current.lifecycle,
				ShutdownMarkerPath: current.shutdownMkr,
			}, current.log)
			if err := m.RequestStop(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "stopped")
			return nil
		},
	}
}

func configDuration(ctx context.Context, key string, def time.Duration) (time.Duration, error) {
	v, ok, err := current.store.ConfigGet(ctx, key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return def, nil
	}
	seconds, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def, nil
	}
	return time.Duration(seconds * float64(time.Second)), nil
}

func configUint32(ctx context.Context, key string, def uint32) (uint32, error) {
	v, ok, err := current.store.ConfigGet(ctx, key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return def, nil
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return def, nil
	}
	return uint32(n), nil
}
