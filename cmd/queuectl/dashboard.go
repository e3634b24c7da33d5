package main

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "modernc.org/sqlite"

	"github.com/ClassyOmkar/queuectl-process-manager/internal/dashboard"
	"github.com/ClassyOmkar/queuectl-process-manager/internal/store/sqlstore"
)

func newDashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Run the read-only status dashboard",
	}
	cmd.AddCommand(newDashboardStartCmd())
	return cmd
}

func newDashboardStartCmd() *cobra.Command {
	var (
		host string
		port int
	)
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Serve the dashboard over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", current.dbPath)
			sqlDB, err := sql.Open("sqlite", dsn)
			if err != nil {
				return fmt.Errorf("queuectl: opening database read-only: %w", err)
			}
			defer sqlDB.Close()
			db := bun.NewDB(sqlDB, sqlitedialect.New())
			observer := sqlstore.NewReadOnly(db)

			addr := net.JoinHostPort(host, fmt.Sprintf("%d", port))
			srv := &http.Server{Addr: addr, Handler: dashboard.New(observer, current.log)}

			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe() }()
			current.log.Info("dashboard listening", "addr", addr)

			select {
			case err := <-errCh:
				if err != nil && err != http.ErrServerClosed {
					return err
				}
				return nil
			case <-ctx.Done():
				return srv.Shutdown(context.Background())
			}
		},
	}
	cmd.Flags().StringVar(&host, "host", "127.0.0.1", "dashboard listen host")
	cmd.Flags().IntVar(&port, "port", 5000, "dashboard listen port")
	return cmd
}
