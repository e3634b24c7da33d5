package main

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "modernc.org/sqlite"

	"github.com/ClassyOmkar/queuectl-process-manager/internal/store/sqlstore"
)

const defaultDBPath = "./data/queuectl.db"

// app bundles everything a subcommand needs once the root command's
// PersistentPreRunE has opened the database: the store, a logger, and
// the file paths derived from the database location.
type app struct {
	store       *sqlstore.Store
	db          *bun.DB
	log         *slog.Logger
	dbPath      string
	lifecycle   string
	shutdownMkr string
	logFile     *os.File
}

func (a *app) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}

var current *app

func newRootCmd() *cobra.Command {
	var dbPath string

	root := &cobra.Command{
		Use:           "queuectl",
		Short:         "A persistent, single-host background job queue",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(dbPath)
			if err != nil {
				return err
			}
			current = a
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if current != nil {
				current.Close()
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&dbPath, "db", defaultDBPath, "path to the queue database file")

	root.AddCommand(
		newInitDBCmd(),
		newEnqueueCmd(),
		newWorkerCmd(),
		newStatusCmd(),
		newListCmd(),
		newShowCmd(),
		newDLQCmd(),
		newConfigCmd(),
		newDashboardCmd(),
		newSweepCmd(),
	)
	return root
}

func openApp(dbPath string) (*app, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("queuectl: creating data directory: %w", err)
	}

	logPath := filepath.Join(dir, "queuectl.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("queuectl: opening log file: %w", err)
	}
	log := slog.New(slog.NewTextHandler(io.MultiWriter(logFile, os.Stderr), &slog.HandlerOptions{
		Level: logLevelFromEnv(),
	}))

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", dbPath)
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("queuectl: opening database: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	db := bun.NewDB(sqlDB, sqlitedialect.New())

	return &app{
		store:       sqlstore.New(db),
		db:          db,
		log:         log,
		dbPath:      dbPath,
		lifecycle:   filepath.Join(dir, "worker_manager.pid"),
		shutdownMkr: filepath.Join(dir, "worker_manager.shutdown"),
		logFile:     logFile,
	}, nil
}

// logLevelFromEnv maps QUEUECTL_LOG_LEVEL ("debug", "info", "warn",
// "error") to a slog.Level, defaulting to Info.
func logLevelFromEnv() slog.Level {
	switch os.Getenv("QUEUECTL_LOG_LEVEL") {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
