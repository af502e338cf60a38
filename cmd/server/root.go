package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/iliyamo/venue-directory/internal/config"
	"github.com/iliyamo/venue-directory/internal/database"
)

var rootCmd = &cobra.Command{
	Use:           "server",
	Short:         "Venue, artist and show directory",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// newLogger builds the process logger: JSON in production, text otherwise,
// copied to cfg.LogFile when set. The returned closer releases the file.
func newLogger(cfg config.Config) (*logrus.Logger, io.Closer, error) {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	logger.SetLevel(level)

	if cfg.Production() {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if cfg.LogFile == "" {
		return logger, io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger.SetOutput(io.MultiWriter(os.Stdout, f))
	return logger, f, nil
}

// openDB opens the configured database and returns it with its dialect.
func openDB(ctx context.Context, cfg config.Config) (*sql.DB, database.Dialect, error) {
	d, err := database.ParseDialect(cfg.DBDriver)
	if err != nil {
		return nil, "", err
	}
	dsn := database.SQLiteDSN(cfg.DBPath)
	if d == database.MySQL {
		dsn = database.MySQLDSN(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	}
	db, err := database.Open(ctx, d, dsn)
	if err != nil {
		return nil, "", fmt.Errorf("open %s database: %w", d, err)
	}
	return db, d, nil
}

// bootstrap loads config, logger and database, the common prefix of
// every command. cleanup must be called once the command finishes.
func bootstrap(ctx context.Context) (cfg config.Config, logger *logrus.Logger, db *sql.DB, d database.Dialect, cleanup func(), err error) {
	cfg, err = config.Load()
	if err != nil {
		return
	}
	logger, logFile, err := newLogger(cfg)
	if err != nil {
		return
	}
	db, d, err = openDB(ctx, cfg)
	if err != nil {
		_ = logFile.Close()
		return
	}
	cleanup = func() {
		if err := db.Close(); err != nil {
			logger.WithError(err).Warn("closing database")
		}
		_ = logFile.Close()
	}
	return
}
