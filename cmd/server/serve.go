package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	"github.com/iliyamo/venue-directory/internal/config"
	"github.com/iliyamo/venue-directory/internal/database"
	"github.com/iliyamo/venue-directory/internal/handler"
	"github.com/iliyamo/venue-directory/internal/middleware"
	"github.com/iliyamo/venue-directory/internal/queue"
	"github.com/iliyamo/venue-directory/internal/router"
	"github.com/iliyamo/venue-directory/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Apply pending migrations and serve the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// runServe wires config, logger, database, optional Redis and broker,
// then serves until SIGINT/SIGTERM or a listener error.
func runServe(ctx context.Context) error {
	cfg, logger, db, dialect, cleanup, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer cleanup()
	logger.WithField("env", cfg.Env).Info("application initializing")

	// bring the schema up to date before accepting traffic
	n, err := database.NewMigrator(db, dialect, logger).Up(ctx, 0)
	if err != nil {
		logger.WithError(err).Error("error migrating database")
		return fmt.Errorf("migrating database: %w", err)
	}
	logger.WithField("applied", n).Info("database schema up to date")

	rdb := config.NewRedisClient(ctx)
	if rdb == nil {
		logger.Warn("redis unreachable, rate limiting disabled")
	} else {
		defer func() { _ = rdb.Close() }()
	}

	var events service.EventPublisher
	if cfg.AMQPURL != "" {
		pub := queue.NewPublisher(cfg.AMQPURL, logger)
		defer func() { _ = pub.Close() }()
		events = pub
	} else {
		logger.Info("no broker configured, events disabled")
	}

	dir := service.NewDirectory(db, logger, events)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(logger))

	limit := middleware.NewTokenBucket(cfg.RateLimit, rdb)
	router.RegisterRoutes(e, handler.NewDirectoryHandler(dir), limit)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	serverErrors := make(chan error, 1)

	addr := ":" + cfg.Port
	go func() {
		logger.Infof("API listening on %s", addr)
		serverErrors <- e.Start(addr)
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Infof("signal %v received, start shutdown", sig)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := e.Shutdown(ctx); err != nil {
			logger.WithError(err).Warn("error during graceful shutdown of HTTP server")
			if err := e.Close(); err != nil {
				return fmt.Errorf("could not stop server gracefully: %w", err)
			}
		}
	}
	logger.Info("server stopped")
	return nil
}
