package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pratik-mahalle/creditwatch/internal/api/handlers"
	"github.com/pratik-mahalle/creditwatch/internal/api/router"
	"github.com/pratik-mahalle/creditwatch/internal/config"
	"github.com/pratik-mahalle/creditwatch/internal/detector"
	"github.com/pratik-mahalle/creditwatch/internal/notifier"
	"github.com/pratik-mahalle/creditwatch/internal/pkg/logger"
	"github.com/pratik-mahalle/creditwatch/internal/pkg/validator"
	"github.com/pratik-mahalle/creditwatch/internal/repository/sqlite"
	"github.com/pratik-mahalle/creditwatch/internal/services"
	"github.com/pratik-mahalle/creditwatch/internal/worker"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	log.Info("Starting CreditWatch API server")

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	alertRepo := sqlite.NewAlertRepository(db)
	prefRepo := sqlite.NewPreferenceRepository(db)
	portfolioRepo := sqlite.NewPortfolioRepository(db)

	dispatcher := notifier.New(cfg.Notification, log)
	store := services.NewAlertStore(alertRepo, prefRepo, dispatcher,
		services.SystemClock{}, services.UUIDGenerator{}, log)

	engine := detector.New()
	scanService := services.NewScanService(portfolioRepo, engine, store, log)

	val := validator.New()
	h := &router.Handlers{
		Health:       handlers.NewHealthHandler(db.SQL(), log),
		Alert:        handlers.NewAlertHandler(store, log, val),
		Notification: handlers.NewNotificationHandler(store, log, val),
		Scan:         handlers.NewScanHandler(scanService, log),
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.New(log, h),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Scanner.Enabled {
		scheduler := worker.NewScanScheduler(scanService, cfg.Scanner.Schedule, log)
		go func() {
			if err := scheduler.Start(ctx); err != nil {
				log.ErrorWithErr(err, "Scan scheduler failed")
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
