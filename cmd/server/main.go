package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rezkam/dolist/internal/application/task"
	"github.com/rezkam/dolist/internal/application/worker"
	"github.com/rezkam/dolist/internal/clock"
	"github.com/rezkam/dolist/internal/config"
	httpserver "github.com/rezkam/dolist/internal/infrastructure/http"
	"github.com/rezkam/dolist/internal/infrastructure/http/handler"
	"github.com/rezkam/dolist/internal/infrastructure/observability"
	"github.com/rezkam/dolist/internal/reminder"
	"github.com/rezkam/dolist/internal/settings"
	"github.com/rezkam/dolist/internal/storage"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to run: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadServerConfig()
	if err != nil {
		return err
	}

	// Root context, cancelled on SIGTERM/SIGINT.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	level, _ := cfg.Observability.SlogLevel()
	providers, err := observability.Setup(ctx, observability.Config{
		Enabled:     cfg.Observability.OTelEnabled,
		ServiceName: cfg.Observability.ServiceName,
		LogLevel:    level,
	})
	if err != nil {
		return fmt.Errorf("failed to init observability: %w", err)
	}
	defer func() {
		// Bounded so an unreachable collector cannot hang shutdown.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(os.Stderr, "failed to shutdown telemetry: %v\n", err)
		}
	}()
	slog.SetDefault(providers.Log)

	slog.InfoContext(ctx, "starting dolist server", "storage", cfg.Storage.Type)

	repo, closeStore, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	appearanceFile := settings.NewFile(cfg.SettingsFile)
	appearance, err := appearanceFile.Load()
	if err != nil {
		_ = closeStore()
		return fmt.Errorf("failed to load appearance settings: %w", err)
	}

	clk := clock.System()
	notifier := reminder.NewLocalNotifier(ctx, reminder.LogSink{},
		reminder.WithDeliveryRate(cfg.Reminder.DeliveriesPerMinute, cfg.Reminder.DeliveryBurst))
	scheduler := reminder.NewScheduler(ctx, notifier, clk, reminder.Config{
		OperationTimeout: cfg.Reminder.OperationTimeout,
		QueueSize:        cfg.Reminder.QueueSize,
		Title:            cfg.Reminder.Title,
	})

	cleanup := newCleanup(scheduler, notifier, closeStore)

	if err := scheduler.RequestPermission(ctx); err != nil {
		slog.WarnContext(ctx, "reminders disabled", "error", err)
	}

	tasks := task.NewService(repo, scheduler, clk, task.Config{
		Palette:      appearance.Palette(),
		ObserveAll:   true,
		ReminderLead: cfg.Reminder.Lead,
	})
	if err := tasks.Load(ctx); err != nil {
		cleanup(context.Background())
		return err
	}

	tickWorker := worker.New(tasks,
		worker.WithTickInterval(cfg.Tick.Interval),
		worker.WithOperationTimeout(cfg.Tick.OperationTimeout))
	workerDone := make(chan error, 1)
	go func() {
		workerDone <- tickWorker.Start(ctx)
	}()

	server := httpserver.NewAPIServer(handler.NewRouter(tasks, appearanceFile, clk), httpserver.ServerConfig{
		Host:               cfg.HTTP.Host,
		Port:               cfg.HTTP.Port,
		ReadTimeout:        cfg.HTTP.ReadTimeout,
		WriteTimeout:       cfg.HTTP.WriteTimeout,
		IdleTimeout:        cfg.HTTP.IdleTimeout,
		ReadHeaderTimeout:  cfg.HTTP.ReadHeaderTimeout,
		MaxHeaderBytes:     cfg.HTTP.MaxHeaderBytes,
		MaxBodyBytes:       cfg.HTTP.MaxBodyBytes,
		APIKeyHash:         cfg.Auth.APIKeyHash,
		RateLimitPerMinute: cfg.Auth.RateLimitPerMinute,
		RateLimitBurst:     cfg.Auth.RateLimitBurst,
		Version:            version,
	})
	if cfg.Auth.APIKeyHash == "" {
		slog.WarnContext(ctx, "API key authentication disabled, DOLIST_API_KEY_HASH is empty")
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("failed to serve HTTP: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		slog.InfoContext(ctx, "shutting down")
	case runErr = <-serveErr:
		cancel()
	}

	// Fresh context: the root one is already cancelled.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "failed to shutdown HTTP server", "error", err)
	}

	select {
	case <-workerDone:
	case <-shutdownCtx.Done():
		slog.WarnContext(shutdownCtx, "tick worker did not stop before shutdown timeout")
	}

	cleanup(shutdownCtx)
	return runErr
}
