package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/rezkam/dolist/internal/application/task"
	"github.com/rezkam/dolist/internal/clock"
	"github.com/rezkam/dolist/internal/config"
	"github.com/rezkam/dolist/internal/domain"
	"github.com/rezkam/dolist/internal/reminder"
	"github.com/rezkam/dolist/internal/settings"
	"github.com/rezkam/dolist/internal/storage"
)

// app is the per-invocation wiring of the task core.
type app struct {
	cfg        *config.CLIConfig
	clock      clock.Clock
	tasks      *task.Service
	appearance *settings.File
	scheduler  *reminder.Scheduler
	notifier   *reminder.LocalNotifier
	closeStore func() error
}

// loadConfig reads the environment and applies flag overrides.
func loadConfig(opts *rootOptions) (*config.CLIConfig, error) {
	cfg, err := config.LoadCLIConfig()
	if err != nil {
		return nil, err
	}

	if opts.storage != "" {
		cfg.Storage.Type = opts.storage
	}
	if opts.dbPath != "" {
		cfg.Storage.SQLitePath = opts.dbPath
	}
	if opts.dataDir != "" {
		cfg.Storage.FSDir = opts.dataDir
	}
	if opts.settings != "" {
		cfg.SettingsFile = opts.settings
	}

	if err := cfg.Storage.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func configureLogging(opts *rootOptions, cfg *config.CLIConfig) {
	level := slog.LevelWarn
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelWarn
	}
	if opts.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// openApp wires storage, reminders and the task service. Reminders are
// delivered to sink while the process runs.
func openApp(ctx context.Context, opts *rootOptions, sink reminder.Sink) (*app, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	configureLogging(opts, cfg)

	clk := opts.clock
	if clk == nil {
		clk = clock.System()
	}

	appearance := settings.NewFile(cfg.SettingsFile)
	look, err := appearance.Load()
	if err != nil {
		return nil, err
	}

	repo, closeStore, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}

	notifier := reminder.NewLocalNotifier(ctx, sink,
		reminder.WithDeliveryRate(cfg.Reminder.DeliveriesPerMinute, cfg.Reminder.DeliveryBurst))
	scheduler := reminder.NewScheduler(ctx, notifier, clk, reminder.Config{
		OperationTimeout: cfg.Reminder.OperationTimeout,
		QueueSize:        cfg.Reminder.QueueSize,
		Title:            cfg.Reminder.Title,
	})
	if err := scheduler.RequestPermission(ctx); err != nil {
		slog.WarnContext(ctx, "reminders disabled", "error", err)
	}

	// Every open task counts as on screen, so overdue ones complete on the next tick.
	tasks := task.NewService(repo, scheduler, clk, task.Config{
		Palette:      look.Palette(),
		ObserveAll:   true,
		ReminderLead: cfg.Reminder.Lead,
	})

	a := &app{
		cfg:        cfg,
		clock:      clk,
		tasks:      tasks,
		appearance: appearance,
		scheduler:  scheduler,
		notifier:   notifier,
		closeStore: closeStore,
	}

	if err := tasks.Load(ctx); err != nil {
		a.close(ctx)
		return nil, err
	}
	return a, nil
}

// close drains reminder operations and releases storage.
func (a *app) close(ctx context.Context) {
	if err := a.scheduler.Shutdown(context.WithoutCancel(ctx)); err != nil {
		slog.WarnContext(ctx, "failed to shut down reminder scheduler", "error", err)
	}
	_ = a.notifier.Close()
	if err := a.closeStore(); err != nil {
		slog.WarnContext(ctx, "failed to close store", "error", err)
	}
}

// refresh applies auto-completion before tasks are shown.
func (a *app) refresh(ctx context.Context) error {
	_, err := a.tasks.Tick(ctx)
	return err
}

// resolveID accepts a full task ID or an unambiguous prefix of one.
func (a *app) resolveID(ctx context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("%w: empty id", domain.ErrInvalidID)
	}

	all, err := a.tasks.List(ctx, task.ListParams{View: domain.ViewAll})
	if err != nil {
		return "", err
	}

	var matches []string
	for _, t := range all {
		if t.ID == ref {
			return t.ID, nil
		}
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", domain.ErrTaskNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %q matches %d tasks", domain.ErrInvalidID, ref, len(matches))
	}
}
