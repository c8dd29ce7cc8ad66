package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"contas/internal/backend"
	"contas/internal/cli"
	"contas/internal/config"
	"contas/internal/console"
	"contas/internal/core"
	applog "contas/internal/log"
	"contas/internal/services"
	"contas/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production)
	cli.LoadEnvFile()

	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg)

	if err := run(cfg, logger); err != nil {
		slog.Error("contas stopped", applog.FieldError, err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *applog.Logger) error {
	logger.Info("Starting contas", applog.FieldOperation, applog.OpStartup, "backend", cfg.DataBackend)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return fmt.Errorf("backend configuration: %w", err)
	}

	initCtx, initCancel := context.WithTimeout(context.Background(), 30*time.Second)
	res, err := backend.NewFactory(logger).CreateBackend(initCtx, backendCfg)
	initCancel()
	if err != nil {
		return fmt.Errorf("initialize backend: %w", err)
	}
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Cleanup failed", applog.FieldError, err)
		}
	}()

	ledger := services.NewLedgerService(res.Store, res.Notifier)
	summary := services.NewSummaryService(ledger)

	ctx, cancel := cli.GracefulShutdown(logger, nil)
	defer cancel()

	if cfg.SampleData {
		if err := ledger.LoadSampleData(ctx, core.Today(time.Now())); err != nil {
			return fmt.Errorf("load sample data: %w", err)
		}
	}

	// Reminders only make sense when someone can receive them
	if res.Notifier != nil {
		checker, err := worker.GetCadenceChecker(cfg.ReminderEvery)
		if err != nil {
			return err
		}
		reminders := worker.NewReminderWorker(ledger, res.Notifier, checker, cfg.ReminderInterval, logger)
		go reminders.Run(ctx)
	}

	menu := console.NewMenu(console.NewPrompter(os.Stdin, os.Stdout), ledger, summary, res.Reports, cfg.CurrencySymbol)

	// The menu blocks on stdin, so a signal must be able to end run without it
	done := make(chan error, 1)
	go func() { done <- menu.Run(ctx) }()

	select {
	case err = <-done:
		if errors.Is(err, context.Canceled) {
			err = nil
		}
	case <-ctx.Done():
		err = nil
	}

	logger.Info("Shutting down contas", applog.FieldOperation, applog.OpShutdown)
	return err
}
