// Command worker runs the scheduled automation tasks and the deferred job
// queue until interrupted.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/backoffice/internal/app"
	"github.com/MrJamesThe3rd/backoffice/internal/automation"
	"github.com/MrJamesThe3rd/backoffice/internal/config"
)

func main() {
	_ = godotenv.Load()

	if err := run(); err != nil {
		slog.Error("worker stopped", "error", err)
		os.Exit(1)
	}

	slog.Info("worker shutdown complete")
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()})))

	a, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("starting: %w", err)
	}

	defer func() {
		if err := a.Close(); err != nil {
			slog.Error("closing resources", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	schedule := func(interval time.Duration, tasks ...automation.Task) {
		g.Go(func() error {
			every(ctx, interval, func(ctx context.Context) {
				for _, task := range tasks {
					// Failures are in the report and the log; the next tick retries.
					_, _ = a.Automation.Run(ctx, task, automation.Options{})
				}
			})

			return nil
		})
	}

	schedule(cfg.Automation.RecurringInterval, automation.TaskRecurring)
	schedule(cfg.Automation.InvoiceInterval,
		automation.TaskOverdueInvoices,
		automation.TaskPaymentMatching,
		automation.TaskReminders,
		automation.TaskInvoiceGeneration,
	)
	schedule(cfg.Automation.BudgetInterval, automation.TaskBudgetAlerts)

	g.Go(func() error {
		every(ctx, cfg.Jobs.PollInterval, func(ctx context.Context) {
			n, err := a.Runner.RunDue(ctx)
			if err != nil {
				slog.ErrorContext(ctx, "job run failed", "error", err)
			} else if n > 0 {
				slog.InfoContext(ctx, "jobs processed", "count", n)
			}
		})

		return nil
	})

	slog.Info("worker started",
		"recurring_interval", cfg.Automation.RecurringInterval,
		"invoice_interval", cfg.Automation.InvoiceInterval,
		"budget_interval", cfg.Automation.BudgetInterval,
		"jobs_poll", cfg.Jobs.PollInterval,
	)

	return g.Wait()
}

// every runs fn immediately and then on each tick until ctx is done.
func every(ctx context.Context, d time.Duration, fn func(ctx context.Context)) {
	ticker := time.NewTicker(d)
	defer ticker.Stop()

	for {
		fn(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
