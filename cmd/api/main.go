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

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/backoffice/internal/app"
	"github.com/MrJamesThe3rd/backoffice/internal/config"
	backofficeHttp "github.com/MrJamesThe3rd/backoffice/internal/http"
	automationHandler "github.com/MrJamesThe3rd/backoffice/internal/http/automation"
	budgetHandler "github.com/MrJamesThe3rd/backoffice/internal/http/budget"
	importHandler "github.com/MrJamesThe3rd/backoffice/internal/http/importcsv"
	invoiceHandler "github.com/MrJamesThe3rd/backoffice/internal/http/invoice"
	jobsHandler "github.com/MrJamesThe3rd/backoffice/internal/http/jobs"
	recurringHandler "github.com/MrJamesThe3rd/backoffice/internal/http/recurring"
	rulesHandler "github.com/MrJamesThe3rd/backoffice/internal/http/rules"
	txHandler "github.com/MrJamesThe3rd/backoffice/internal/http/transaction"
	webhooksHandler "github.com/MrJamesThe3rd/backoffice/internal/http/webhooks"
)

func main() {
	_ = godotenv.Load()

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
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

	router := backofficeHttp.New(backofficeHttp.Handlers{
		Transactions: txHandler.NewHandler(a.Transactions),
		Import:       importHandler.NewHandler(a.Importer, a.Transactions),
		Rules:        rulesHandler.NewHandler(a.Registry),
		Invoices:     invoiceHandler.NewHandler(a.Invoices),
		Recurring:    recurringHandler.NewHandler(a.Recurring),
		Budgets:      budgetHandler.NewHandler(a.Budgets),
		Automation:   automationHandler.NewHandler(a.Automation),
		Webhooks:     webhooksHandler.NewHandler(a.Tickets, a.Jobs),
		Jobs:         jobsHandler.NewHandler(a.Jobs),
	}, backofficeHttp.Options{
		CORSOrigins: cfg.Server.CORSOrigins,
		JWTSecret:   cfg.Auth.JWTSecret,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout + cfg.Automation.BatchTimeout,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "addr", srv.Addr, "auth", cfg.Auth.JWTSecret != "")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
