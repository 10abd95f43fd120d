// Package app wires stores and services for the binaries.
package app

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/backoffice/internal/automation"
	"github.com/MrJamesThe3rd/backoffice/internal/budget"
	budgetStore "github.com/MrJamesThe3rd/backoffice/internal/budget/store"
	"github.com/MrJamesThe3rd/backoffice/internal/config"
	customerStore "github.com/MrJamesThe3rd/backoffice/internal/customer/store"
	"github.com/MrJamesThe3rd/backoffice/internal/database"
	"github.com/MrJamesThe3rd/backoffice/internal/importer"
	"github.com/MrJamesThe3rd/backoffice/internal/invoice"
	invoiceStore "github.com/MrJamesThe3rd/backoffice/internal/invoice/store"
	"github.com/MrJamesThe3rd/backoffice/internal/jobs"
	jobsStore "github.com/MrJamesThe3rd/backoffice/internal/jobs/store"
	"github.com/MrJamesThe3rd/backoffice/internal/notify"
	"github.com/MrJamesThe3rd/backoffice/internal/recurring"
	recurringStore "github.com/MrJamesThe3rd/backoffice/internal/recurring/store"
	"github.com/MrJamesThe3rd/backoffice/internal/registry"
	registryStore "github.com/MrJamesThe3rd/backoffice/internal/registry/store"
	ticketStore "github.com/MrJamesThe3rd/backoffice/internal/ticket/store"
	"github.com/MrJamesThe3rd/backoffice/internal/transaction"
	txStore "github.com/MrJamesThe3rd/backoffice/internal/transaction/store"
)

type App struct {
	Config *config.Config

	Tickets      *ticketStore.Store
	Transactions *transaction.Service
	Registry     *registry.Service
	Importer     *importer.Service
	Invoices     *invoice.Service
	Recurring    *recurring.Service
	Budgets      *budget.Service
	Jobs         *jobs.Service
	Runner       *jobs.Runner
	Automation   *automation.Service

	db      *sql.DB
	closers []func() error
}

// New connects to the database, applies migrations when enabled and builds
// every service.
func New(cfg *config.Config) (*App, error) {
	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if cfg.DB.Migrate {
		if err := database.Migrate(db); err != nil {
			db.Close()
			return nil, err
		}
	}

	a := &App{Config: cfg, db: db}

	var pub notify.Publisher = notify.NewLogPublisher(slog.Default())

	if cfg.AMQP.URL != "" {
		amqpPub, err := notify.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue)
		if err != nil {
			slog.Warn("AMQP unavailable, logging notifications instead", "error", err)
		} else {
			pub = amqpPub
			a.closers = append(a.closers, amqpPub.Close)
		}
	}

	directory := notify.NewDirectory(pub, cfg.Notify.FinanceRecipients)

	var (
		txRepo       = txStore.New(db)
		registryRepo = registryStore.New(db)
		jobsRepo     = jobsStore.New(db)
	)

	a.Tickets = ticketStore.New(db)
	a.Transactions = transaction.NewService(txRepo)
	a.Registry = registry.NewService(registryRepo)
	a.Importer = importer.NewService(a.Transactions, registryRepo)
	a.Jobs = jobs.NewService(jobsRepo, cfg.Jobs.MaxAttempts)
	a.Runner = jobs.NewRunner(jobsRepo, jobs.RunnerConfig{
		BatchSize:   cfg.Jobs.BatchSize,
		BaseBackoff: cfg.Jobs.BaseBackoff,
		MaxBackoff:  cfg.Jobs.MaxBackoff,
	})

	a.Invoices = invoice.NewService(invoiceStore.New(db), customerStore.New(db), a.Tickets, a.Jobs, directory)
	a.Invoices.RegisterJobs(a.Runner)

	a.Recurring = recurring.NewService(recurringStore.New(db))
	a.Budgets = budget.NewService(budgetStore.New(db), budget.WithDebounce(cfg.Automation.AlertDebounce))

	a.Automation = automation.NewService(automation.Deps{
		Invoices:  a.Invoices,
		Tickets:   a.Tickets,
		Jobs:      a.Jobs,
		Recurring: a.Recurring,
		Budgets:   a.Budgets,
		Finance:   directory.Finance(),
	}, automation.Config{
		BatchTimeout: cfg.Automation.BatchTimeout,
		ErrorSample:  cfg.Automation.ErrorSampleSize,
	})

	return a, nil
}

func (a *App) Close() error {
	var errs []error

	for _, c := range a.closers {
		errs = append(errs, c())
	}

	errs = append(errs, a.db.Close())

	return errors.Join(errs...)
}
