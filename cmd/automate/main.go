// Command automate runs one automation task and prints its report as JSON.
//
//	automate <task> [-dry-run] [-force] [-as-of YYYY-MM-DD]
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/backoffice/internal/app"
	"github.com/MrJamesThe3rd/backoffice/internal/automation"
	"github.com/MrJamesThe3rd/backoffice/internal/config"
	"github.com/MrJamesThe3rd/backoffice/internal/fault"
)

func usage() {
	names := make([]string, len(automation.Tasks))
	for i, t := range automation.Tasks {
		names[i] = string(t)
	}

	fmt.Fprintf(os.Stderr, "usage: automate <task> [-dry-run] [-force] [-as-of YYYY-MM-DD]\ntasks: %s\n", strings.Join(names, ", "))
}

func main() {
	os.Exit(run())
}

func run() int {
	if len(os.Args) < 2 {
		usage()
		return 2
	}

	task, err := automation.ParseTask(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		usage()

		return 2
	}

	fs := flag.NewFlagSet("automate "+string(task), flag.ContinueOnError)
	dryRun := fs.Bool("dry-run", false, "report what would change without writing")
	force := fs.Bool("force", false, "process recurring rules that are not due yet")
	asOf := fs.String("as-of", "", "treat this date as today")

	if err := fs.Parse(os.Args[2:]); err != nil {
		return 2
	}

	opts := automation.Options{DryRun: *dryRun, Force: *force}

	if *asOf != "" {
		t, err := time.Parse(time.DateOnly, *asOf)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid -as-of %q: want YYYY-MM-DD\n", *asOf)
			return 2
		}

		opts.AsOf = &t
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()})))

	a, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to start", "error", err)
		return 1
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report, err := a.Automation.Run(ctx, task, opts)

	if report != nil {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		if encErr := enc.Encode(report); encErr != nil {
			slog.Error("failed to write report", "error", encErr)
		}
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, fault.ErrValidation):
		fmt.Fprintln(os.Stderr, err)
		return 2
	default:
		slog.Error("task failed", "task", task, "error", err)
		return 1
	}
}
