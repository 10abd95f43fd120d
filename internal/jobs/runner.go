package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MrJamesThe3rd/backoffice/internal/fault"
)

// Handler runs one job. Returning an error wrapping a non-retryable fault
// fails the job at once; any other error is retried with backoff.
type Handler interface {
	Handle(ctx context.Context, j *Job) error
}

// GiveUpHandler is implemented by handlers that need to react once a job
// failed for good, e.g. to tell whoever requested it.
type GiveUpHandler interface {
	OnGiveUp(ctx context.Context, j *Job, err error)
}

type HandlerFunc func(ctx context.Context, j *Job) error

func (f HandlerFunc) Handle(ctx context.Context, j *Job) error {
	return f(ctx, j)
}

var (
	ErrNoHandler = fmt.Errorf("no handler registered: %w", fault.ErrValidation)
	// ErrAbandoned fails a job that was reclaimed after its last allowed
	// attempt never reported back.
	ErrAbandoned = fmt.Errorf("attempts exhausted without an outcome: %w", fault.ErrPolicy)
)

type RunnerConfig struct {
	BatchSize   int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
}

type Runner struct {
	repo     Repository
	cfg      RunnerConfig
	handlers map[string]Handler
	now      func() time.Time
}

func NewRunner(repo Repository, cfg RunnerConfig) *Runner {
	return &Runner{
		repo:     repo,
		cfg:      cfg,
		handlers: make(map[string]Handler),
		now:      time.Now,
	}
}

// SetClock replaces the runner's time source.
func (r *Runner) SetClock(now func() time.Time) {
	r.now = now
}

func (r *Runner) Register(kind string, h Handler) {
	r.handlers[kind] = h
}

// Backoff returns the delay before retry number attempt (1-based):
// base, 2·base, 4·base... capped at MaxBackoff.
func (r *Runner) Backoff(attempt int) time.Duration {
	d := r.cfg.BaseBackoff
	for i := 1; i < attempt; i++ {
		d *= 2
		if r.cfg.MaxBackoff > 0 && d >= r.cfg.MaxBackoff {
			return r.cfg.MaxBackoff
		}
	}

	if r.cfg.MaxBackoff > 0 && d > r.cfg.MaxBackoff {
		return r.cfg.MaxBackoff
	}

	return d
}

// RunDue claims the jobs that are due and runs them one by one. It returns
// how many were claimed. Handler failures are recorded on the job, not
// returned; only bookkeeping errors are.
func (r *Runner) RunDue(ctx context.Context) (int, error) {
	claimed, err := r.repo.ClaimDue(ctx, r.now(), r.cfg.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("claiming jobs: %w", err)
	}

	var errs []error

	for _, j := range claimed {
		if err := r.run(ctx, j); err != nil {
			errs = append(errs, fmt.Errorf("job %s: %w", j.ID, err))
		}
	}

	return len(claimed), errors.Join(errs...)
}

// run executes j and records the outcome. Only bookkeeping failures are
// returned.
func (r *Runner) run(ctx context.Context, j *Job) error {
	attempts := j.Attempts

	h, ok := r.handlers[j.Kind]
	if !ok {
		slog.ErrorContext(ctx, "job has no handler", "job_id", j.ID, "kind", j.Kind)
		return r.repo.MarkFailed(ctx, j.ID, ErrNoHandler.Error())
	}

	if attempts > j.MaxAttempts {
		slog.ErrorContext(ctx, "job abandoned", "job_id", j.ID, "kind", j.Kind, "attempt", attempts)
		return r.giveUp(ctx, h, j, ErrAbandoned)
	}

	herr := h.Handle(ctx, j)
	if herr == nil {
		slog.InfoContext(ctx, "job done", "job_id", j.ID, "kind", j.Kind, "attempt", attempts)
		return r.repo.MarkDone(ctx, j.ID)
	}

	if fault.Retryable(herr) && attempts < j.MaxAttempts && ctx.Err() == nil {
		runAt := r.now().Add(r.Backoff(attempts))

		slog.WarnContext(ctx, "job failed, retrying",
			"job_id", j.ID,
			"kind", j.Kind,
			"attempt", attempts,
			"retry_at", runAt,
			"error", herr,
		)

		return r.repo.Retry(ctx, j.ID, runAt, herr.Error())
	}

	slog.ErrorContext(ctx, "job failed", "job_id", j.ID, "kind", j.Kind, "attempt", attempts, "error", herr)

	return r.giveUp(ctx, h, j, herr)
}

func (r *Runner) giveUp(ctx context.Context, h Handler, j *Job, cause error) error {
	if err := r.repo.MarkFailed(ctx, j.ID, cause.Error()); err != nil {
		return err
	}

	if g, ok := h.(GiveUpHandler); ok {
		g.OnGiveUp(ctx, j, cause)
	}

	return nil
}
