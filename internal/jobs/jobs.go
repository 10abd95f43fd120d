// Package jobs stores deferred work in Postgres and runs it with retries.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/backoffice/internal/fault"
)

var ErrNotFound = fmt.Errorf("job %w", fault.ErrNotFound)

type Status string

const (
	StatusPending Status = "pending"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

// Job is one unit of deferred work. Attempts counts claims, so a claimed job
// already includes the current run.
type Job struct {
	ID          uuid.UUID
	Kind        string
	Key         string
	Payload     json.RawMessage
	RunAt       time.Time
	Status      Status
	Attempts    int
	MaxAttempts int
	LastError   string
	CreatedAt   time.Time
}

// Decode unmarshals the job payload into v.
func (j *Job) Decode(v any) error {
	if err := json.Unmarshal(j.Payload, v); err != nil {
		return fmt.Errorf("decoding %s payload: %w: %w", j.Kind, fault.ErrValidation, err)
	}

	return nil
}

//go:generate mockgen -source=jobs.go -destination=repository_mock.go -package=jobs
type Repository interface {
	Insert(ctx context.Context, j *Job) error
	// InsertBatch stores all of js or none of them.
	InsertBatch(ctx context.Context, js []*Job) error
	HasPending(ctx context.Context, key string) (bool, error)
	List(ctx context.Context, status *Status, limit int) ([]*Job, error)

	// ClaimDue marks up to limit pending jobs with run_at <= now, plus stale
	// running ones, as running and counts an attempt on each. Concurrent
	// runners never claim the same job.
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]*Job, error)
	MarkDone(ctx context.Context, id uuid.UUID) error
	// Retry and MarkFailed keep attempts as counted by the claim.
	Retry(ctx context.Context, id uuid.UUID, runAt time.Time, lastErr string) error
	MarkFailed(ctx context.Context, id uuid.UUID, lastErr string) error
}

// Service is the dispatch side: engines schedule work through it.
type Service struct {
	repo        Repository
	maxAttempts int
	now         func() time.Time
}

func NewService(repo Repository, maxAttempts int) *Service {
	return &Service{repo: repo, maxAttempts: maxAttempts, now: time.Now}
}

// Planned is one job of a batch passed to ScheduleBatch.
type Planned struct {
	Payload   any
	NotBefore time.Time
}

func (s *Service) newJob(kind, key string, payload any, notBefore time.Time) (*Job, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding %s payload: %w", kind, err)
	}

	return &Job{
		Kind:        kind,
		Key:         key,
		Payload:     body,
		RunAt:       notBefore,
		Status:      StatusPending,
		MaxAttempts: s.maxAttempts,
	}, nil
}

// Schedule stores a job that becomes runnable at notBefore. Jobs sharing a
// key can be checked with HasPending.
func (s *Service) Schedule(ctx context.Context, kind, key string, payload any, notBefore time.Time) error {
	j, err := s.newJob(kind, key, payload, notBefore)
	if err != nil {
		return err
	}

	if err := s.repo.Insert(ctx, j); err != nil {
		return fmt.Errorf("scheduling %s: %w", kind, err)
	}

	return nil
}

// ScheduleBatch stores several jobs under one key atomically, so HasPending
// never sees a partial batch.
func (s *Service) ScheduleBatch(ctx context.Context, kind, key string, planned []Planned) error {
	if len(planned) == 0 {
		return nil
	}

	js := make([]*Job, 0, len(planned))

	for _, p := range planned {
		j, err := s.newJob(kind, key, p.Payload, p.NotBefore)
		if err != nil {
			return err
		}

		js = append(js, j)
	}

	if err := s.repo.InsertBatch(ctx, js); err != nil {
		return fmt.Errorf("scheduling %d %s jobs: %w", len(js), kind, err)
	}

	return nil
}

// Enqueue stores a job that is runnable immediately.
func (s *Service) Enqueue(ctx context.Context, kind, key string, payload any) error {
	return s.Schedule(ctx, kind, key, payload, s.now())
}

func (s *Service) HasPending(ctx context.Context, key string) (bool, error) {
	return s.repo.HasPending(ctx, key)
}

func (s *Service) List(ctx context.Context, status *Status, limit int) ([]*Job, error) {
	return s.repo.List(ctx, status, limit)
}
