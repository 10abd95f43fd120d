package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/backoffice/internal/jobs"
)

// staleAfter is how long a job may stay running before another runner may
// claim it again, e.g. after a crash mid-handler.
const staleAfter = 30 * time.Minute

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const columns = `id, kind, key, payload, run_at, status, attempts, max_attempts, last_error, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(s scanner) (*jobs.Job, error) {
	var j jobs.Job

	var status string

	var payload []byte

	if err := s.Scan(&j.ID, &j.Kind, &j.Key, &payload, &j.RunAt, &status, &j.Attempts,
		&j.MaxAttempts, &j.LastError, &j.CreatedAt); err != nil {
		return nil, err
	}

	j.Status = jobs.Status(status)
	j.Payload = payload

	return &j, nil
}

func (s *Store) Insert(ctx context.Context, j *jobs.Job) error {
	query := `
		INSERT INTO jobs (kind, key, payload, run_at, status, max_attempts)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, j.Kind, j.Key, []byte(j.Payload), j.RunAt, j.Status, j.MaxAttempts).
		Scan(&j.ID, &j.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting job: %w", err)
	}

	return nil
}

func (s *Store) InsertBatch(ctx context.Context, js []*jobs.Job) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning job batch tx: %w", err)
	}
	defer dbTx.Rollback()

	stmt, err := dbTx.PrepareContext(ctx, `
		INSERT INTO jobs (kind, key, payload, run_at, status, max_attempts)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`)
	if err != nil {
		return fmt.Errorf("preparing job insert: %w", err)
	}
	defer stmt.Close()

	for _, j := range js {
		err := stmt.QueryRowContext(ctx, j.Kind, j.Key, []byte(j.Payload), j.RunAt, j.Status, j.MaxAttempts).
			Scan(&j.ID, &j.CreatedAt)
		if err != nil {
			return fmt.Errorf("inserting job: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing job batch: %w", err)
	}

	return nil
}

func (s *Store) HasPending(ctx context.Context, key string) (bool, error) {
	var exists bool

	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM jobs WHERE key = $1 AND status IN ('pending', 'running'))
	`, key).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking pending jobs: %w", err)
	}

	return exists, nil
}

func (s *Store) List(ctx context.Context, status *jobs.Status, limit int) ([]*jobs.Job, error) {
	query := `SELECT ` + columns + ` FROM jobs`

	var args []any
	if status != nil {
		query += ` WHERE status = $1`

		args = append(args, *status)
	}

	query += fmt.Sprintf(" ORDER BY run_at DESC LIMIT %d", max(limit, 1))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	defer rows.Close()

	var out []*jobs.Job

	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning job: %w", err)
		}

		out = append(out, j)
	}

	return out, rows.Err()
}

func (s *Store) ClaimDue(ctx context.Context, now time.Time, limit int) ([]*jobs.Job, error) {
	query := `
		UPDATE jobs
		SET status = 'running', attempts = attempts + 1, updated_at = NOW()
		WHERE id IN (
			SELECT id FROM jobs
			WHERE (status = 'pending' AND run_at <= $1)
			   OR (status = 'running' AND updated_at < $2)
			ORDER BY run_at ASC, id ASC
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + columns

	rows, err := s.db.QueryContext(ctx, query, now, now.Add(-staleAfter), limit)
	if err != nil {
		return nil, fmt.Errorf("claiming jobs: %w", err)
	}
	defer rows.Close()

	var out []*jobs.Job

	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning job: %w", err)
		}

		out = append(out, j)
	}

	return out, rows.Err()
}

func (s *Store) MarkDone(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE jobs SET status = 'done', updated_at = NOW() WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("marking job done: %w", err)
	}

	return nil
}

func (s *Store) Retry(ctx context.Context, id uuid.UUID, runAt time.Time, lastErr string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE jobs
		SET status = 'pending', run_at = $1, last_error = $2, updated_at = NOW()
		WHERE id = $3
	`, runAt, lastErr, id)
	if err != nil {
		return fmt.Errorf("rescheduling job: %w", err)
	}

	return nil
}

func (s *Store) MarkFailed(ctx context.Context, id uuid.UUID, lastErr string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE jobs
		SET status = 'failed', last_error = $1, updated_at = NOW()
		WHERE id = $2
	`, lastErr, id)
	if err != nil {
		return fmt.Errorf("marking job failed: %w", err)
	}

	return nil
}
