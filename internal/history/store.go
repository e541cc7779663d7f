package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrRunNotFound is returned when no run matches the requested ID.
var ErrRunNotFound = errors.New("run not found")

const runColumns = "id, mode, input, output, started_at, finished_at, total, succeeded, skipped, failed"

// BeginRun inserts a new run row. StartedAt defaults to now.
func (s *Store) BeginRun(ctx context.Context, run Run) error {
	if strings.TrimSpace(run.ID) == "" {
		return errors.New("run id is required")
	}
	started := run.StartedAt
	if started.IsZero() {
		started = time.Now()
	}
	_, err := s.execWithRetry(ctx,
		`INSERT INTO runs (id, mode, input, output, started_at) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.Mode, run.Input, run.Output, formatTime(started),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// RecordOperation appends one file outcome to a run.
func (s *Store) RecordOperation(ctx context.Context, op Operation) error {
	if strings.TrimSpace(op.RunID) == "" {
		return errors.New("operation run id is required")
	}
	created := op.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := s.execWithRetry(ctx,
		`INSERT INTO operations (run_id, source, destination, title, kind, outcome, message, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		op.RunID,
		op.Source,
		nullableString(op.Destination),
		nullableString(op.Title),
		nullableString(op.Kind),
		op.Outcome,
		nullableString(op.Message),
		formatTime(created),
	)
	if err != nil {
		return fmt.Errorf("insert operation: %w", err)
	}
	return nil
}

// FinishRun stamps the finish time and final counters on a run.
func (s *Store) FinishRun(ctx context.Context, runID string, finishedAt time.Time, summary Summary) error {
	if finishedAt.IsZero() {
		finishedAt = time.Now()
	}
	res, err := s.execWithRetry(ctx,
		`UPDATE runs SET finished_at = ?, total = ?, succeeded = ?, skipped = ?, failed = ? WHERE id = ?`,
		formatTime(finishedAt), summary.Total, summary.Succeeded, summary.Skipped, summary.Failed, runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("finish run %s: %w", runID, ErrRunNotFound)
	}
	return nil
}

// ListRuns returns the most recent runs first. A limit <= 0 returns all runs.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun returns a run by ID, or a unique ID prefix of at least 4 characters.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Run{}, ErrRunNotFound
	}
	ctx = ensureContext(ctx)
	run, err := scanRun(s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if err == nil {
		return run, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("get run: %w", err)
	}
	if len(id) < 4 {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id LIKE ? || '%' LIMIT 2`, id)
	if err != nil {
		return Run{}, fmt.Errorf("get run: %w", err)
	}
	defer rows.Close()
	var matches []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return Run{}, fmt.Errorf("scan run: %w", err)
		}
		matches = append(matches, run)
	}
	if err := rows.Err(); err != nil {
		return Run{}, err
	}
	switch len(matches) {
	case 0:
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	case 1:
		return matches[0], nil
	default:
		return Run{}, fmt.Errorf("run id prefix %q is ambiguous", id)
	}
}

// Operations returns the operations of a run in insertion order.
func (s *Store) Operations(ctx context.Context, runID string) ([]Operation, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT id, run_id, source, destination, title, kind, outcome, message, created_at
		 FROM operations WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("list operations: %w", err)
	}
	defer rows.Close()

	var ops []Operation
	for rows.Next() {
		var (
			op          Operation
			destination sql.NullString
			title       sql.NullString
			kind        sql.NullString
			message     sql.NullString
			createdRaw  string
		)
		if err := rows.Scan(&op.ID, &op.RunID, &op.Source, &destination, &title, &kind, &op.Outcome, &message, &createdRaw); err != nil {
			return nil, fmt.Errorf("scan operation: %w", err)
		}
		op.Destination = destination.String
		op.Title = title.String
		op.Kind = kind.String
		op.Message = message.String
		if created, err := parseTimeString(createdRaw); err == nil {
			op.CreatedAt = created
		}
		ops = append(ops, op)
	}
	return ops, rows.Err()
}
