package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/leapstack-labs/schemasync/pkg/core"
)

// BeginRun creates a running run for operation.
func (s *SQLiteStore) BeginRun(ctx context.Context, operation string, dryRun bool) (string, error) {
	if s.db == nil {
		return "", errNotOpened
	}

	id := generateID()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, operation, status, dry_run, started_at) VALUES (?, ?, ?, ?, ?)`,
		id, operation, string(core.RunStatusRunning), dryRun, formatTime(time.Now()),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// RecordStatement appends stmt to the run with the next sequence number.
func (s *SQLiteStore) RecordStatement(ctx context.Context, runID string, stmt core.Statement) error {
	if s.db == nil {
		return errNotOpened
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO statements (run_id, seq, table_name, kind, sql, executed_at)
		 SELECT ?, COALESCE(MAX(seq), 0) + 1, ?, ?, ?, ? FROM statements WHERE run_id = ?`,
		runID, stmt.Table, string(stmt.Kind), stmt.SQL, formatTime(time.Now()), runID,
	)
	if err != nil {
		return fmt.Errorf("failed to record statement: %w", err)
	}
	return nil
}

// FinishRun marks the run completed, or failed with err's message.
func (s *SQLiteStore) FinishRun(ctx context.Context, runID string, runErr error) error {
	if s.db == nil {
		return errNotOpened
	}

	status := core.RunStatusCompleted
	var errMsg *string
	if runErr != nil {
		status = core.RunStatusFailed
		msg := runErr.Error()
		errMsg = &msg
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, completed_at = ?, error = ? WHERE id = ?`,
		string(status), formatTime(time.Now()), errMsg, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return nil
}

const runColumns = `id, operation, status, dry_run, started_at, completed_at, error`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*core.Run, error) {
	var (
		run         core.Run
		status      string
		startedAt   string
		completedAt sql.NullString
		errMsg      sql.NullString
	)
	if err := row.Scan(&run.ID, &run.Operation, &status, &run.DryRun, &startedAt, &completedAt, &errMsg); err != nil {
		return nil, err
	}
	run.Status = core.RunStatus(status)

	t, err := parseTime(startedAt)
	if err != nil {
		return nil, err
	}
	run.StartedAt = t

	if completedAt.Valid {
		t, err := parseTime(completedAt.String)
		if err != nil {
			return nil, err
		}
		run.CompletedAt = &t
	}
	if errMsg.Valid {
		run.Error = errMsg.String
	}
	return &run, nil
}

// GetRun retrieves a run by ID.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*core.Run, error) {
	if s.db == nil {
		return nil, errNotOpened
	}

	run, err := scanRun(s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first. A limit <= 0 returns all runs.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]*core.Run, error) {
	if s.db == nil {
		return nil, errNotOpened
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []*core.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RunStatements returns the statements of a run in issue order.
func (s *SQLiteStore) RunStatements(ctx context.Context, runID string) ([]core.RecordedStatement, error) {
	if s.db == nil {
		return nil, errNotOpened
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, seq, table_name, kind, sql, executed_at FROM statements WHERE run_id = ? ORDER BY seq`,
		runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get statements: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var statements []core.RecordedStatement
	for rows.Next() {
		var (
			stmt       core.RecordedStatement
			kind       string
			executedAt string
		)
		if err := rows.Scan(&stmt.RunID, &stmt.Seq, &stmt.Table, &kind, &stmt.SQL, &executedAt); err != nil {
			return nil, fmt.Errorf("failed to scan statement: %w", err)
		}
		stmt.Kind = core.StatementKind(kind)
		if stmt.ExecutedAt, err = parseTime(executedAt); err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}
	return statements, rows.Err()
}
