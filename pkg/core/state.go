package core

import (
	"context"
	"time"
)

// Journal records the statements issued by engine operations.
// Implementations must tolerate being called from a single goroutine only.
type Journal interface {
	// BeginRun opens a run for the named operation and returns its ID.
	// Dry runs are journaled too; their statements were never executed.
	BeginRun(ctx context.Context, operation string, dryRun bool) (string, error)

	// RecordStatement appends a statement to the run, in issue order.
	RecordStatement(ctx context.Context, runID string, stmt Statement) error

	// FinishRun closes the run. A nil err marks it completed.
	FinishRun(ctx context.Context, runID string, err error) error
}

// RunStatus represents the status of an engine run.
type RunStatus string

// Run status constants.
const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run represents one journaled engine operation (create, sync or insert).
type Run struct {
	ID          string
	Operation   string
	Status      RunStatus
	DryRun      bool
	StartedAt   time.Time
	CompletedAt *time.Time
	Error       string
}

// RecordedStatement is a statement as stored in the journal.
type RecordedStatement struct {
	RunID      string
	Seq        int
	Table      string
	Kind       StatementKind
	SQL        string
	ExecutedAt time.Time
}
