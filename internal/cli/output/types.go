package output

import "time"

// StatementInfo is one issued statement in JSON output.
type StatementInfo struct {
	Seq   int    `json:"seq"`
	Table string `json:"table"`
	Kind  string `json:"kind"`
	SQL   string `json:"sql"`
}

// ResultOutput is the JSON output of create, sync and insert.
type ResultOutput struct {
	Operation   string          `json:"operation"`
	RunID       string          `json:"run_id,omitempty"`
	DryRun      bool            `json:"dry_run"`
	Statements  []StatementInfo `json:"statements"`
	Error       string          `json:"error,omitempty"`
	ErrorNumber int32           `json:"error_number,omitempty"`
}

// RunInfo is one journaled run in JSON output.
type RunInfo struct {
	ID          string          `json:"id"`
	Operation   string          `json:"operation"`
	Status      string          `json:"status"`
	DryRun      bool            `json:"dry_run"`
	StartedAt   time.Time       `json:"started_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	Error       string          `json:"error,omitempty"`
	Statements  []StatementInfo `json:"statements,omitempty"`
}
