package engine

import "github.com/leapstack-labs/schemasync/pkg/core"

// Operation names, as reported in results and the journal.
const (
	OpCreate = "create"
	OpSync   = "sync"
	OpInsert = "insert"
)

// Result lists the statements an operation issued, in issue order.
// It is returned even when the operation fails part way.
type Result struct {
	Operation  string
	RunID      string
	DryRun     bool
	Statements []core.Statement
}

// Count returns how many statements of kind were issued.
func (r *Result) Count(kind core.StatementKind) int {
	n := 0
	for _, s := range r.Statements {
		if s.Kind == kind {
			n++
		}
	}
	return n
}

// SQL returns the statement texts in issue order.
func (r *Result) SQL() []string {
	out := make([]string, 0, len(r.Statements))
	for _, s := range r.Statements {
		out = append(out, s.SQL)
	}
	return out
}

// Tables returns the distinct tables touched, in first-touched order.
func (r *Result) Tables() []string {
	var tables []string
	seen := make(map[string]bool)
	for _, s := range r.Statements {
		if !seen[s.Table] {
			seen[s.Table] = true
			tables = append(tables, s.Table)
		}
	}
	return tables
}
