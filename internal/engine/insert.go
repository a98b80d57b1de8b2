package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/leapstack-labs/schemasync/pkg/core"
	"github.com/leapstack-labs/schemasync/pkg/ddl"
)

// ErrUnknownField is returned when a record names a field the entity does not have.
var ErrUnknownField = errors.New("unknown field")

// Record holds field values keyed by field name. Absent and nil values insert NULL.
type Record map[string]any

// AddRecord inserts one row. Every entity field is bound as a named parameter
// in field order.
func (e *Engine) AddRecord(ctx context.Context, entity core.EntityDescriptor, record Record) (res *Result, err error) {
	var unknown []string
	for key := range record {
		if _, ok := entity.Field(key); !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return &Result{Operation: OpInsert, DryRun: e.dryRun}, fmt.Errorf("%w for %s: %v", ErrUnknownField, entity.Name, unknown)
	}

	query, params := ddl.Insert(entity)
	args := make([]any, 0, len(params))
	for _, name := range params {
		args = append(args, sql.Named(name, record[name]))
	}

	s, err := e.begin(ctx, OpInsert, false)
	if err != nil {
		return s.result, err
	}
	defer func() { s.end(ctx, err) }()

	if err := s.exec(ctx, core.Statement{Table: entity.Name, Kind: core.KindInsert, SQL: query, Args: args}); err != nil {
		return s.result, err
	}
	return s.result, nil
}
