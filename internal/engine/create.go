package engine

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/schemasync/pkg/core"
	"github.com/leapstack-labs/schemasync/pkg/ddl"
)

// CreateTables bootstraps every entity in two phases: all CREATE TABLE
// statements first, then all foreign keys, so references resolve whatever
// the caller's order. Generation errors abort before connecting.
func (e *Engine) CreateTables(ctx context.Context, entities []core.EntityDescriptor) (res *Result, err error) {
	creates := make([]core.Statement, 0, len(entities))
	var foreignKeys []core.Statement

	for _, ent := range entities {
		sql, err := ddl.CreateTable(ent)
		if err != nil {
			return &Result{Operation: OpCreate, DryRun: e.dryRun}, fmt.Errorf("failed to generate table %s: %w", ent.Name, err)
		}
		creates = append(creates, core.Statement{Table: ent.Name, Kind: core.KindCreateTable, SQL: sql})

		for _, fk := range ddl.ForeignKeys(ent) {
			foreignKeys = append(foreignKeys, core.Statement{Table: ent.Name, Kind: core.KindAddForeignKey, SQL: fk})
		}
	}

	s, err := e.begin(ctx, OpCreate, false)
	if err != nil {
		return s.result, err
	}
	defer func() { s.end(ctx, err) }()

	for _, stmt := range append(creates, foreignKeys...) {
		if err := s.exec(ctx, stmt); err != nil {
			return s.result, err
		}
	}
	return s.result, nil
}
