package engine

import (
	"context"
	"fmt"
	"slices"

	"github.com/leapstack-labs/schemasync/internal/inspect"
	"github.com/leapstack-labs/schemasync/pkg/core"
	"github.com/leapstack-labs/schemasync/pkg/ddl"
)

// primaryKeyColumn is the only column whose primary key is restored after an alter.
const primaryKeyColumn = "Id"

// SyncTables reconciles each entity's table with its descriptor.
//
// Missing columns are added. Existing columns are altered to the current type
// and nullability after dropping every constraint that would block the alter.
// Declared foreign key, unique and check constraints are then reapplied.
// Columns absent from the model are left untouched. Statements are not
// batched or wrapped in a transaction: the first failure aborts the call and
// earlier statements stay applied.
func (e *Engine) SyncTables(ctx context.Context, entities []core.EntityDescriptor) (res *Result, err error) {
	if err := validateTypes(entities); err != nil {
		return &Result{Operation: OpSync, DryRun: e.dryRun}, err
	}

	ordered := entities
	if e.orderByDependency {
		if ordered, err = OrderByDependency(entities); err != nil {
			return &Result{Operation: OpSync, DryRun: e.dryRun}, err
		}
	}

	s, err := e.begin(ctx, OpSync, true)
	if err != nil {
		return s.result, err
	}
	defer func() { s.end(ctx, err) }()

	insp := inspect.New(s.db, e.logger)
	for _, ent := range ordered {
		if err := s.syncEntity(ctx, insp, ent); err != nil {
			return s.result, fmt.Errorf("failed to sync %s: %w", ent.Name, err)
		}
	}
	return s.result, nil
}

// validateTypes rejects the whole set before anything is inspected or issued.
func validateTypes(entities []core.EntityDescriptor) error {
	for _, ent := range entities {
		for _, f := range ent.Fields {
			if _, err := ddl.MapType(f.Type, f.Constrained()); err != nil {
				return &core.UnsupportedFieldTypeError{Entity: ent.Name, Field: f.Name, Type: f.Type}
			}
		}
	}
	return nil
}

// pass tracks the constraints of one table while it is reconciled.
// Table-wide drops happen at the first existing column and never again.
type pass struct {
	snap           *inspect.Snapshot
	foreignKeys    []string
	primaryKey     string
	inbound        []inspect.InboundForeignKey
	pkDropped      string
	inboundDropped []inspect.InboundForeignKey
	deferredFKs    []pendingConstraint
	deferredChecks []pendingConstraint
	// live holds constraint names currently present; a name is dropped only while live.
	live map[string]bool
}

// pendingConstraint is a reapply that must wait for other statements of the pass.
type pendingConstraint struct {
	stmt core.Statement
	name string
}

func newPass(snap *inspect.Snapshot) *pass {
	live := make(map[string]bool)
	if snap.PrimaryKey != "" {
		live[snap.PrimaryKey] = true
	}
	for _, name := range snap.ForeignKeys {
		live[name] = true
	}
	for _, names := range snap.ColumnConstraints {
		for _, name := range names {
			live[name] = true
		}
	}
	for _, fk := range snap.Inbound {
		live[fk.Name] = true
	}
	return &pass{
		snap:        snap,
		foreignKeys: snap.ForeignKeys,
		primaryKey:  snap.PrimaryKey,
		inbound:     snap.Inbound,
		live:        live,
	}
}

func (s *session) syncEntity(ctx context.Context, insp *inspect.Inspector, ent core.EntityDescriptor) error {
	snap, err := insp.Snapshot(ctx, ent.Name)
	if err != nil {
		return err
	}
	p := newPass(snap)
	table := ent.Name

	s.e.logger.Debug("inspected table", "table", table, "columns", len(snap.Columns),
		"primary_key", snap.PrimaryKey, "foreign_keys", len(snap.ForeignKeys), "inbound", len(snap.Inbound))

	var added, altered int
	for _, f := range ent.Fields {
		if !snap.Columns.Has(f.Name) {
			sql, err := ddl.AddColumn(table, f)
			if err != nil {
				return err
			}
			if err := s.exec(ctx, core.Statement{Table: table, Kind: core.KindAddColumn, SQL: sql}); err != nil {
				return err
			}
			added++
		} else {
			if err := s.alterColumn(ctx, p, table, f); err != nil {
				return err
			}
			altered++
		}

		if err := s.reapplyConstraints(ctx, p, table, f); err != nil {
			return err
		}
	}

	// Self references wait for the primary key; without an Id column they fail here.
	if err := s.flush(ctx, p, &p.deferredFKs); err != nil {
		return err
	}
	// Inbound keys go back only after every column, so none blocks a later UNIQUE drop.
	if err := s.restoreInbound(ctx, p, ent); err != nil {
		return err
	}
	// Check expressions may span columns, so they go back once every column is altered.
	if err := s.flush(ctx, p, &p.deferredChecks); err != nil {
		return err
	}

	if p.pkDropped != "" {
		s.e.logger.Warn("primary key dropped and not restored",
			"table", table, "constraint", p.pkDropped)
	}
	for _, fk := range p.inboundDropped {
		s.e.logger.Warn("foreign key from another table dropped and not restored",
			"table", fk.OwnerTable, "constraint", fk.Name, "references", table)
	}

	s.e.logger.Info("synced table", "table", table, "added", added, "altered", altered)
	return nil
}

// alterColumn drops what blocks ALTER COLUMN, alters, then restores the primary key on Id.
func (s *session) alterColumn(ctx context.Context, p *pass, table string, f core.FieldDescriptor) error {
	// Foreign keys are table-scoped in the catalog read, so all of them go.
	for _, name := range p.foreignKeys {
		if err := s.drop(ctx, p, table, name); err != nil {
			return err
		}
	}
	p.foreignKeys = nil

	if p.primaryKey != "" {
		if s.e.restoreInbound {
			for _, fk := range p.inbound {
				if err := s.drop(ctx, p, fk.OwnerTable, fk.Name); err != nil {
					return err
				}
				p.inboundDropped = append(p.inboundDropped, fk)
			}
			p.inbound = nil
		}
		if err := s.drop(ctx, p, table, p.primaryKey); err != nil {
			return err
		}
		p.pkDropped = p.primaryKey
		p.primaryKey = ""
	}

	// Without a primary key, inbound keys are still dropped when they reference this column.
	if s.e.restoreInbound {
		var kept []inspect.InboundForeignKey
		for _, fk := range p.inbound {
			if !slices.Contains(fk.ReferencedColumns, f.Name) {
				kept = append(kept, fk)
				continue
			}
			if err := s.drop(ctx, p, fk.OwnerTable, fk.Name); err != nil {
				return err
			}
			p.inboundDropped = append(p.inboundDropped, fk)
		}
		p.inbound = kept
	}

	for _, name := range p.snap.ColumnConstraints[f.Name] {
		if err := s.drop(ctx, p, table, name); err != nil {
			return err
		}
	}

	sql, err := ddl.AlterColumn(table, f)
	if err != nil {
		return err
	}
	if err := s.exec(ctx, core.Statement{Table: table, Kind: core.KindAlterColumn, SQL: sql}); err != nil {
		return err
	}

	if f.Name != primaryKeyColumn || p.pkDropped == "" {
		return nil
	}
	pk := ddl.PrimaryKeyConstraint(table, p.pkDropped, f.Name)
	if err := s.add(ctx, p, core.Statement{Table: table, Kind: core.KindAddPrimaryKey, SQL: pk}, p.pkDropped); err != nil {
		return err
	}
	p.pkDropped = ""
	return s.flush(ctx, p, &p.deferredFKs)
}

// restoreInbound re-adds dropped foreign keys of other tables whose referenced
// columns are backed by a live key again. The rest stay in inboundDropped.
func (s *session) restoreInbound(ctx context.Context, p *pass, ent core.EntityDescriptor) error {
	var pending []inspect.InboundForeignKey
	for _, fk := range p.inboundDropped {
		if !p.keyBacked(ent, fk.ReferencedColumns) {
			pending = append(pending, fk)
			continue
		}
		restore := ddl.RestoreForeignKey(fk.OwnerTable, fk.Name, fk.Columns, ent.Name, fk.ReferencedColumns)
		if err := s.add(ctx, p, core.Statement{Table: fk.OwnerTable, Kind: core.KindAddForeignKey, SQL: restore}, fk.Name); err != nil {
			return err
		}
	}
	p.inboundDropped = pending
	return nil
}

// keyBacked reports whether cols match the restored primary key or a reapplied UNIQUE constraint.
func (p *pass) keyBacked(ent core.EntityDescriptor, cols []string) bool {
	if len(cols) != 1 {
		return false
	}
	col := cols[0]
	if col == primaryKeyColumn && p.snap.PrimaryKey != "" && p.live[p.snap.PrimaryKey] {
		return true
	}
	f, ok := ent.Field(col)
	return ok && f.Unique && p.live[ddl.UniqueName(ent.Name, col)]
}

// drop issues DROP CONSTRAINT unless the constraint is already gone in this pass.
func (s *session) drop(ctx context.Context, p *pass, table, name string) error {
	if !p.live[name] {
		return nil
	}
	if err := s.exec(ctx, core.Statement{Table: table, Kind: core.KindDropConstraint, SQL: ddl.DropConstraint(table, name)}); err != nil {
		return err
	}
	p.live[name] = false
	return nil
}

// add issues a constraint statement and marks the name live again.
func (s *session) add(ctx context.Context, p *pass, stmt core.Statement, name string) error {
	if err := s.exec(ctx, stmt); err != nil {
		return err
	}
	p.live[name] = true
	return nil
}

// reapplyConstraints adds the declared constraints of f unconditionally.
// Check constraints are queued until the end of the pass.
func (s *session) reapplyConstraints(ctx context.Context, p *pass, table string, f core.FieldDescriptor) error {
	if ref := f.ForeignKey; ref != nil {
		stmt := core.Statement{Table: table, Kind: core.KindAddForeignKey, SQL: ddl.ForeignKeyConstraint(table, f.Name, *ref)}
		name := ddl.ForeignKeyName(table, ref.Table)
		// A self reference waits until the live primary key has been dropped and restored.
		if ref.Table == table && (p.primaryKey != "" || p.pkDropped != "") {
			p.deferredFKs = append(p.deferredFKs, pendingConstraint{stmt: stmt, name: name})
		} else if err := s.add(ctx, p, stmt, name); err != nil {
			return err
		}
	}
	if f.Unique {
		stmt := core.Statement{Table: table, Kind: core.KindAddUnique, SQL: ddl.UniqueConstraint(table, f.Name)}
		if err := s.add(ctx, p, stmt, ddl.UniqueName(table, f.Name)); err != nil {
			return err
		}
	}
	if f.Check != "" {
		stmt := core.Statement{Table: table, Kind: core.KindAddCheck, SQL: ddl.CheckConstraint(table, f.Name, f.Check)}
		p.deferredChecks = append(p.deferredChecks, pendingConstraint{stmt: stmt, name: ddl.CheckName(table, f.Name)})
	}
	return nil
}

func (s *session) flush(ctx context.Context, p *pass, queue *[]pendingConstraint) error {
	pending := *queue
	*queue = nil
	for _, c := range pending {
		if err := s.add(ctx, p, c.stmt, c.name); err != nil {
			return err
		}
	}
	return nil
}
