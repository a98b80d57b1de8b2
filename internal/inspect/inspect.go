// Package inspect reads the live schema of a table from SQL Server's catalog views.
//
// Every read is a single query that tolerates zero rows: an empty result
// means the object does not exist yet. Nothing is cached; callers re-inspect
// on every pass.
package inspect

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/leapstack-labs/schemasync/pkg/core"
)

// Querier is the read side of the database gateway.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (core.Rows, error)
}

// ColumnSet is the set of column names currently present on a table.
type ColumnSet map[string]struct{}

// Has reports whether the column exists.
func (s ColumnSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the column names sorted.
func (s ColumnSet) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// InboundForeignKey is a foreign key owned by another table that references the inspected one.
type InboundForeignKey struct {
	Name              string
	OwnerTable        string
	Columns           []string
	ReferencedColumns []string
}

// Inspector runs catalog queries through the gateway.
type Inspector struct {
	db     Querier
	logger *slog.Logger
}

// New creates an Inspector. If logger is nil, a discard logger is used.
func New(db Querier, logger *slog.Logger) *Inspector {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Inspector{db: db, logger: logger}
}

// Columns returns the live column names of table. A missing table yields an empty set.
func (i *Inspector) Columns(ctx context.Context, table string) (ColumnSet, error) {
	cols := make(ColumnSet)
	err := i.each(ctx, ColumnsQuery, table, func(rows core.Rows) error {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		cols[name] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}
	return cols, nil
}

// PrimaryKeyConstraint returns the name of the table's primary key, or "" when it has none.
// Composite keys yield one row per column; the name is the same on every row.
func (i *Inspector) PrimaryKeyConstraint(ctx context.Context, table string) (string, error) {
	var name string
	err := i.each(ctx, PrimaryKeyQuery, table, func(rows core.Rows) error {
		if name != "" {
			return nil
		}
		return rows.Scan(&name)
	})
	if err != nil {
		return "", fmt.Errorf("failed to read primary key of %s: %w", table, err)
	}
	return name, nil
}

// ForeignKeyConstraints returns the names of foreign keys owned by table.
func (i *Inspector) ForeignKeyConstraints(ctx context.Context, table string) ([]string, error) {
	var names []string
	seen := make(map[string]bool)
	err := i.each(ctx, ForeignKeysQuery, table, func(rows core.Rows) error {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read foreign keys of %s: %w", table, err)
	}
	return names, nil
}

// ColumnConstraints returns UNIQUE and CHECK constraint names keyed by the column they cover.
// A constraint spanning several columns is listed under each of them.
func (i *Inspector) ColumnConstraints(ctx context.Context, table string) (map[string][]string, error) {
	byColumn := make(map[string][]string)
	err := i.each(ctx, ColumnConstraintsQuery, table, func(rows core.Rows) error {
		var column, name string
		if err := rows.Scan(&column, &name); err != nil {
			return err
		}
		byColumn[column] = append(byColumn[column], name)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read column constraints of %s: %w", table, err)
	}
	return byColumn, nil
}

// InboundForeignKeys returns foreign keys in other tables that reference table.
// Self references are excluded.
func (i *Inspector) InboundForeignKeys(ctx context.Context, table string) ([]InboundForeignKey, error) {
	var fks []InboundForeignKey
	index := make(map[string]int)
	err := i.each(ctx, InboundForeignKeysQuery, table, func(rows core.Rows) error {
		var name, owner, column, refColumn string
		if err := rows.Scan(&name, &owner, &column, &refColumn); err != nil {
			return err
		}
		pos, ok := index[name]
		if !ok {
			pos = len(fks)
			index[name] = pos
			fks = append(fks, InboundForeignKey{Name: name, OwnerTable: owner})
		}
		fks[pos].Columns = append(fks[pos].Columns, column)
		fks[pos].ReferencedColumns = append(fks[pos].ReferencedColumns, refColumn)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read inbound foreign keys of %s: %w", table, err)
	}
	return fks, nil
}

func (i *Inspector) each(ctx context.Context, query, table string, scan func(core.Rows) error) error {
	rows, err := i.db.Query(ctx, query, table)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	n := 0
	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("failed to scan row: %w", err)
		}
		n++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating rows: %w", err)
	}
	i.logger.Debug("catalog read", slog.String("table", table), slog.Int("rows", n))
	return nil
}
