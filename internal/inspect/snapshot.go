package inspect

import (
	"context"
	"slices"
)

// Snapshot is the live state of one table, read before any statement touches it.
type Snapshot struct {
	Table             string
	Columns           ColumnSet
	PrimaryKey        string
	ForeignKeys       []string
	ColumnConstraints map[string][]string
	Inbound           []InboundForeignKey
}

// Exists reports whether the table has any columns.
func (s *Snapshot) Exists() bool {
	return len(s.Columns) > 0
}

// HasConstraint reports whether a constraint with this name is on the table.
func (s *Snapshot) HasConstraint(name string) bool {
	if name == "" {
		return false
	}
	if s.PrimaryKey == name || slices.Contains(s.ForeignKeys, name) {
		return true
	}
	for _, names := range s.ColumnConstraints {
		if slices.Contains(names, name) {
			return true
		}
	}
	return false
}

// Snapshot reads every live attribute of table.
func (i *Inspector) Snapshot(ctx context.Context, table string) (*Snapshot, error) {
	cols, err := i.Columns(ctx, table)
	if err != nil {
		return nil, err
	}
	pk, err := i.PrimaryKeyConstraint(ctx, table)
	if err != nil {
		return nil, err
	}
	fks, err := i.ForeignKeyConstraints(ctx, table)
	if err != nil {
		return nil, err
	}
	cc, err := i.ColumnConstraints(ctx, table)
	if err != nil {
		return nil, err
	}
	inbound, err := i.InboundForeignKeys(ctx, table)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		Table:             table,
		Columns:           cols,
		PrimaryKey:        pk,
		ForeignKeys:       fks,
		ColumnConstraints: cc,
		Inbound:           inbound,
	}, nil
}
