package ddl

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/schemasync/pkg/core"
)

// ForeignKeyName returns FK_{table}_{refTable}.
func ForeignKeyName(table, refTable string) string {
	return "FK_" + table + "_" + refTable
}

// UniqueName returns UQ_{table}_{column}.
func UniqueName(table, column string) string {
	return "UQ_" + table + "_" + column
}

// CheckName returns CK_{table}_{column}.
func CheckName(table, column string) string {
	return "CK_" + table + "_" + column
}

// CreateTable renders the bootstrap statement for an entity. Foreign keys are
// not inlined; they are added separately once every table exists.
func CreateTable(e core.EntityDescriptor) (string, error) {
	defs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		typ, err := columnType(e.Name, f)
		if err != nil {
			return "", err
		}
		var sb strings.Builder
		sb.WriteString(f.Name)
		sb.WriteString(" ")
		sb.WriteString(typ)
		if f.PrimaryKey {
			sb.WriteString(" PRIMARY KEY")
		}
		if f.Unique {
			sb.WriteString(" UNIQUE")
		}
		if !f.Nullable {
			sb.WriteString(" NOT NULL")
		}
		defs = append(defs, sb.String())
	}
	return fmt.Sprintf("CREATE TABLE %s (%s);", e.Name, strings.Join(defs, ", ")), nil
}

// ForeignKeyConstraint adds FK_{table}_{refTable} on column.
func ForeignKeyConstraint(table, column string, ref core.ForeignKeyRef) string {
	return fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s(%s)",
		table, ForeignKeyName(table, ref.Table), column, ref.Table, ref.Column)
}

// ForeignKeys renders one constraint statement per declared foreign key, in field order.
func ForeignKeys(e core.EntityDescriptor) []string {
	var stmts []string
	for _, f := range e.Fields {
		if f.ForeignKey != nil {
			stmts = append(stmts, ForeignKeyConstraint(e.Name, f.Name, *f.ForeignKey))
		}
	}
	return stmts
}

// AddColumn renders ALTER TABLE ... ADD for a missing column.
func AddColumn(table string, f core.FieldDescriptor) (string, error) {
	typ, err := columnType(table, f)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ALTER TABLE %s ADD %s %s %s", table, f.Name, typ, nullability(f)), nil
}

// AlterColumn renders ALTER TABLE ... ALTER COLUMN with the current type and nullability.
func AlterColumn(table string, f core.FieldDescriptor) (string, error) {
	typ, err := columnType(table, f)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s %s %s", table, f.Name, typ, nullability(f)), nil
}

// DropConstraint drops a named constraint.
func DropConstraint(table, name string) string {
	return fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT %s", table, name)
}

// PrimaryKeyConstraint adds a primary key under an explicit name.
func PrimaryKeyConstraint(table, name, column string) string {
	return fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s PRIMARY KEY (%s)", table, name, column)
}

// UniqueConstraint adds UQ_{table}_{column}.
func UniqueConstraint(table, column string) string {
	return fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s UNIQUE (%s)", table, UniqueName(table, column), column)
}

// CheckConstraint adds CK_{table}_{column}. expr is emitted verbatim.
func CheckConstraint(table, column, expr string) string {
	return fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s CHECK (%s)", table, CheckName(table, column), expr)
}

// RestoreForeignKey re-creates a foreign key owned by another table under its original name.
func RestoreForeignKey(owner, name string, columns []string, refTable string, refColumns []string) string {
	return fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s(%s)",
		owner, name, strings.Join(columns, ", "), refTable, strings.Join(refColumns, ", "))
}

// Insert renders a parameterized insert of every field, in field order.
// The returned names are the parameter names, without the @ prefix.
func Insert(e core.EntityDescriptor) (string, []string) {
	cols := make([]string, 0, len(e.Fields))
	params := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		cols = append(cols, f.Name)
		params = append(params, "@"+f.Name)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", e.Name, strings.Join(cols, ", "), strings.Join(params, ", ")), cols
}
