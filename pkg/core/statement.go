package core

// StatementKind classifies a generated statement.
type StatementKind string

// Statement kinds, one per generator.
const (
	KindCreateTable    StatementKind = "create_table"
	KindAddForeignKey  StatementKind = "add_foreign_key"
	KindAddColumn      StatementKind = "add_column"
	KindAlterColumn    StatementKind = "alter_column"
	KindDropConstraint StatementKind = "drop_constraint"
	KindAddPrimaryKey  StatementKind = "add_primary_key"
	KindAddUnique      StatementKind = "add_unique"
	KindAddCheck       StatementKind = "add_check"
	KindInsert         StatementKind = "insert"
)

// Mutates reports whether statements of this kind change the schema.
func (k StatementKind) Mutates() bool {
	return k != KindInsert
}

// Statement is a single generated SQL statement with its bound arguments.
type Statement struct {
	Table string
	Kind  StatementKind
	SQL   string
	Args  []any
}
