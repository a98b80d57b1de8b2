package schema

import "github.com/leapstack-labs/schemasync/pkg/core"

// FieldBuilder accumulates the attributes of one field.
type FieldBuilder struct {
	d core.FieldDescriptor
}

// Field starts a field of an arbitrary semantic type.
// Validation happens when the owning entity is built.
func Field(name string, t core.SemanticType) *FieldBuilder {
	return &FieldBuilder{d: core.FieldDescriptor{Name: name, Type: t}}
}

// Int starts an integer field.
func Int(name string) *FieldBuilder { return Field(name, core.TypeInt) }

// String starts a string field.
func String(name string) *FieldBuilder { return Field(name, core.TypeString) }

// DateTime starts a timestamp field.
func DateTime(name string) *FieldBuilder { return Field(name, core.TypeDateTime) }

// Bool starts a boolean field.
func Bool(name string) *FieldBuilder { return Field(name, core.TypeBool) }

// PrimaryKey marks the field as the table's primary key.
func (b *FieldBuilder) PrimaryKey() *FieldBuilder {
	b.d.PrimaryKey = true
	return b
}

// Unique adds a unique constraint on the column.
func (b *FieldBuilder) Unique() *FieldBuilder {
	b.d.Unique = true
	return b
}

// Nullable allows NULL in the column.
func (b *FieldBuilder) Nullable() *FieldBuilder {
	b.d.Nullable = true
	return b
}

// References declares a foreign key to table(column).
func (b *FieldBuilder) References(table, column string) *FieldBuilder {
	b.d.ForeignKey = &core.ForeignKeyRef{Table: table, Column: column}
	return b
}

// Check attaches a check constraint. expr is emitted verbatim.
func (b *FieldBuilder) Check(expr string) *FieldBuilder {
	b.d.Check = expr
	return b
}

// Descriptor returns a copy of the accumulated field.
func (b *FieldBuilder) Descriptor() core.FieldDescriptor {
	d := b.d
	if d.ForeignKey != nil {
		ref := *d.ForeignKey
		d.ForeignKey = &ref
	}
	return d
}
