package core

import (
	"fmt"
	"strings"
)

// SemanticType is the model-level type of a field, independent of any SQL dialect.
type SemanticType int

// Supported semantic types. TypeInvalid is the zero value and is never supported.
const (
	TypeInvalid SemanticType = iota
	TypeInt
	TypeString
	TypeDateTime
	TypeBool
)

var semanticTypeNames = map[SemanticType]string{
	TypeInt:      "int",
	TypeString:   "string",
	TypeDateTime: "datetime",
	TypeBool:     "bool",
}

// String returns the lowercase type name used in model files.
func (t SemanticType) String() string {
	if name, ok := semanticTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("SemanticType(%d)", int(t))
}

// Valid reports whether t is one of the supported semantic types.
func (t SemanticType) Valid() bool {
	_, ok := semanticTypeNames[t]
	return ok
}

// ParseSemanticType parses a type name as written in model files.
// Matching is case-insensitive.
func ParseSemanticType(s string) (SemanticType, bool) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for t, name := range semanticTypeNames {
		if name == needle {
			return t, true
		}
	}
	return TypeInvalid, false
}

// ForeignKeyRef identifies the column a foreign key points at.
type ForeignKeyRef struct {
	Table  string
	Column string
}

// FieldDescriptor describes one field of an entity and the column it maps to.
type FieldDescriptor struct {
	Name       string
	Type       SemanticType
	PrimaryKey bool
	Unique     bool
	ForeignKey *ForeignKeyRef

	// Nullable marks the column as NULL. Unmarked fields are NOT NULL.
	Nullable bool

	// Check is a raw SQL boolean expression; empty means no check constraint.
	Check string
}

// Constrained reports whether the column backs an index-based constraint.
func (f FieldDescriptor) Constrained() bool {
	return f.PrimaryKey || f.Unique
}

// EntityDescriptor describes a model type and the table it maps to (one entity, one table).
type EntityDescriptor struct {
	Name   string
	Fields []FieldDescriptor
}

// Field returns the field with the given name.
func (e EntityDescriptor) Field(name string) (FieldDescriptor, bool) {
	for _, f := range e.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDescriptor{}, false
}

// References returns the distinct tables this entity points at through foreign keys,
// in field order.
func (e EntityDescriptor) References() []string {
	var refs []string
	seen := make(map[string]bool)
	for _, f := range e.Fields {
		if f.ForeignKey == nil || seen[f.ForeignKey.Table] {
			continue
		}
		seen[f.ForeignKey.Table] = true
		refs = append(refs, f.ForeignKey.Table)
	}
	return refs
}
