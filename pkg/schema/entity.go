package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/schemasync/pkg/core"
)

// Validation errors, matched with errors.Is.
var (
	ErrEmptyName           = errors.New("name must not be empty")
	ErrDuplicateEntity     = errors.New("duplicate entity")
	ErrDuplicateField      = errors.New("duplicate field")
	ErrInvalidReference    = errors.New("foreign key reference must name a table and a column")
	ErrForeignKeyCollision = errors.New("two foreign keys target the same table")
)

// EntityBuilder holds the fields of one entity until it is validated.
type EntityBuilder struct {
	name   string
	fields []*FieldBuilder
}

// Entity starts an entity with the given fields, kept in declaration order.
func Entity(name string, fields ...*FieldBuilder) *EntityBuilder {
	return &EntityBuilder{name: name, fields: fields}
}

// Name returns the entity (and table) name.
func (b *EntityBuilder) Name() string {
	return b.name
}

// With appends fields.
func (b *EntityBuilder) With(fields ...*FieldBuilder) *EntityBuilder {
	b.fields = append(b.fields, fields...)
	return b
}

// Descriptor validates the entity and returns its immutable descriptor.
func (b *EntityBuilder) Descriptor() (core.EntityDescriptor, error) {
	if strings.TrimSpace(b.name) == "" {
		return core.EntityDescriptor{}, fmt.Errorf("entity: %w", ErrEmptyName)
	}

	entity := core.EntityDescriptor{
		Name:   b.name,
		Fields: make([]core.FieldDescriptor, 0, len(b.fields)),
	}
	seen := make(map[string]bool, len(b.fields))
	fkTargets := make(map[string]string)

	for i, fb := range b.fields {
		f := fb.Descriptor()
		if strings.TrimSpace(f.Name) == "" {
			return core.EntityDescriptor{}, fmt.Errorf("entity %s field %d: %w", b.name, i, ErrEmptyName)
		}
		if !f.Type.Valid() {
			return core.EntityDescriptor{}, &core.UnsupportedFieldTypeError{Entity: b.name, Field: f.Name, Type: f.Type}
		}
		if seen[f.Name] {
			return core.EntityDescriptor{}, fmt.Errorf("entity %s: %w: %s", b.name, ErrDuplicateField, f.Name)
		}
		seen[f.Name] = true

		if ref := f.ForeignKey; ref != nil {
			if strings.TrimSpace(ref.Table) == "" || strings.TrimSpace(ref.Column) == "" {
				return core.EntityDescriptor{}, fmt.Errorf("entity %s field %s: %w", b.name, f.Name, ErrInvalidReference)
			}
			// FK names are FK_{table}_{refTable}, so a second reference to the same table would collide.
			if other, ok := fkTargets[ref.Table]; ok {
				return core.EntityDescriptor{}, fmt.Errorf("entity %s: %w: %s and %s both reference %s",
					b.name, ErrForeignKeyCollision, other, f.Name, ref.Table)
			}
			fkTargets[ref.Table] = f.Name
		}

		entity.Fields = append(entity.Fields, f)
	}

	return entity, nil
}

// Build validates a set of entities, preserving order and rejecting duplicate names.
func Build(builders ...*EntityBuilder) ([]core.EntityDescriptor, error) {
	entities := make([]core.EntityDescriptor, 0, len(builders))
	seen := make(map[string]bool, len(builders))
	for _, b := range builders {
		e, err := b.Descriptor()
		if err != nil {
			return nil, err
		}
		if seen[e.Name] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateEntity, e.Name)
		}
		seen[e.Name] = true
		entities = append(entities, e)
	}
	return entities, nil
}
