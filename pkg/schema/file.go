package schema

import (
	"fmt"
	"os"

	"github.com/leapstack-labs/schemasync/pkg/core"
	"gopkg.in/yaml.v3"
)

// ModelFile is the on-disk representation of a set of entities.
type ModelFile struct {
	Entities []EntitySpec `yaml:"entities"`
}

// EntitySpec is one entity in a model file.
type EntitySpec struct {
	Name   string      `yaml:"name"`
	Fields []FieldSpec `yaml:"fields"`
}

// FieldSpec is one field in a model file.
type FieldSpec struct {
	Name       string         `yaml:"name"`
	Type       string         `yaml:"type"`
	PrimaryKey bool           `yaml:"primary_key,omitempty"`
	Unique     bool           `yaml:"unique,omitempty"`
	Nullable   bool           `yaml:"nullable,omitempty"`
	References *ReferenceSpec `yaml:"references,omitempty"`
	Check      string         `yaml:"check,omitempty"`
}

// ReferenceSpec is the target of a foreign key in a model file.
type ReferenceSpec struct {
	Table  string `yaml:"table"`
	Column string `yaml:"column"`
}

// LoadFile reads and validates a YAML model file.
func LoadFile(path string) ([]core.EntityDescriptor, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from user config
	if err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}
	entities, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entities, nil
}

// Parse decodes YAML model data into validated descriptors.
func Parse(data []byte) ([]core.EntityDescriptor, error) {
	var mf ModelFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("failed to parse model file: %w", err)
	}
	builders, err := mf.Builders()
	if err != nil {
		return nil, err
	}
	return Build(builders...)
}

// Builders converts the file into entity builders without validating them.
// Unknown type names are reported as UnsupportedFieldTypeError.
func (mf *ModelFile) Builders() ([]*EntityBuilder, error) {
	builders := make([]*EntityBuilder, 0, len(mf.Entities))
	for _, es := range mf.Entities {
		eb := Entity(es.Name)
		for _, fs := range es.Fields {
			t, ok := core.ParseSemanticType(fs.Type)
			if !ok {
				return nil, fmt.Errorf("unknown type %q: %w", fs.Type,
					&core.UnsupportedFieldTypeError{Entity: es.Name, Field: fs.Name, Type: core.TypeInvalid})
			}
			fb := Field(fs.Name, t)
			if fs.PrimaryKey {
				fb.PrimaryKey()
			}
			if fs.Unique {
				fb.Unique()
			}
			if fs.Nullable {
				fb.Nullable()
			}
			if fs.References != nil {
				fb.References(fs.References.Table, fs.References.Column)
			}
			if fs.Check != "" {
				fb.Check(fs.Check)
			}
			eb.With(fb)
		}
		builders = append(builders, eb)
	}
	return builders, nil
}

// Marshal renders descriptors back into model file YAML.
func Marshal(entities []core.EntityDescriptor) ([]byte, error) {
	mf := ModelFile{Entities: make([]EntitySpec, 0, len(entities))}
	for _, e := range entities {
		es := EntitySpec{Name: e.Name}
		for _, f := range e.Fields {
			fs := FieldSpec{
				Name:       f.Name,
				Type:       f.Type.String(),
				PrimaryKey: f.PrimaryKey,
				Unique:     f.Unique,
				Nullable:   f.Nullable,
				Check:      f.Check,
			}
			if f.ForeignKey != nil {
				fs.References = &ReferenceSpec{Table: f.ForeignKey.Table, Column: f.ForeignKey.Column}
			}
			es.Fields = append(es.Fields, fs)
		}
		mf.Entities = append(mf.Entities, es)
	}
	return yaml.Marshal(&mf)
}
