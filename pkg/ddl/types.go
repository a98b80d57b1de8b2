package ddl

import "github.com/leapstack-labs/schemasync/pkg/core"

// Column type tokens.
const (
	TypeInt       = "INT"
	TypeKeyString = "NVARCHAR(255)"
	TypeString    = "NVARCHAR(MAX)"
	TypeDateTime  = "DATETIME"
	TypeBool      = "BIT"
)

// MapType returns the column type for a semantic type. Strings that back a
// unique or primary key constraint get a bounded length so they can be indexed.
func MapType(t core.SemanticType, constrained bool) (string, error) {
	switch t {
	case core.TypeInt:
		return TypeInt, nil
	case core.TypeString:
		if constrained {
			return TypeKeyString, nil
		}
		return TypeString, nil
	case core.TypeDateTime:
		return TypeDateTime, nil
	case core.TypeBool:
		return TypeBool, nil
	default:
		return "", &core.UnsupportedFieldTypeError{Type: t}
	}
}

func columnType(table string, f core.FieldDescriptor) (string, error) {
	typ, err := MapType(f.Type, f.Constrained())
	if err != nil {
		return "", &core.UnsupportedFieldTypeError{Entity: table, Field: f.Name, Type: f.Type}
	}
	return typ, nil
}

func nullability(f core.FieldDescriptor) string {
	if f.Nullable {
		return "NULL"
	}
	return "NOT NULL"
}
