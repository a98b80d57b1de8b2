package core

import "fmt"

// UnsupportedFieldTypeError reports a field whose semantic type has no SQL mapping.
// It is fatal: the operation that hit it issues no statements.
type UnsupportedFieldTypeError struct {
	Entity string
	Field  string
	Type   SemanticType
}

func (e *UnsupportedFieldTypeError) Error() string {
	if e.Entity == "" {
		return fmt.Sprintf("unsupported field type %s for field %q", e.Type, e.Field)
	}
	return fmt.Sprintf("unsupported field type %s for field %s.%s", e.Type, e.Entity, e.Field)
}

// StatementError is returned when the gateway rejects a statement.
// The gateway error is kept verbatim and reachable through errors.As.
type StatementError struct {
	Table string
	SQL   string
	Err   error
}

func (e *StatementError) Error() string {
	return fmt.Sprintf("statement on %s failed: %s: %v", e.Table, e.SQL, e.Err)
}

func (e *StatementError) Unwrap() error {
	return e.Err
}
