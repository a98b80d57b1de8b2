package schema

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/leapstack-labs/schemasync/pkg/core"
)

// ParseValue converts command-line text into a value of the field's type.
// The literal "null" (any case) yields nil.
func ParseValue(t core.SemanticType, text string) (any, error) {
	if strings.EqualFold(text, "null") {
		return nil, nil
	}

	switch t {
	case core.TypeInt:
		n, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil {
			return nil, fmt.Errorf("invalid int %q: %w", text, err)
		}
		return n, nil
	case core.TypeString:
		return text, nil
	case core.TypeDateTime:
		ts, err := time.Parse(time.RFC3339, strings.TrimSpace(text))
		if err != nil {
			return nil, fmt.Errorf("invalid datetime %q (want RFC 3339): %w", text, err)
		}
		return ts, nil
	case core.TypeBool:
		b, err := strconv.ParseBool(strings.TrimSpace(text))
		if err != nil {
			return nil, fmt.Errorf("invalid bool %q: %w", text, err)
		}
		return b, nil
	default:
		return nil, &core.UnsupportedFieldTypeError{Type: t}
	}
}
