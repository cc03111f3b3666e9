package session

import (
	"fmt"
	"strings"

	"github.com/metalagman/credo/internal/requirements"
)

// Kind tags the coerced type of an answer value.
type Kind string

// Value kinds.
const (
	KindText    Kind = "text"
	KindBoolean Kind = "boolean"
)

// Value is a tagged answer value. Coercion happens once, at the RecordAnswer
// boundary, so downstream consumers never re-inspect raw input.
type Value struct {
	Kind Kind
	Text string
	Bool bool
}

// Raw returns the value in the shape persisted into drafts and contracts:
// a bool for boolean fields, a string otherwise.
func (v Value) Raw() any {
	if v.Kind == KindBoolean {
		return v.Bool
	}
	return v.Text
}

func (v Value) String() string {
	if v.Kind == KindBoolean {
		return fmt.Sprintf("%t", v.Bool)
	}
	return v.Text
}

// Coerce converts a raw provider-supplied answer into a Value according to
// the field's declared type.
func Coerce(spec requirements.FieldSpec, raw any) (Value, error) {
	if spec.FieldType == "boolean" {
		b, err := coerceBool(raw)
		if err != nil {
			return Value{}, fmt.Errorf("field %q: %w", spec.FieldName, err)
		}
		return Value{Kind: KindBoolean, Bool: b}, nil
	}
	if s, ok := raw.(string); ok {
		return Value{Kind: KindText, Text: s}, nil
	}
	return Value{Kind: KindText, Text: fmt.Sprint(raw)}, nil
}

func coerceBool(raw any) (bool, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "y", "1":
			return true, nil
		case "false", "no", "n", "0":
			return false, nil
		}
		return false, fmt.Errorf("expected a yes/no answer, got %q", v)
	default:
		return false, fmt.Errorf("expected a yes/no answer, got %T", raw)
	}
}
