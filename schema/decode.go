package schema

import (
	"encoding/json"
	"fmt"
)

// Validatable lets argument structs carry business-rule checks that go beyond
// what JSON Schema can express. Decode runs Validate after unmarshaling.
type Validatable interface {
	Validate() error
}

// Decode converts already schema-validated arguments into a typed struct.
// It is a convenience for handlers that prefer typed access over map lookups:
//
//	in, err := schema.Decode[writeArgs](args)
func Decode[T any](args map[string]any) (T, error) {
	var out T

	data, err := json.Marshal(args)
	if err != nil {
		return out, fmt.Errorf("schema: encode arguments: %w", err)
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("schema: decode arguments: %w", err)
	}

	if v, ok := any(&out).(Validatable); ok {
		if err := v.Validate(); err != nil {
			return out, err
		}
	}

	return out, nil
}
