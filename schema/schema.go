package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/invopop/jsonschema"
	santhosh "github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema pairs a JSON Schema document with a compiled validator. The document
// side is what model providers receive as an operation's parameter shape; the
// validator side is what incoming arguments are checked against before the
// underlying method runs. A Schema is immutable after construction and safe
// for concurrent use.
type Schema struct {
	doc      map[string]any
	compiled *santhosh.Schema
}

// Options configure schema reflection.
type Options struct {
	// AllowAdditional permits properties not declared in the schema.
	// By default unknown properties are rejected.
	AllowAdditional bool
}

// For reflects a JSON Schema from an argument struct. Field names follow
// `json` tags; descriptions and enums come from `jsonschema` tags; fields
// without omitempty are required.
func For(v any, optFns ...func(o *Options)) (*Schema, error) {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	r := &jsonschema.Reflector{
		Anonymous:                 true,
		DoNotReference:            true,
		ExpandedStruct:            true,
		AllowAdditionalProperties: opts.AllowAdditional,
	}

	data, err := json.Marshal(r.Reflect(v))
	if err != nil {
		return nil, fmt.Errorf("schema: marshal reflected schema: %w", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("schema: decode reflected schema: %w", err)
	}
	// Provider APIs expect a bare parameter object, not a standalone document.
	delete(doc, "$schema")
	delete(doc, "$id")

	return FromMap(doc)
}

// MustFor is like For but panics on error. Intended for registration-time
// schema construction where a malformed argument struct is a programming error.
func MustFor(v any, optFns ...func(o *Options)) *Schema {
	s, err := For(v, optFns...)
	if err != nil {
		panic(err)
	}
	return s
}

// FromMap builds a Schema from a hand-written JSON Schema document.
func FromMap(doc map[string]any) (*Schema, error) {
	if doc == nil {
		return nil, fmt.Errorf("schema: document must not be nil")
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("schema: marshal document: %w", err)
	}

	res, err := santhosh.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("schema: parse document: %w", err)
	}

	compiler := santhosh.NewCompiler()
	if err := compiler.AddResource("schema.json", res); err != nil {
		return nil, fmt.Errorf("schema: add resource: %w", err)
	}

	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("schema: compile: %w", err)
	}

	var canonical map[string]any
	if err := json.Unmarshal(data, &canonical); err != nil {
		return nil, fmt.Errorf("schema: canonicalize document: %w", err)
	}

	return &Schema{doc: canonical, compiled: compiled}, nil
}

// MustFromMap is like FromMap but panics on error.
func MustFromMap(doc map[string]any) *Schema {
	s, err := FromMap(doc)
	if err != nil {
		panic(err)
	}
	return s
}

var emptySchema = sync.OnceValue(func() *Schema {
	return MustFromMap(map[string]any{"type": "object"})
})

// Empty returns the schema for operations that take no arguments. It accepts
// any JSON object. The returned Schema is shared and must not be mutated.
func Empty() *Schema {
	return emptySchema()
}

// Validate decodes raw JSON arguments and checks them against the schema.
// Empty or null input is treated as an empty argument object. On mismatch a
// *ValidationError is returned and the arguments must not be used.
func (s *Schema) Validate(raw json.RawMessage) (map[string]any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		trimmed = []byte("{}")
	}

	var args map[string]any
	if err := json.Unmarshal(trimmed, &args); err != nil {
		return nil, &ValidationError{
			Message: fmt.Sprintf("arguments are not a JSON object: %v", err),
			Err:     err,
		}
	}
	if args == nil {
		args = map[string]any{}
	}

	if err := s.compiled.Validate(args); err != nil {
		return nil, newValidationError(err)
	}

	return args, nil
}

// Doc returns a deep copy of the schema document for serialization toward
// model providers. Mutating the returned map does not affect the Schema.
func (s *Schema) Doc() map[string]any {
	return copyMap(s.doc)
}

// MarshalJSON serializes the schema document.
func (s *Schema) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.doc)
}

func copyMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		return copyMap(tv)
	case []any:
		out := make([]any, len(tv))
		for i, e := range tv {
			out[i] = copyValue(e)
		}
		return out
	default:
		return v
	}
}
