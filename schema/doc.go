// Package schema implements the input-shape collaborator used by callable
// operations: a JSON Schema document that is handed to model providers as the
// operation's declared parameters, paired with a compiled validator applied to
// incoming arguments before any user code runs.
//
// Schemas are built either by reflecting an argument struct:
//
//	type writeArgs struct {
//		Content string `json:"content" jsonschema:"description=New file content"`
//	}
//	s := schema.MustFor(writeArgs{})
//
// or from a hand-written schema map:
//
//	s := schema.MustFromMap(map[string]any{
//		"type": "object",
//		"properties": map[string]any{
//			"name": map[string]any{"type": "string"},
//		},
//		"required": []string{"name"},
//	})
//
// Validation failures are reported as *ValidationError so callers can
// distinguish malformed input from execution faults.
package schema
