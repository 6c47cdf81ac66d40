// Package runtime drives the conversational loop between a model and a set
// of named, schema-described operations.
//
// A Runtime owns the conversation history for one entity. Invoke appends the
// caller's input as a user turn and then alternates model turns with
// operation execution until the model produces a final text answer or a
// limit is hit. Operation failures are reported back to the model as failed
// tool calls, never as Invoke errors, so the model can retry with different
// input.
//
// Limits:
//   - MaxTurns bounds the model turns within one Invoke call
//   - MaxModelCalls bounds model calls across the runtime's whole lifetime
//   - CallsPerMinute throttles the model call rate
//
// The package knows nothing about how operations are built; the entity
// package assembles them from registered callables and hands them over.
package runtime
