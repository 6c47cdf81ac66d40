package runtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/agentry-ai/agentry/logging"
	"github.com/agentry-ai/agentry/model"
	"github.com/agentry-ai/agentry/schema"
)

var (
	// ErrMaxTurns reports that an Invoke call ran out of model turns before
	// the model produced a final answer.
	ErrMaxTurns = errors.New("runtime: exceeded max turns")

	// ErrModelCalls reports that the runtime's lifetime model-call budget
	// is exhausted.
	ErrModelCalls = errors.New("runtime: exceeded max model calls")
)

// DefaultMaxTurns bounds the model turns of one Invoke call unless
// configured otherwise.
const DefaultMaxTurns = 10

// Operation is one externally-invocable unit of work: a unique name, a
// description and input schema for the model, and the execution entry point.
// Execute receives the raw JSON arguments produced by the model.
type Operation struct {
	Name        string
	Description string
	Schema      *schema.Schema
	Execute     func(ctx context.Context, raw json.RawMessage) (any, error)
}

// Middleware wraps an Operation, typically to add tracing or logging around
// Execute. Applied outermost-first by whoever assembles the operation list.
type Middleware func(op Operation) Operation

// Options configure a Runtime.
type Options struct {
	// Instructions is the standing system prompt sent with every request.
	Instructions string

	// MaxTurns bounds the model turns of one Invoke call.
	MaxTurns int

	// MaxModelCalls bounds model calls across the runtime's lifetime.
	// Zero means unlimited.
	MaxModelCalls int

	// CallsPerMinute throttles model calls. Zero means unthrottled.
	CallsPerMinute int

	// Logger receives structured loop diagnostics.
	Logger logging.Logger
}

// Runtime mediates one entity's conversation with its model.
//
// History access is synchronized, but two concurrent Invoke calls interleave
// their turns in one shared conversation. Callers that need at-most-one
// in-flight invocation must serialize externally.
type Runtime struct {
	model    model.Model
	ops      []Operation
	byName   map[string]Operation
	tools    []model.ToolDefinition
	opts     Options
	budget   *callBudget
	throttle *rate.Limiter

	mu      sync.Mutex
	history []model.Message
}

// New validates the operation list and constructs a Runtime.
//
// The operation list is rejected when a name is empty or duplicated, or when
// an operation lacks a schema or an execute function. Entity construction
// treats any error from New as fatal.
func New(m model.Model, ops []Operation, optFns ...func(o *Options)) (*Runtime, error) {
	if m == nil {
		return nil, fmt.Errorf("runtime: model is required")
	}

	opts := Options{
		MaxTurns: DefaultMaxTurns,
		Logger:   logging.Default(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxTurns <= 0 {
		opts.MaxTurns = DefaultMaxTurns
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	byName := make(map[string]Operation, len(ops))
	tools := make([]model.ToolDefinition, 0, len(ops))
	for _, op := range ops {
		if op.Name == "" {
			return nil, fmt.Errorf("runtime: operation with empty name")
		}
		if _, exists := byName[op.Name]; exists {
			return nil, fmt.Errorf("runtime: duplicate operation name %q", op.Name)
		}
		if op.Schema == nil {
			return nil, fmt.Errorf("runtime: operation %q: schema is required", op.Name)
		}
		if op.Execute == nil {
			return nil, fmt.Errorf("runtime: operation %q: execute is required", op.Name)
		}
		byName[op.Name] = op
		tools = append(tools, model.ToolDefinition{
			Name:        op.Name,
			Description: op.Description,
			Schema:      op.Schema.Doc(),
		})
	}

	r := &Runtime{
		model:  m,
		ops:    append([]Operation(nil), ops...),
		byName: byName,
		tools:  tools,
		opts:   opts,
		budget: newCallBudget(opts.MaxModelCalls),
	}
	if opts.CallsPerMinute > 0 {
		r.throttle = rate.NewLimiter(rate.Limit(float64(opts.CallsPerMinute)/60.0), 1)
	}

	return r, nil
}

// Invoke appends input as a user turn and runs the conversation until the
// model answers with plain text. Tool calls requested by the model are
// executed sequentially in the order the model emitted them; their results,
// including failures, are fed back as tool turns.
func (r *Runtime) Invoke(ctx context.Context, input string) (string, error) {
	r.appendHistory(model.NewUserMessage(input))

	for turn := 0; turn < r.opts.MaxTurns; turn++ {
		resp, err := r.generate(ctx)
		if err != nil {
			return "", err
		}

		r.appendHistory(resp.Message)

		if len(resp.Message.ToolCalls) == 0 {
			return resp.Message.Text, nil
		}

		results := make([]model.ToolResult, 0, len(resp.Message.ToolCalls))
		for _, call := range resp.Message.ToolCalls {
			results = append(results, r.executeCall(ctx, call))
		}
		r.appendHistory(model.NewToolResultMessage(results...))
	}

	return "", fmt.Errorf("%w: limit %d", ErrMaxTurns, r.opts.MaxTurns)
}

// History returns a copy of the conversation so far.
func (r *Runtime) History() []model.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Message(nil), r.history...)
}

// Operations returns a copy of the operation list the runtime exposes.
func (r *Runtime) Operations() []Operation {
	return append([]Operation(nil), r.ops...)
}

// Operation returns the named operation for direct invocation, bypassing the
// model. Composed entities use this to drive a child's pipeline themselves.
func (r *Runtime) Operation(name string) (Operation, bool) {
	op, ok := r.byName[name]
	return op, ok
}

// ModelCalls returns the number of model calls made so far.
func (r *Runtime) ModelCalls() int {
	return r.budget.used()
}

func (r *Runtime) appendHistory(msg model.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = append(r.history, msg)
}

func (r *Runtime) snapshotHistory() []model.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Message(nil), r.history...)
}

func (r *Runtime) generate(ctx context.Context) (*model.Response, error) {
	if r.throttle != nil {
		if err := r.throttle.Wait(ctx); err != nil {
			return nil, err
		}
	}
	if err := r.budget.increment(); err != nil {
		return nil, err
	}

	req := model.Request{
		Instructions: r.opts.Instructions,
		Messages:     r.snapshotHistory(),
		Tools:        r.tools,
	}

	start := time.Now()
	resp, err := r.model.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("runtime: model call failed: %w", err)
	}

	r.opts.Logger.Debug("model turn complete",
		"model", r.model.Info().Name,
		"stop_reason", resp.StopReason,
		"tool_calls", len(resp.Message.ToolCalls),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return resp, nil
}

// executeCall runs one requested operation. Failures become error-flagged
// tool results for the model, never Invoke errors.
func (r *Runtime) executeCall(ctx context.Context, call model.ToolCall) model.ToolResult {
	op, ok := r.byName[call.Name]
	if !ok {
		r.opts.Logger.Warn("unknown operation requested", "operation", call.Name)
		return model.ToolResult{
			ID:      call.ID,
			Name:    call.Name,
			Content: fmt.Sprintf("unknown operation: %s", call.Name),
			IsError: true,
		}
	}

	result, err := op.Execute(ctx, call.Args)
	if err != nil {
		return model.ToolResult{
			ID:      call.ID,
			Name:    call.Name,
			Content: err.Error(),
			IsError: true,
		}
	}

	return model.ToolResult{
		ID:      call.ID,
		Name:    call.Name,
		Content: stringifyResult(result),
	}
}

// stringifyResult renders an operation result for the model. Strings pass
// through unchanged; everything else is serialized as JSON.
func stringifyResult(v any) string {
	switch tv := v.(type) {
	case nil:
		return ""
	case string:
		return tv
	case json.RawMessage:
		return string(tv)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}
