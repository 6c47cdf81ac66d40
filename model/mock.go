package model

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MockModel is a lightweight in-memory Model for tests and examples. Scripted
// responses are returned in order, one per Generate call; when the script is
// exhausted it echoes the last user message. Every request is recorded for
// later inspection.
type MockModel struct {
	mu       sync.Mutex
	info     Info
	script   []Response
	requests []Request
	err      error
}

// NewMockModel constructs a MockModel with tool support enabled.
func NewMockModel(name string) *MockModel {
	return &MockModel{
		info: Info{
			Name:          name,
			Provider:      "mock",
			SupportsTools: true,
		},
	}
}

// EnqueueText scripts a plain final answer.
func (m *MockModel) EnqueueText(text string) *MockModel {
	return m.Enqueue(Response{
		Message:    NewAssistantMessage(text),
		StopReason: FinishStop,
	})
}

// EnqueueToolCall scripts a turn that invokes one operation with the given
// arguments. Args must be JSON-marshalable; marshal failures panic since a
// broken script is a test bug.
func (m *MockModel) EnqueueToolCall(id, name string, args any) *MockModel {
	raw, err := json.Marshal(args)
	if err != nil {
		panic(fmt.Sprintf("mock model: marshal args for %s: %v", name, err))
	}
	return m.Enqueue(Response{
		Message: Message{
			Role:      RoleAssistant,
			ToolCalls: []ToolCall{{ID: id, Name: name, Args: raw}},
		},
		StopReason: FinishToolCalls,
	})
}

// Enqueue scripts an arbitrary response.
func (m *MockModel) Enqueue(resp Response) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, resp)
	return m
}

// FailWith makes every subsequent Generate call return err.
func (m *MockModel) FailWith(err error) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// Requests returns a copy of all requests seen so far.
func (m *MockModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.requests...)
}

// Generate implements Model.
func (m *MockModel) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}

	if len(m.script) > 0 {
		resp := m.script[0]
		m.script = m.script[1:]
		return &resp, nil
	}

	var lastUser string
	for _, msg := range req.Messages {
		if msg.Role == RoleUser && msg.Text != "" {
			lastUser = msg.Text
		}
	}
	return &Response{
		Message:    NewAssistantMessage(fmt.Sprintf("Mock response to: %s", lastUser)),
		StopReason: FinishStop,
	}, nil
}

// Info implements Model.
func (m *MockModel) Info() Info { return m.info }
