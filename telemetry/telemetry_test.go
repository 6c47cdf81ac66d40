package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentry-ai/agentry/model"
	"github.com/agentry-ai/agentry/runtime"
	"github.com/agentry-ai/agentry/schema"
)

// -------------------- Middleware Tests --------------------

func TestTracing_PassesThroughSuccess(t *testing.T) {
	op := runtime.Operation{
		Name:   "lookup",
		Schema: schema.Empty(),
		Execute: func(ctx context.Context, _ json.RawMessage) (any, error) {
			require.NotNil(t, ctx)
			return "found", nil
		},
	}

	traced := Tracing("librarian")(op)
	assert.Equal(t, "lookup", traced.Name)

	result, err := traced.Execute(context.Background(), json.RawMessage(`{}`))
	require.NoError(t, err)
	assert.Equal(t, "found", result)
}

func TestTracing_PassesThroughFailure(t *testing.T) {
	wantErr := errors.New("shelf empty")
	op := runtime.Operation{
		Name:   "lookup",
		Schema: schema.Empty(),
		Execute: func(_ context.Context, _ json.RawMessage) (any, error) {
			return nil, wantErr
		},
	}

	traced := Tracing("librarian")(op)
	_, err := traced.Execute(context.Background(), json.RawMessage(`{}`))
	assert.ErrorIs(t, err, wantErr)
}

// -------------------- Model Wrapper Tests --------------------

func TestWrapModel_DelegatesGenerate(t *testing.T) {
	m := model.NewMockModel("test").EnqueueText("pong")
	wrapped := WrapModel(m)

	assert.Equal(t, m.Info(), wrapped.Info())

	resp, err := wrapped.Generate(context.Background(), model.Request{
		Messages: []model.Message{model.NewUserMessage("ping")},
	})
	require.NoError(t, err)
	assert.Equal(t, "pong", resp.Message.Text)
	require.Len(t, m.Requests(), 1)
}

func TestWrapModel_PropagatesFailure(t *testing.T) {
	m := model.NewMockModel("test").FailWith(errors.New("quota exhausted"))
	wrapped := WrapModel(m)

	_, err := wrapped.Generate(context.Background(), model.Request{})
	assert.ErrorContains(t, err, "quota exhausted")
}
