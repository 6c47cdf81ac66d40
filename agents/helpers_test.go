package agents

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agentry-ai/agentry/registry"
	"github.com/agentry-ai/agentry/runtime"
)

func newTestRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New()
	require.NoError(t, RegisterAll(reg))
	return reg
}

// invoke drives one operation directly, bypassing the model.
func invoke(t *testing.T, rt *runtime.Runtime, name string, args map[string]any) (any, error) {
	t.Helper()

	op, ok := rt.Operation(name)
	require.True(t, ok, "operation %s not found", name)

	raw, err := json.Marshal(args)
	require.NoError(t, err)

	return op.Execute(context.Background(), raw)
}
