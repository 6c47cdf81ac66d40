package agents

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentry-ai/agentry/entity"
	"github.com/agentry-ai/agentry/model"
)

// -------------------- FileAgent Tests --------------------

func TestFileAgent_WriteUpdatesContentAndSummary(t *testing.T) {
	reg := newTestRegistry(t)
	a, err := NewFileAgent(reg, model.NewMockModel("test"), "notes.txt")
	require.NoError(t, err)

	result, err := invoke(t, a.Runtime(), "write_content", map[string]any{"content": "hello"})
	require.NoError(t, err)
	assert.Contains(t, result.(string), "wrote 5 bytes")

	assert.Equal(t, "hello", a.Content())
	assert.NotEmpty(t, a.Summary())
	assert.Contains(t, a.Summary(), "hello")
}

func TestFileAgent_ReadAndDescribeAreIdempotent(t *testing.T) {
	reg := newTestRegistry(t)
	a, err := NewFileAgent(reg, model.NewMockModel("test"), "notes.txt")
	require.NoError(t, err)

	_, err = invoke(t, a.Runtime(), "write_content", map[string]any{"content": "line one\nline two"})
	require.NoError(t, err)

	first, err := invoke(t, a.Runtime(), "describe", nil)
	require.NoError(t, err)
	second, err := invoke(t, a.Runtime(), "describe", nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	read1, err := invoke(t, a.Runtime(), "read_content", nil)
	require.NoError(t, err)
	read2, err := invoke(t, a.Runtime(), "read_content", nil)
	require.NoError(t, err)
	assert.Equal(t, read1, read2)
	assert.Equal(t, "line one\nline two", read1)
}

func TestFileAgent_RoundTripThroughDisk(t *testing.T) {
	reg := newTestRegistry(t)
	path := filepath.Join(t.TempDir(), "notes.txt")

	a, err := NewFileAgent(reg, model.NewMockModel("test"), "notes.txt", func(o *FileOptions) {
		o.Path = path
	})
	require.NoError(t, err)

	_, err = invoke(t, a.Runtime(), "write_content", map[string]any{"content": "persisted"})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "persisted", string(data))

	reloaded, err := invoke(t, a.Runtime(), "reload", nil)
	require.NoError(t, err)
	assert.Equal(t, "persisted", reloaded)
}

func TestFileAgent_ReloadPicksUpExternalChanges(t *testing.T) {
	reg := newTestRegistry(t)
	path := filepath.Join(t.TempDir(), "notes.txt")

	a, err := NewFileAgent(reg, model.NewMockModel("test"), "notes.txt", func(o *FileOptions) {
		o.Path = path
	})
	require.NoError(t, err)

	_, err = invoke(t, a.Runtime(), "write_content", map[string]any{"content": "original"})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("changed on disk"), 0o644))

	reloaded, err := invoke(t, a.Runtime(), "reload", nil)
	require.NoError(t, err)
	assert.Equal(t, "changed on disk", reloaded)
	assert.Equal(t, "changed on disk", a.Content())
	assert.Contains(t, a.Summary(), "changed on disk")
}

func TestFileAgent_LoadsExistingBacking(t *testing.T) {
	reg := newTestRegistry(t)
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("already here"), 0o644))

	a, err := NewFileAgent(reg, model.NewMockModel("test"), "notes.txt", func(o *FileOptions) {
		o.Path = path
	})
	require.NoError(t, err)

	assert.Equal(t, "already here", a.Content())
	assert.Contains(t, a.Summary(), "already here")
}

func TestFileAgent_ValidationNeverReachesHandler(t *testing.T) {
	reg := newTestRegistry(t)
	a, err := NewFileAgent(reg, model.NewMockModel("test"), "notes.txt")
	require.NoError(t, err)

	_, err = invoke(t, a.Runtime(), "write_content", map[string]any{})
	require.Error(t, err)

	var opErr *entity.OperationError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, entity.CodeValidation, opErr.Code)
	assert.Empty(t, a.Content())
}

func TestFileAgent_ExecuteThroughModel(t *testing.T) {
	reg := newTestRegistry(t)
	m := model.NewMockModel("test").
		EnqueueToolCall("call-1", "write_content", map[string]any{"content": "from the model"}).
		EnqueueText("saved")

	a, err := NewFileAgent(reg, m, "notes.txt")
	require.NoError(t, err)

	out, err := a.Execute(context.Background(), "please save this")
	require.NoError(t, err)
	assert.Equal(t, "saved", out)
	assert.Equal(t, "from the model", a.Content())
	assert.NotEmpty(t, a.Summary())
}

func TestFileAgent_RequiresFileName(t *testing.T) {
	reg := newTestRegistry(t)
	_, err := NewFileAgent(reg, model.NewMockModel("test"), "")
	assert.ErrorContains(t, err, "file name is required")
}
