package agents

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentry-ai/agentry/entity"
	"github.com/agentry-ai/agentry/model"
)

// -------------------- DirAgent Tests --------------------

func TestDirAgent_CreateReadListRemoveCycle(t *testing.T) {
	reg := newTestRegistry(t)
	a, err := NewDirAgent(reg, model.NewMockModel("test"), "workspace")
	require.NoError(t, err)

	created, err := invoke(t, a.Runtime(), "create_file", map[string]any{"name": "a.txt", "content": "alpha"})
	require.NoError(t, err)
	assert.Contains(t, created.(string), `created file "a.txt"`)

	read, err := invoke(t, a.Runtime(), "read_file", map[string]any{"name": "a.txt"})
	require.NoError(t, err)
	got := read.(map[string]any)
	assert.Equal(t, true, got["found"])
	assert.Equal(t, "alpha", got["content"])
	assert.Contains(t, got["summary"], "alpha")

	_, err = invoke(t, a.Runtime(), "create_file", map[string]any{"name": "b.txt"})
	require.NoError(t, err)

	listed, err := invoke(t, a.Runtime(), "list_files", nil)
	require.NoError(t, err)
	dir := listed.(map[string]any)
	assert.Equal(t, "workspace", dir["directory"])
	assert.Equal(t, 2, dir["count"])
	assert.Equal(t, []string{"a.txt", "b.txt"}, a.Files())

	removed, err := invoke(t, a.Runtime(), "remove_file", map[string]any{"name": "a.txt"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"found": true, "removed": "a.txt"}, removed)
	assert.Equal(t, []string{"b.txt"}, a.Files())
}

func TestDirAgent_MissingFileIsNotAnError(t *testing.T) {
	reg := newTestRegistry(t)
	a, err := NewDirAgent(reg, model.NewMockModel("test"), "workspace")
	require.NoError(t, err)

	read, err := invoke(t, a.Runtime(), "read_file", map[string]any{"name": "ghost.txt"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"found": false, "name": "ghost.txt"}, read)

	removed, err := invoke(t, a.Runtime(), "remove_file", map[string]any{"name": "ghost.txt"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"found": false, "name": "ghost.txt"}, removed)
}

func TestDirAgent_DuplicateCreateFails(t *testing.T) {
	reg := newTestRegistry(t)
	a, err := NewDirAgent(reg, model.NewMockModel("test"), "workspace")
	require.NoError(t, err)

	_, err = invoke(t, a.Runtime(), "create_file", map[string]any{"name": "a.txt"})
	require.NoError(t, err)

	_, err = invoke(t, a.Runtime(), "create_file", map[string]any{"name": "a.txt"})
	require.Error(t, err)

	var opErr *entity.OperationError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, entity.CodeExecution, opErr.Code)
	assert.Contains(t, opErr.Message, "already exists")
}

func TestDirAgent_RejectsPathlikeNames(t *testing.T) {
	reg := newTestRegistry(t)
	a, err := NewDirAgent(reg, model.NewMockModel("test"), "workspace", func(o *DirOptions) {
		o.Root = t.TempDir()
	})
	require.NoError(t, err)

	for _, name := range []string{"../evil", "sub/nested.txt", "..", "."} {
		_, err := invoke(t, a.Runtime(), "create_file", map[string]any{"name": name})
		require.Error(t, err, "name %q should be rejected", name)
	}
	assert.Empty(t, a.Files())
}

func TestDirAgent_CreateRequiresName(t *testing.T) {
	reg := newTestRegistry(t)
	a, err := NewDirAgent(reg, model.NewMockModel("test"), "workspace")
	require.NoError(t, err)

	_, err = invoke(t, a.Runtime(), "create_file", map[string]any{})
	require.Error(t, err)

	var opErr *entity.OperationError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, entity.CodeValidation, opErr.Code)
}

func TestDirAgent_CreateRunsChildWritePipeline(t *testing.T) {
	reg := newTestRegistry(t)
	a, err := NewDirAgent(reg, model.NewMockModel("test"), "workspace")
	require.NoError(t, err)

	_, err = invoke(t, a.Runtime(), "create_file", map[string]any{"name": "a.txt", "content": "alpha"})
	require.NoError(t, err)

	child, ok := a.File("a.txt")
	require.True(t, ok)
	assert.Equal(t, "alpha", child.Content())
	assert.Contains(t, child.Summary(), "alpha")
}

func TestDirAgent_DiskBackedCreateAndAdoption(t *testing.T) {
	reg := newTestRegistry(t)
	root := t.TempDir()

	a, err := NewDirAgent(reg, model.NewMockModel("test"), "workspace", func(o *DirOptions) {
		o.Root = root
	})
	require.NoError(t, err)

	_, err = invoke(t, a.Runtime(), "create_file", map[string]any{"name": "notes.txt", "content": "hi"})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "notes.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hi", string(data))

	// A fresh agent over the same root adopts the existing file.
	fresh, err := NewDirAgent(reg, model.NewMockModel("test"), "workspace", func(o *DirOptions) {
		o.Root = root
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"notes.txt"}, fresh.Files())

	read, err := invoke(t, fresh.Runtime(), "read_file", map[string]any{"name": "notes.txt"})
	require.NoError(t, err)
	got := read.(map[string]any)
	assert.Equal(t, true, got["found"])
	assert.Equal(t, "hi", got["content"])
}

func TestDirAgent_RemoveDeletesBackingFile(t *testing.T) {
	reg := newTestRegistry(t)
	root := t.TempDir()

	a, err := NewDirAgent(reg, model.NewMockModel("test"), "workspace", func(o *DirOptions) {
		o.Root = root
	})
	require.NoError(t, err)

	_, err = invoke(t, a.Runtime(), "create_file", map[string]any{"name": "notes.txt", "content": "hi"})
	require.NoError(t, err)

	_, err = invoke(t, a.Runtime(), "remove_file", map[string]any{"name": "notes.txt"})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(root, "notes.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestDirAgent_RequiresDirName(t *testing.T) {
	reg := newTestRegistry(t)
	_, err := NewDirAgent(reg, model.NewMockModel("test"), "")
	assert.ErrorContains(t, err, "directory name is required")
}
