package agentry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentry-ai/agentry/config"
	"github.com/agentry-ai/agentry/model"
)

// -------------------- Workspace Tests --------------------

func mockConfig() *config.Config {
	return &config.Config{
		Provider:  config.ProviderMock,
		LogLevel:  "error",
		LogFormat: "text",
	}
}

func TestNewWorkspace_MockProvider(t *testing.T) {
	w, err := NewWorkspace(context.Background(), func(o *Options) {
		o.Config = mockConfig()
	})
	require.NoError(t, err)

	assert.Equal(t, "mock", w.Model().Info().Provider)
	assert.Equal(t, []string{"files", "inspector", "shell"}, w.Manager().Children())
	assert.NotNil(t, w.Files())
	assert.NotNil(t, w.Shell())
	assert.NotNil(t, w.Inspector())
	assert.NotNil(t, w.Registry())
	assert.Equal(t, "manager", w.Manager().Name())
}

func TestNewWorkspace_RootBacksFilesAndShells(t *testing.T) {
	root := t.TempDir()

	w, err := NewWorkspace(context.Background(), func(o *Options) {
		o.Config = mockConfig()
		o.Root = root
	})
	require.NoError(t, err)

	assert.Equal(t, root, w.Files().Root())
	assert.Equal(t, root, w.Shell().Dir())
	assert.Equal(t, root, w.Inspector().Dir())
}

func TestNewWorkspace_RejectsUnknownProvider(t *testing.T) {
	_, err := NewWorkspace(context.Background(), func(o *Options) {
		o.Config = &config.Config{Provider: "nonsense"}
	})
	assert.ErrorContains(t, err, "unknown provider")
}

func TestWorkspace_ExecuteRoutesThroughManager(t *testing.T) {
	// One shared scripted model drives the whole exchange: the manager
	// delegates to the files agent, which creates a file, then both wrap
	// up with text answers. Calls are strictly sequential, so the script
	// pops in that order.
	m := model.NewMockModel("scripted").
		EnqueueToolCall("m-1", "delegate", map[string]any{
			"agent": "files",
			"task":  "create notes.txt saying hi",
		}).
		EnqueueToolCall("f-1", "create_file", map[string]any{
			"name":    "notes.txt",
			"content": "hi",
		}).
		EnqueueText("created notes.txt").
		EnqueueText("the notes file is ready")

	w, err := NewWorkspace(context.Background(), func(o *Options) {
		o.Config = mockConfig()
		o.Model = m
	})
	require.NoError(t, err)

	out, err := w.Execute(context.Background(), "set up a notes file saying hi")
	require.NoError(t, err)
	assert.Equal(t, "the notes file is ready", out)

	child, ok := w.Files().File("notes.txt")
	require.True(t, ok)
	assert.Equal(t, "hi", child.Content())
}

func TestNewModel_PerProvider(t *testing.T) {
	m, err := NewModel(context.Background(), &config.Config{Provider: config.ProviderMock})
	require.NoError(t, err)
	assert.Equal(t, "mock", m.Info().Provider)

	_, err = NewModel(context.Background(), &config.Config{Provider: "nonsense"})
	assert.ErrorContains(t, err, "unknown provider")
}
