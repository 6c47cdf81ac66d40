package agents

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/agentry-ai/agentry/entity"
	"github.com/agentry-ai/agentry/model"
	"github.com/agentry-ai/agentry/registry"
	"github.com/agentry-ai/agentry/schema"
)

// FileAgent manages one document: its content and a derived summary that is
// recomputed after every mutating operation. With a backing path the content
// is persisted to disk on write and recoverable via reload; without one the
// agent is memory-only.
type FileAgent struct {
	*entity.Base

	fileName string
	path     string
	content  string
	summary  string
}

// FileOptions configure a FileAgent beyond the common entity options.
type FileOptions struct {
	entity.Options

	// Path backs the file on disk when non-empty. Existing content at the
	// path is loaded during construction.
	Path string
}

// NewFileAgent constructs a file agent for the given display file name.
func NewFileAgent(reg *registry.Registry, m model.Model, fileName string, optFns ...func(o *FileOptions)) (*FileAgent, error) {
	if fileName == "" {
		return nil, fmt.Errorf("agents: file name is required")
	}

	opts := FileOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Name == "" {
		opts.Name = fileName
	}
	if opts.Instructions == "" {
		opts.Instructions = fmt.Sprintf(
			"You manage the file %q. Use write_content to replace its content, read_content to inspect it, reload to restore it from storage and describe for a quick overview.",
			fileName,
		)
	}

	a := &FileAgent{fileName: fileName, path: opts.Path}
	if a.path != "" {
		if data, err := os.ReadFile(a.path); err == nil {
			a.content = string(data)
		}
	}
	a.summary = deriveSummary(a.content)

	base, err := entity.NewBase(FileKind, a, m, reg, func(o *entity.Options) { *o = opts.Options })
	if err != nil {
		return nil, err
	}
	a.Base = base

	return a, nil
}

// FileName returns the display name of the managed file.
func (a *FileAgent) FileName() string { return a.fileName }

// Content returns the current content.
func (a *FileAgent) Content() string { return a.content }

// Summary returns the derived summary of the current content.
func (a *FileAgent) Summary() string { return a.summary }

// Path returns the backing path, empty for memory-only agents.
func (a *FileAgent) Path() string { return a.path }

type writeContentArgs struct {
	Content string `json:"content" jsonschema:"description=The full new content of the file"`
}

// RegisterFileAgent declares the file agent's callables and transforms.
// The summary refresh is an after-transform on every mutating method, which
// keeps the two steps of a write, assigning content and recomputing the
// description, both visible in the operation pipeline.
func RegisterFileAgent(reg *registry.Registry) error {
	callables := []registry.Callable{
		{
			Kind:        FileKind,
			Method:      "writeContent",
			Name:        "write_content",
			Description: "Replace the file's content with the given text",
			Schema:      schema.MustFor(writeContentArgs{}),
			Handler:     handleWriteContent,
		},
		{
			Kind:        FileKind,
			Method:      "readContent",
			Name:        "read_content",
			Description: "Return the file's current content",
			Handler:     handleReadContent,
		},
		{
			Kind:        FileKind,
			Method:      "reload",
			Name:        "reload",
			Description: "Restore the content from backing storage and return it",
			Handler:     handleReload,
		},
		{
			Kind:        FileKind,
			Method:      "describe",
			Name:        "describe",
			Description: "Summarize the file: name, size and a content preview",
			Handler:     handleDescribe,
		},
	}
	for _, c := range callables {
		if err := reg.Register(c); err != nil {
			return err
		}
	}

	chains := reg.Chains()
	chains.AddAfter(registry.MethodRef{Kind: FileKind, Method: "writeContent"}, refreshSummary)
	chains.AddAfter(registry.MethodRef{Kind: FileKind, Method: "reload"}, refreshSummary)

	return nil
}

func handleWriteContent(_ context.Context, recv any, args map[string]any) (any, error) {
	a, ok := recv.(*FileAgent)
	if !ok {
		return nil, fmt.Errorf("write_content: unexpected receiver %T", recv)
	}

	in, err := schema.Decode[writeContentArgs](args)
	if err != nil {
		return nil, err
	}

	a.content = in.Content
	if a.path != "" {
		if err := os.WriteFile(a.path, []byte(in.Content), 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", a.path, err)
		}
	}

	return fmt.Sprintf("wrote %d bytes to %s", len(in.Content), a.fileName), nil
}

func handleReadContent(_ context.Context, recv any, _ map[string]any) (any, error) {
	a, ok := recv.(*FileAgent)
	if !ok {
		return nil, fmt.Errorf("read_content: unexpected receiver %T", recv)
	}
	return a.content, nil
}

func handleReload(_ context.Context, recv any, _ map[string]any) (any, error) {
	a, ok := recv.(*FileAgent)
	if !ok {
		return nil, fmt.Errorf("reload: unexpected receiver %T", recv)
	}

	if a.path != "" {
		data, err := os.ReadFile(a.path)
		if err != nil {
			return nil, fmt.Errorf("reload %s: %w", a.path, err)
		}
		a.content = string(data)
	}

	return a.content, nil
}

func handleDescribe(_ context.Context, recv any, _ map[string]any) (any, error) {
	a, ok := recv.(*FileAgent)
	if !ok {
		return nil, fmt.Errorf("describe: unexpected receiver %T", recv)
	}

	return map[string]any{
		"name":    a.fileName,
		"bytes":   len(a.content),
		"summary": a.summary,
		"backed":  a.path != "",
	}, nil
}

// refreshSummary recomputes the derived summary from the current content.
// The operation result passes through unchanged.
func refreshSummary(_ context.Context, recv any, result any) (any, error) {
	a, ok := recv.(*FileAgent)
	if !ok {
		return nil, fmt.Errorf("refresh summary: unexpected receiver %T", recv)
	}
	a.summary = deriveSummary(a.content)
	return result, nil
}

func deriveSummary(content string) string {
	if content == "" {
		return "empty file"
	}

	first := content
	if i := strings.IndexByte(content, '\n'); i >= 0 {
		first = content[:i]
	}
	if r := []rune(first); len(r) > 64 {
		first = string(r[:64]) + "..."
	}

	lines := strings.Count(content, "\n") + 1
	return fmt.Sprintf("%d bytes in %d lines, starting %q", len(content), lines, first)
}
