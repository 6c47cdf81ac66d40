package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/agentry-ai/agentry/entity"
	"github.com/agentry-ai/agentry/model"
	"github.com/agentry-ai/agentry/registry"
	"github.com/agentry-ai/agentry/schema"
)

// DirAgent owns a flat collection of FileAgents keyed by bare file name.
// Creating a file constructs a child agent and drives its write pipeline
// directly, so child summaries stay current without a model round trip.
// Lookups for absent files return structured not-found results rather than
// errors, since a miss is an expected outcome.
//
// With a Root the children are disk-backed under that directory; file names
// are restricted to bare names so no child can escape it.
type DirAgent struct {
	*entity.Base

	reg     *registry.Registry
	model   model.Model
	dirName string
	root    string
	files   map[string]*FileAgent
}

// DirOptions configure a DirAgent beyond the common entity options.
type DirOptions struct {
	entity.Options

	// Root backs the directory on disk when non-empty. It is created if
	// missing, and regular files already present are adopted as children.
	Root string
}

// NewDirAgent constructs a directory agent.
func NewDirAgent(reg *registry.Registry, m model.Model, dirName string, optFns ...func(o *DirOptions)) (*DirAgent, error) {
	if dirName == "" {
		return nil, fmt.Errorf("agents: directory name is required")
	}

	opts := DirOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Name == "" {
		opts.Name = dirName
	}
	if opts.Instructions == "" {
		opts.Instructions = fmt.Sprintf(
			"You manage the directory %q. Use create_file, read_file, list_files and remove_file to work with its files.",
			dirName,
		)
	}

	a := &DirAgent{
		reg:     reg,
		model:   m,
		dirName: dirName,
		root:    opts.Root,
		files:   make(map[string]*FileAgent),
	}

	if a.root != "" {
		if err := os.MkdirAll(a.root, 0o755); err != nil {
			return nil, fmt.Errorf("agents: create root %s: %w", a.root, err)
		}
		entries, err := os.ReadDir(a.root)
		if err != nil {
			return nil, fmt.Errorf("agents: read root %s: %w", a.root, err)
		}
		for _, e := range entries {
			if !e.Type().IsRegular() {
				continue
			}
			if err := a.adoptFile(e.Name()); err != nil {
				return nil, err
			}
		}
	}

	base, err := entity.NewBase(DirKind, a, m, reg, func(o *entity.Options) { *o = opts.Options })
	if err != nil {
		return nil, err
	}
	a.Base = base

	return a, nil
}

// DirName returns the display name of the directory.
func (a *DirAgent) DirName() string { return a.dirName }

// Root returns the backing directory, empty for memory-only agents.
func (a *DirAgent) Root() string { return a.root }

// Files returns the child file names in sorted order.
func (a *DirAgent) Files() []string {
	names := make([]string, 0, len(a.files))
	for name := range a.files {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// File returns the child agent for name.
func (a *DirAgent) File(name string) (*FileAgent, bool) {
	f, ok := a.files[name]
	return f, ok
}

func (a *DirAgent) adoptFile(name string) error {
	path, err := a.childPath(name)
	if err != nil {
		return fmt.Errorf("agents: adopt %q: %w", name, err)
	}
	child, err := NewFileAgent(a.reg, a.model, name, func(o *FileOptions) { o.Path = path })
	if err != nil {
		return err
	}
	a.files[name] = child
	return nil
}

// childPath validates a child name and resolves its backing path, empty when
// the directory is memory-only.
func (a *DirAgent) childPath(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("file name must not be empty")
	}
	if name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("file name %q must be a bare name without path separators", name)
	}
	if a.root == "" {
		return "", nil
	}

	path := filepath.Join(a.root, name)
	if !hasPathPrefix(path, a.root) {
		return "", fmt.Errorf("file name %q escapes the directory root", name)
	}
	return path, nil
}

func hasPathPrefix(path, base string) bool {
	path = filepath.Clean(path)
	base = filepath.Clean(base)
	if path == base {
		return true
	}
	if !strings.HasSuffix(base, string(os.PathSeparator)) {
		base += string(os.PathSeparator)
	}
	return strings.HasPrefix(path, base)
}

type createFileArgs struct {
	Name    string `json:"name" jsonschema:"description=Bare file name without path separators"`
	Content string `json:"content,omitempty" jsonschema:"description=Optional initial content"`
}

type fileNameArgs struct {
	Name string `json:"name" jsonschema:"description=Name of the file"`
}

// RegisterDirAgent declares the directory agent's callables.
func RegisterDirAgent(reg *registry.Registry) error {
	callables := []registry.Callable{
		{
			Kind:        DirKind,
			Method:      "createFile",
			Name:        "create_file",
			Description: "Create a new file in the directory, optionally with initial content",
			Schema:      schema.MustFor(createFileArgs{}),
			Handler:     handleCreateFile,
		},
		{
			Kind:        DirKind,
			Method:      "readFile",
			Name:        "read_file",
			Description: "Read a file's content and summary; reports found=false for missing files",
			Schema:      schema.MustFor(fileNameArgs{}),
			Handler:     handleReadFile,
		},
		{
			Kind:        DirKind,
			Method:      "listFiles",
			Name:        "list_files",
			Description: "List the directory's files with their summaries",
			Handler:     handleListFiles,
		},
		{
			Kind:        DirKind,
			Method:      "removeFile",
			Name:        "remove_file",
			Description: "Remove a file from the directory; reports found=false for missing files",
			Schema:      schema.MustFor(fileNameArgs{}),
			Handler:     handleRemoveFile,
		},
	}
	for _, c := range callables {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func handleCreateFile(ctx context.Context, recv any, args map[string]any) (any, error) {
	a, ok := recv.(*DirAgent)
	if !ok {
		return nil, fmt.Errorf("create_file: unexpected receiver %T", recv)
	}

	in, err := schema.Decode[createFileArgs](args)
	if err != nil {
		return nil, err
	}

	path, err := a.childPath(in.Name)
	if err != nil {
		return nil, err
	}
	if _, exists := a.files[in.Name]; exists {
		return nil, fmt.Errorf("file %q already exists", in.Name)
	}

	child, err := NewFileAgent(a.reg, a.model, in.Name, func(o *FileOptions) { o.Path = path })
	if err != nil {
		return nil, err
	}

	// Drive the child's write pipeline so its transforms run as if the
	// model had called write_content itself.
	op, ok := child.Runtime().Operation("write_content")
	if !ok {
		return nil, fmt.Errorf("file agent lacks a write_content operation")
	}
	raw, err := json.Marshal(map[string]any{"content": in.Content})
	if err != nil {
		return nil, err
	}
	if _, err := op.Execute(ctx, raw); err != nil {
		return nil, err
	}

	a.files[in.Name] = child

	return fmt.Sprintf("created file %q (%d bytes)", in.Name, len(in.Content)), nil
}

func handleReadFile(_ context.Context, recv any, args map[string]any) (any, error) {
	a, ok := recv.(*DirAgent)
	if !ok {
		return nil, fmt.Errorf("read_file: unexpected receiver %T", recv)
	}

	in, err := schema.Decode[fileNameArgs](args)
	if err != nil {
		return nil, err
	}

	child, ok := a.files[in.Name]
	if !ok {
		return map[string]any{"found": false, "name": in.Name}, nil
	}

	return map[string]any{
		"found":   true,
		"name":    in.Name,
		"content": child.Content(),
		"summary": child.Summary(),
	}, nil
}

func handleListFiles(_ context.Context, recv any, _ map[string]any) (any, error) {
	a, ok := recv.(*DirAgent)
	if !ok {
		return nil, fmt.Errorf("list_files: unexpected receiver %T", recv)
	}

	files := make([]map[string]any, 0, len(a.files))
	for _, name := range a.Files() {
		files = append(files, map[string]any{
			"name":    name,
			"summary": a.files[name].Summary(),
		})
	}

	return map[string]any{
		"directory": a.dirName,
		"count":     len(files),
		"files":     files,
	}, nil
}

func handleRemoveFile(_ context.Context, recv any, args map[string]any) (any, error) {
	a, ok := recv.(*DirAgent)
	if !ok {
		return nil, fmt.Errorf("remove_file: unexpected receiver %T", recv)
	}

	in, err := schema.Decode[fileNameArgs](args)
	if err != nil {
		return nil, err
	}

	child, ok := a.files[in.Name]
	if !ok {
		return map[string]any{"found": false, "name": in.Name}, nil
	}

	if child.Path() != "" {
		if err := os.Remove(child.Path()); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("remove %s: %w", child.Path(), err)
		}
	}
	delete(a.files, in.Name)

	return map[string]any{"found": true, "removed": in.Name}, nil
}
