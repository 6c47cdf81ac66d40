// Package agentry provides a high-level façade over the registry, entity and
// runtime packages, enabling construction of tool-calling agents from
// declarative method registrations. Most applications interact with this
// package by:
//  1. Creating a Workspace via NewWorkspace() (configuration comes from the
//     environment unless overridden)
//  2. Handing tasks to Execute, which routes them through the manager agent
//  3. Reaching for the child agents directly when a task targets one of them
//
// The façade assembles a registry with the built-in agents registered, a
// model for the configured provider and a manager coordinating a directory
// agent ("files"), a shell agent ("shell") and a read-only shell agent
// ("inspector"). All defaults are safe for local development; production
// deployments typically pin a provider, a policy file and call limits.
//
// Lower-level composition is always available: registry.New, agents
// constructors and entity.NewBase compose without the façade.
package agentry

import (
	"context"
	"fmt"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/agentry-ai/agentry/agents"
	"github.com/agentry-ai/agentry/config"
	"github.com/agentry-ai/agentry/entity"
	"github.com/agentry-ai/agentry/logging"
	"github.com/agentry-ai/agentry/model"
	"github.com/agentry-ai/agentry/model/anthropic"
	"github.com/agentry-ai/agentry/model/gemini"
	"github.com/agentry-ai/agentry/model/openai"
	"github.com/agentry-ai/agentry/registry"
)

// Options configure a Workspace.
type Options struct {
	// Config supplies settings directly instead of loading them from the
	// environment.
	Config *config.Config

	// Model overrides the provider the configuration selects.
	Model model.Model

	// Logger overrides the configuration-derived logger.
	Logger logging.Logger

	// Root backs the workspace directory and the shells on disk. Empty
	// keeps the directory in memory and runs the shells in the process
	// working directory.
	Root string

	// Policy overrides the shell agent's command policy.
	Policy *config.Policy
}

// Workspace aggregates a registry with the built-in agents registered and a
// manager coordinating them.
type Workspace struct {
	cfg    *config.Config
	logger logging.Logger
	model  model.Model
	reg    *registry.Registry

	manager   *agents.ManagerAgent
	files     *agents.DirAgent
	shell     *agents.BashAgent
	inspector *agents.ReadOnlyBashAgent
}

// NewWorkspace assembles a ready-to-use workspace. The context is used for
// model client construction only.
func NewWorkspace(ctx context.Context, optFns ...func(o *Options)) (*Workspace, error) {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	cfg := opts.Config
	if cfg == nil {
		var err error
		if cfg, err = config.Load(); err != nil {
			return nil, err
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.New(&logging.Config{
			Level:  logging.ParseLevel(cfg.LogLevel),
			Format: cfg.LogFormat,
		})
	}

	m := opts.Model
	if m == nil {
		var err error
		if m, err = NewModel(ctx, cfg); err != nil {
			return nil, err
		}
	}

	reg := registry.New()
	if err := agents.RegisterAll(reg); err != nil {
		return nil, err
	}

	common := func(o *entity.Options) {
		o.MaxTurns = cfg.MaxTurns
		o.MaxModelCalls = cfg.MaxModelCalls
		o.CallsPerMinute = cfg.CallsPerMinute
		o.Logger = logger
	}

	files, err := agents.NewDirAgent(reg, m, "workspace", func(o *agents.DirOptions) {
		common(&o.Options)
		o.Root = opts.Root
	})
	if err != nil {
		return nil, err
	}

	shell, err := agents.NewBashAgent(reg, m, func(o *agents.BashOptions) {
		common(&o.Options)
		o.Name = "shell"
		o.Dir = opts.Root
		o.Policy = opts.Policy
	})
	if err != nil {
		return nil, err
	}

	inspector, err := agents.NewReadOnlyBashAgent(reg, m, func(o *agents.ReadOnlyBashOptions) {
		common(&o.Options)
		o.Name = "inspector"
		o.Dir = opts.Root
	})
	if err != nil {
		return nil, err
	}

	manager, err := agents.NewManagerAgent(reg, m, func(o *agents.ManagerOptions) {
		common(&o.Options)
		o.Name = "manager"
		o.Children = map[string]entity.Entity{
			"files":     files,
			"shell":     shell,
			"inspector": inspector,
		}
	})
	if err != nil {
		return nil, err
	}

	return &Workspace{
		cfg:       cfg,
		logger:    logger,
		model:     m,
		reg:       reg,
		manager:   manager,
		files:     files,
		shell:     shell,
		inspector: inspector,
	}, nil
}

// NewModel builds the model the configuration selects. Exposed for callers
// that want the provider wiring without a full workspace.
func NewModel(ctx context.Context, cfg *config.Config) (model.Model, error) {
	switch cfg.Provider {
	case config.ProviderAnthropic:
		return anthropic.NewModel(func(o *anthropic.Options) {
			o.APIKey = cfg.AnthropicAPIKey
			if cfg.Model != "" {
				o.Model = anthropicsdk.Model(cfg.Model)
			}
		}), nil
	case config.ProviderOpenAI:
		return openai.NewModel(func(o *openai.Options) {
			o.APIKey = cfg.OpenAIAPIKey
			if cfg.Model != "" {
				o.Model = cfg.Model
			}
		}), nil
	case config.ProviderGemini:
		return gemini.NewModel(ctx, func(o *gemini.Options) {
			o.APIKey = cfg.GeminiAPIKey
			if cfg.Model != "" {
				o.Model = cfg.Model
			}
		})
	case config.ProviderMock:
		return model.NewMockModel("mock"), nil
	default:
		return nil, fmt.Errorf("agentry: unknown provider %q", cfg.Provider)
	}
}

// Execute hands a task to the manager agent and returns its final answer.
func (w *Workspace) Execute(ctx context.Context, task string) (string, error) {
	return w.manager.Execute(ctx, task)
}

// Manager returns the coordinating manager agent.
func (w *Workspace) Manager() *agents.ManagerAgent { return w.manager }

// Files returns the workspace directory agent.
func (w *Workspace) Files() *agents.DirAgent { return w.files }

// Shell returns the policy-guarded shell agent.
func (w *Workspace) Shell() *agents.BashAgent { return w.shell }

// Inspector returns the read-only shell agent.
func (w *Workspace) Inspector() *agents.ReadOnlyBashAgent { return w.inspector }

// Registry returns the workspace's callable registry.
func (w *Workspace) Registry() *registry.Registry { return w.reg }

// Config returns the effective configuration.
func (w *Workspace) Config() *config.Config { return w.cfg }

// Model returns the model the workspace agents share.
func (w *Workspace) Model() model.Model { return w.model }

// Logger returns the workspace logger.
func (w *Workspace) Logger() logging.Logger { return w.logger }
