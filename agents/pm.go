package agents

import (
	"context"
	"fmt"
	"slices"

	"github.com/agentry-ai/agentry/entity"
	"github.com/agentry-ai/agentry/model"
	"github.com/agentry-ai/agentry/registry"
	"github.com/agentry-ai/agentry/schema"
)

// ManagerAgent coordinates a team of named child entities. Its delegate
// operation is agentic: the task is handed to the child's Execute, which
// consults the child's own model. Missing children are reported as
// structured not-found results.
type ManagerAgent struct {
	*entity.Base

	children map[string]entity.Entity
}

// ManagerOptions configure a ManagerAgent.
type ManagerOptions struct {
	entity.Options

	// Children seeds the team, keyed by the name delegate addresses.
	Children map[string]entity.Entity
}

// NewManagerAgent constructs a manager over the given children.
func NewManagerAgent(reg *registry.Registry, m model.Model, optFns ...func(o *ManagerOptions)) (*ManagerAgent, error) {
	opts := ManagerOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Instructions == "" {
		opts.Instructions = "You coordinate a team of agents. Use list_agents to see the team and delegate to hand a task to one of them."
	}

	a := &ManagerAgent{children: make(map[string]entity.Entity)}
	for name, child := range opts.Children {
		if err := a.AddChild(name, child); err != nil {
			return nil, err
		}
	}

	base, err := entity.NewBase(ManagerKind, a, m, reg, func(o *entity.Options) { *o = opts.Options })
	if err != nil {
		return nil, err
	}
	a.Base = base

	return a, nil
}

// AddChild adds a named child to the team.
func (a *ManagerAgent) AddChild(name string, child entity.Entity) error {
	if name == "" {
		return fmt.Errorf("agents: child name is required")
	}
	if child == nil {
		return fmt.Errorf("agents: child %q is nil", name)
	}
	if _, exists := a.children[name]; exists {
		return fmt.Errorf("agents: child %q already present", name)
	}
	a.children[name] = child
	return nil
}

// Children returns the team's names in sorted order.
func (a *ManagerAgent) Children() []string {
	names := make([]string, 0, len(a.children))
	for name := range a.children {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Child returns the named team member.
func (a *ManagerAgent) Child(name string) (entity.Entity, bool) {
	child, ok := a.children[name]
	return child, ok
}

type delegateArgs struct {
	Agent string `json:"agent" jsonschema:"description=Name of the team member to delegate to"`
	Task  string `json:"task" jsonschema:"description=The task handed to that agent"`
}

// RegisterManagerAgent declares the manager's callables.
func RegisterManagerAgent(reg *registry.Registry) error {
	callables := []registry.Callable{
		{
			Kind:        ManagerKind,
			Method:      "delegate",
			Name:        "delegate",
			Description: "Hand a task to a named team member and return its answer; reports found=false for unknown members",
			Schema:      schema.MustFor(delegateArgs{}),
			Mode:        registry.ModeTask,
			Handler:     handleDelegate,
		},
		{
			Kind:        ManagerKind,
			Method:      "listAgents",
			Name:        "list_agents",
			Description: "List the team members with their kinds",
			Handler:     handleListAgents,
		},
	}
	for _, c := range callables {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func handleDelegate(ctx context.Context, recv any, args map[string]any) (any, error) {
	a, ok := recv.(*ManagerAgent)
	if !ok {
		return nil, fmt.Errorf("delegate: unexpected receiver %T", recv)
	}

	in, err := schema.Decode[delegateArgs](args)
	if err != nil {
		return nil, err
	}

	child, ok := a.children[in.Agent]
	if !ok {
		return map[string]any{"found": false, "agent": in.Agent}, nil
	}

	result, err := child.Execute(ctx, in.Task)
	if err != nil {
		return nil, fmt.Errorf("delegate to %q: %w", in.Agent, err)
	}

	return map[string]any{"found": true, "agent": in.Agent, "result": result}, nil
}

func handleListAgents(_ context.Context, recv any, _ map[string]any) (any, error) {
	a, ok := recv.(*ManagerAgent)
	if !ok {
		return nil, fmt.Errorf("list_agents: unexpected receiver %T", recv)
	}

	members := make([]map[string]any, 0, len(a.children))
	for _, name := range a.Children() {
		child := a.children[name]
		members = append(members, map[string]any{
			"name": name,
			"kind": child.Kind().Name(),
		})
	}

	return map[string]any{"count": len(members), "agents": members}, nil
}
