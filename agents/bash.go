package agents

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/agentry-ai/agentry/config"
	"github.com/agentry-ai/agentry/entity"
	"github.com/agentry-ai/agentry/model"
	"github.com/agentry-ai/agentry/registry"
	"github.com/agentry-ai/agentry/schema"
)

const defaultCommandTimeout = 30 * time.Second

// BashAgent executes shell commands in a fixed working directory. Every
// run_command invocation passes two before-transforms: the first records the
// command in the audit log, the second checks it against the agent's policy.
// The audit entry is written even when the policy rejects the command.
type BashAgent struct {
	*entity.Base

	dir     string
	policy  *config.Policy
	timeout time.Duration
	audit   []string
}

// BashOptions configure a BashAgent beyond the common entity options.
type BashOptions struct {
	entity.Options

	// Dir is the working directory for commands. Defaults to the process
	// working directory.
	Dir string

	// Policy guards commands before execution. Defaults to
	// config.DefaultPolicy.
	Policy *config.Policy

	// CommandTimeout bounds a single command. Defaults to 30s.
	CommandTimeout time.Duration
}

// NewBashAgent constructs a shell agent.
func NewBashAgent(reg *registry.Registry, m model.Model, optFns ...func(o *BashOptions)) (*BashAgent, error) {
	opts := BashOptions{
		Policy:         config.DefaultPolicy(),
		CommandTimeout: defaultCommandTimeout,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Policy == nil {
		opts.Policy = config.DefaultPolicy()
	}
	if opts.CommandTimeout <= 0 {
		opts.CommandTimeout = defaultCommandTimeout
	}
	if opts.Dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("agents: resolve working directory: %w", err)
		}
		opts.Dir = wd
	}
	if opts.Instructions == "" {
		opts.Instructions = "You execute shell commands with run_command. Commands run under a policy; denied commands fail before execution."
	}

	a := &BashAgent{dir: opts.Dir, policy: opts.Policy, timeout: opts.CommandTimeout}
	base, err := entity.NewBase(BashKind, a, m, reg, func(o *entity.Options) { *o = opts.Options })
	if err != nil {
		return nil, err
	}
	a.Base = base

	return a, nil
}

// AuditLog returns a copy of the recorded command audit entries.
func (a *BashAgent) AuditLog() []string {
	return append([]string(nil), a.audit...)
}

// Dir returns the working directory commands execute in.
func (a *BashAgent) Dir() string { return a.dir }

// bashHost is the surface the bash handlers and transforms need from their
// receiver. BashAgent implements it; embedding types satisfy it through
// method promotion, which keeps inherited callables working on subtypes.
type bashHost interface {
	execCommand(ctx context.Context, command string, timeout time.Duration) (string, int, error)
	commandPolicy() *config.Policy
	workingDir() string
	appendAudit(command string)
	auditEntries() []string
}

func (a *BashAgent) commandPolicy() *config.Policy { return a.policy }

func (a *BashAgent) workingDir() string { return a.dir }

func (a *BashAgent) appendAudit(command string) {
	a.audit = append(a.audit, fmt.Sprintf("%s %s", time.Now().UTC().Format(time.RFC3339), command))
}

func (a *BashAgent) auditEntries() []string { return a.audit }

// execCommand runs command through sh -c in the agent's working directory.
// A non-zero exit is a result, not an error, so the model can react to it;
// start failures and timeouts are errors.
func (a *BashAgent) execCommand(ctx context.Context, command string, timeout time.Duration) (string, int, error) {
	if timeout <= 0 {
		timeout = a.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = a.dir

	out, err := cmd.CombinedOutput()
	if err != nil {
		// A killed process also surfaces as *exec.ExitError, so the
		// deadline has to be checked first.
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", 0, fmt.Errorf("command timed out after %s", timeout)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return string(out), exitErr.ExitCode(), nil
		}
		return "", 0, fmt.Errorf("run command: %w", err)
	}

	return string(out), 0, nil
}

type runCommandArgs struct {
	Command        string `json:"command" jsonschema:"description=Shell command to execute"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty" jsonschema:"description=Optional timeout in seconds"`
}

// RegisterBashAgent declares the bash agent's callables and attaches the
// audit and policy transforms to run_command, in that order.
func RegisterBashAgent(reg *registry.Registry) error {
	callables := []registry.Callable{
		{
			Kind:        BashKind,
			Method:      "runCommand",
			Name:        "run_command",
			Description: "Execute a shell command and return its combined output and exit code",
			Schema:      schema.MustFor(runCommandArgs{}),
			Handler:     handleRunCommand,
		},
		{
			Kind:        BashKind,
			Method:      "workingDir",
			Name:        "working_dir",
			Description: "Return the directory commands execute in",
			Handler:     handleWorkingDir,
		},
		{
			Kind:        BashKind,
			Method:      "auditLog",
			Name:        "audit_log",
			Description: "Return the audit log of attempted commands",
			Handler:     handleAuditLog,
		},
	}
	for _, c := range callables {
		if err := reg.Register(c); err != nil {
			return err
		}
	}

	ref := registry.MethodRef{Kind: BashKind, Method: "runCommand"}
	chains := reg.Chains()
	chains.AddBefore(ref, recordAudit)
	chains.AddBefore(ref, checkCommandPolicy)

	return nil
}

func handleRunCommand(ctx context.Context, recv any, args map[string]any) (any, error) {
	h, ok := recv.(bashHost)
	if !ok {
		return nil, fmt.Errorf("run_command: unexpected receiver %T", recv)
	}

	in, err := schema.Decode[runCommandArgs](args)
	if err != nil {
		return nil, err
	}

	output, code, err := h.execCommand(ctx, in.Command, time.Duration(in.TimeoutSeconds)*time.Second)
	if err != nil {
		return nil, err
	}

	return map[string]any{"output": output, "exit_code": code}, nil
}

func handleWorkingDir(_ context.Context, recv any, _ map[string]any) (any, error) {
	h, ok := recv.(bashHost)
	if !ok {
		return nil, fmt.Errorf("working_dir: unexpected receiver %T", recv)
	}
	return h.workingDir(), nil
}

func handleAuditLog(_ context.Context, recv any, _ map[string]any) (any, error) {
	h, ok := recv.(bashHost)
	if !ok {
		return nil, fmt.Errorf("audit_log: unexpected receiver %T", recv)
	}
	entries := h.auditEntries()
	return map[string]any{"count": len(entries), "commands": entries}, nil
}

// recordAudit notes the attempted command before any policy decision.
func recordAudit(_ context.Context, recv any, args map[string]any) (map[string]any, error) {
	h, ok := recv.(bashHost)
	if !ok {
		return nil, fmt.Errorf("audit: unexpected receiver %T", recv)
	}
	command, _ := args["command"].(string)
	h.appendAudit(command)
	return args, nil
}

// checkCommandPolicy rejects commands the receiver's policy denies.
func checkCommandPolicy(_ context.Context, recv any, args map[string]any) (map[string]any, error) {
	h, ok := recv.(bashHost)
	if !ok {
		return nil, fmt.Errorf("policy: unexpected receiver %T", recv)
	}
	command, _ := args["command"].(string)
	if err := h.commandPolicy().Check(command); err != nil {
		return nil, err
	}
	return args, nil
}

// ReadOnlyBashAgent narrows BashAgent to inspection commands. It overrides
// run_command with its own implementation and schema while inheriting
// working_dir and audit_log unchanged from the bash ancestry.
type ReadOnlyBashAgent struct {
	*BashAgent
}

// ReadOnlyBashOptions configure a ReadOnlyBashAgent.
type ReadOnlyBashOptions struct {
	entity.Options

	// Dir is the working directory for commands. Defaults to the process
	// working directory.
	Dir string

	// CommandTimeout bounds a single command. Defaults to 30s.
	CommandTimeout time.Duration
}

// readOnlyPrograms are the only programs the read-only policy admits.
var readOnlyPrograms = []string{
	"ls", "cat", "head", "tail", "grep", "find", "wc",
	"stat", "file", "pwd", "echo", "du", "df", "date",
}

func readOnlyPolicy() *config.Policy {
	return &config.Policy{
		Allow: append([]string(nil), readOnlyPrograms...),
		Deny:  config.DefaultPolicy().Deny,
	}
}

// NewReadOnlyBashAgent constructs a shell agent restricted to read-only
// commands.
func NewReadOnlyBashAgent(reg *registry.Registry, m model.Model, optFns ...func(o *ReadOnlyBashOptions)) (*ReadOnlyBashAgent, error) {
	opts := ReadOnlyBashOptions{CommandTimeout: defaultCommandTimeout}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.CommandTimeout <= 0 {
		opts.CommandTimeout = defaultCommandTimeout
	}
	if opts.Dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("agents: resolve working directory: %w", err)
		}
		opts.Dir = wd
	}
	if opts.Instructions == "" {
		opts.Instructions = "You inspect the system with read-only shell commands via run_command. Mutating commands are denied."
	}

	a := &ReadOnlyBashAgent{
		BashAgent: &BashAgent{
			dir:     opts.Dir,
			policy:  readOnlyPolicy(),
			timeout: opts.CommandTimeout,
		},
	}
	base, err := entity.NewBase(ReadOnlyBashKind, a, m, reg, func(o *entity.Options) { *o = opts.Options })
	if err != nil {
		return nil, err
	}
	a.BashAgent.Base = base

	return a, nil
}

type readOnlyCommandArgs struct {
	Command string `json:"command" jsonschema:"description=Read-only shell command to execute"`
}

// RegisterReadOnlyBashAgent declares the read-only override of run_command.
// The override's method gets fresh chains, so the audit and policy
// transforms are re-declared on it explicitly.
func RegisterReadOnlyBashAgent(reg *registry.Registry) error {
	if err := reg.Register(registry.Callable{
		Kind:        ReadOnlyBashKind,
		Method:      "runReadOnlyCommand",
		Name:        "run_command",
		Description: "Execute a read-only shell command and return its output",
		Schema:      schema.MustFor(readOnlyCommandArgs{}),
		Handler:     handleRunReadOnlyCommand,
	}); err != nil {
		return err
	}

	ref := registry.MethodRef{Kind: ReadOnlyBashKind, Method: "runReadOnlyCommand"}
	chains := reg.Chains()
	chains.AddBefore(ref, recordAudit)
	chains.AddBefore(ref, checkCommandPolicy)

	return nil
}

func handleRunReadOnlyCommand(ctx context.Context, recv any, args map[string]any) (any, error) {
	h, ok := recv.(bashHost)
	if !ok {
		return nil, fmt.Errorf("run_command: unexpected receiver %T", recv)
	}

	in, err := schema.Decode[readOnlyCommandArgs](args)
	if err != nil {
		return nil, err
	}

	output, code, err := h.execCommand(ctx, in.Command, 0)
	if err != nil {
		return nil, err
	}

	return map[string]any{"output": output, "exit_code": code, "read_only": true}, nil
}
