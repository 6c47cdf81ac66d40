package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Policy is a static allow/deny pattern list for shell commands. Deny
// patterns are matched as substrings of the whole command and take
// precedence. When Allow is non-empty, the command's program (its first
// field) must appear in it; an empty Allow list permits any program.
//
// Example policy file:
//
//	allow:
//	  - ls
//	  - cat
//	  - grep
//	deny:
//	  - "rm -rf"
//	  - "sudo"
type Policy struct {
	Allow []string `yaml:"allow"`
	Deny  []string `yaml:"deny"`
}

// LoadPolicy reads a Policy from a YAML file.
func LoadPolicy(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read policy %s: %w", path, err)
	}

	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("config: parse policy %s: %w", path, err)
	}

	return &p, nil
}

// DefaultPolicy blocks a small set of destructive command patterns and
// allows everything else.
func DefaultPolicy() *Policy {
	return &Policy{
		Deny: []string{
			"rm -rf /",
			"mkfs",
			"shutdown",
			"reboot",
			":(){",
		},
	}
}

// Check reports whether the command passes the policy. The zero policy
// permits everything.
func (p *Policy) Check(command string) error {
	trimmed := strings.TrimSpace(command)
	if trimmed == "" {
		return fmt.Errorf("command must not be empty")
	}

	for _, pattern := range p.Deny {
		if pattern != "" && strings.Contains(trimmed, pattern) {
			return fmt.Errorf("command denied by policy: matches %q", pattern)
		}
	}

	if len(p.Allow) > 0 {
		program := strings.Fields(trimmed)[0]
		for _, allowed := range p.Allow {
			if program == allowed {
				return nil
			}
		}
		return fmt.Errorf("program %q not in allow list", program)
	}

	return nil
}
