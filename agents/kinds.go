package agents

import "github.com/agentry-ai/agentry/registry"

// Kinds for the shipped agents. ReadOnlyBashKind declares BashKind as its
// parent, so resolving it walks the bash ancestry with name-based override.
var (
	FileKind         = registry.NewKind("file_agent", nil)
	DirKind          = registry.NewKind("dir_agent", nil)
	BashKind         = registry.NewKind("bash_agent", nil)
	ReadOnlyBashKind = registry.NewKind("readonly_bash_agent", BashKind)
	ManagerKind      = registry.NewKind("manager_agent", nil)
)

// RegisterAll registers every shipped agent on reg. Call once at startup;
// registering the same kind twice fails on the duplicate names.
func RegisterAll(reg *registry.Registry) error {
	for _, fn := range []func(*registry.Registry) error{
		RegisterFileAgent,
		RegisterDirAgent,
		RegisterBashAgent,
		RegisterReadOnlyBashAgent,
		RegisterManagerAgent,
	} {
		if err := fn(reg); err != nil {
			return err
		}
	}
	return nil
}
