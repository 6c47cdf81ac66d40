// Package agents contains the concrete entity implementations shipped with
// Agentry. The package demonstrates the registration patterns the core
// supports:
//
//  1. FileAgent: single-document state with an after-transform that keeps a
//     derived summary current on every write
//  2. DirAgent: a parent entity owning child FileAgents in a name-keyed map,
//     with structured not-found results for missing children
//  3. BashAgent: before-transforms for audit recording and policy enforcement
//     ahead of shell execution
//  4. ReadOnlyBashAgent: overrides run_command with a narrower implementation
//     while inheriting the rest of the parent's callables
//  5. ManagerAgent: agentic operations that delegate tasks to other entities
//
// Call RegisterAll (or the per-agent register functions) exactly once on a
// fresh registry at startup, then construct agents against that registry:
//
//	reg := registry.New()
//	if err := agents.RegisterAll(reg); err != nil {
//		log.Fatal(err)
//	}
//	file, err := agents.NewFileAgent(reg, m, "notes.txt")
//
// Agent state is unsynchronized; callers that invoke state-mutating
// operations concurrently on one agent must serialize externally.
package agents
