// Package agent supplies stage logic to the pipeline. Agents are the
// external collaborators of the core: each is an opaque transform bound to
// a stage by name. The built-in agents are deterministic text transforms,
// so a pipeline built from them reproduces identical artifact hashes on
// every run.
package agent

import (
	"fmt"
	"sort"

	"github.com/zen-systems/loomgate/pkg/pipeline"
)

// Registry maps agent names to stage logic. It is built by whoever
// assembles the pipeline; there is no package-level instance.
type Registry struct {
	agents map[string]pipeline.StageLogic
}

// NewRegistry creates an empty agent registry.
func NewRegistry() *Registry {
	return &Registry{agents: make(map[string]pipeline.StageLogic)}
}

// Register binds stage logic under a name.
func (r *Registry) Register(name string, logic pipeline.StageLogic) error {
	if name == "" {
		return fmt.Errorf("agent name is required")
	}
	if logic == nil {
		return fmt.Errorf("agent %s is nil", name)
	}
	if _, ok := r.agents[name]; ok {
		return fmt.Errorf("agent %s already registered", name)
	}
	r.agents[name] = logic
	return nil
}

// Lookup returns the logic bound under name.
func (r *Registry) Lookup(name string) (pipeline.StageLogic, bool) {
	logic, ok := r.agents[name]
	return logic, ok
}

// Names returns registered agent names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.agents))
	for name := range r.agents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Builtin returns a registry preloaded with the built-in content agents.
func Builtin() *Registry {
	r := NewRegistry()
	r.agents["passthrough"] = Passthrough
	r.agents["outline"] = Outline
	r.agents["draft"] = Draft
	r.agents["summarize"] = Summarize
	r.agents["assemble"] = Assemble
	return r
}
