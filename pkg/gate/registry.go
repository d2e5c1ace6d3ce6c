package gate

import (
	"fmt"
	"sort"
)

// Registry resolves check names from pipeline manifests. It is built and
// owned by whoever assembles the pipeline; there is no package-level
// instance.
type Registry struct {
	checks map[string]Check
}

// NewRegistry creates an empty check registry.
func NewRegistry() *Registry {
	return &Registry{checks: make(map[string]Check)}
}

// Register binds a check under a name.
func (r *Registry) Register(name string, check Check) error {
	if name == "" {
		return fmt.Errorf("check name is required")
	}
	if check == nil {
		return fmt.Errorf("check %s is nil", name)
	}
	if _, ok := r.checks[name]; ok {
		return fmt.Errorf("check %s already registered", name)
	}
	r.checks[name] = check
	return nil
}

// Lookup returns the check bound under name.
func (r *Registry) Lookup(name string) (Check, bool) {
	check, ok := r.checks[name]
	return check, ok
}

// Names returns registered check names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.checks))
	for name := range r.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
