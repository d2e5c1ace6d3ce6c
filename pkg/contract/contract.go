// Package contract defines the artifact validation boundary. Contracts are
// opaque names resolved by a Validator implementation; the pipeline only
// cares about the success flag and error strings.
package contract

import (
	"fmt"
	"sort"
)

// Result reports the outcome of validating a value against a contract.
type Result struct {
	Success bool
	Errors  []string
}

// Validator checks a value against a named contract.
type Validator interface {
	Validate(contractID string, value any) Result
}

// Rule checks one value and returns zero or more violation messages.
type Rule func(value any) []string

// Registry is a Validator backed by explicitly registered rules. It is
// constructed by whoever assembles the pipeline and passed in; there is
// no package-level instance.
type Registry struct {
	rules map[string][]Rule
}

// NewRegistry creates an empty contract registry.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[string][]Rule)}
}

// Register binds rules to a contract id, replacing any previous binding.
func (r *Registry) Register(contractID string, rules ...Rule) error {
	if contractID == "" {
		return fmt.Errorf("contract id is required")
	}
	if len(rules) == 0 {
		return fmt.Errorf("contract %s requires at least one rule", contractID)
	}
	r.rules[contractID] = rules
	return nil
}

// Contracts returns the registered contract ids in sorted order.
func (r *Registry) Contracts() []string {
	ids := make([]string, 0, len(r.rules))
	for id := range r.rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Validate runs every rule bound to the contract. An unknown contract id
// is a validation failure, not a panic: the pipeline treats it as a stage
// failure and reports it through the normal channel.
func (r *Registry) Validate(contractID string, value any) Result {
	rules, ok := r.rules[contractID]
	if !ok {
		return Result{Errors: []string{fmt.Sprintf("unknown contract %q", contractID)}}
	}

	var errs []string
	for _, rule := range rules {
		errs = append(errs, rule(value)...)
	}
	if len(errs) > 0 {
		return Result{Errors: errs}
	}
	return Result{Success: true}
}
