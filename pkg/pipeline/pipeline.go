// Package pipeline implements the staged content-generation core: a static
// stage graph, a deterministic scheduler, a uniform stage executor, and the
// orchestrator that drives one run end to end.
package pipeline

import (
	"context"
	"fmt"

	"github.com/zen-systems/loomgate/pkg/gate"
)

// InputKey is the reserved artifact key holding the initial artifact. No
// stage may use it as its id.
const InputKey = "input"

// StageLogic transforms a resolved input into this stage's artifact. Logic
// is supplied by the caller; the executor shields the run loop from any
// fault it raises.
type StageLogic func(ctx context.Context, input any, runCtx *RunContext) (any, error)

// Stage is one named unit of work in the pipeline. Stages are declared
// once, before the run, and never mutated.
type Stage struct {
	ID        string
	DependsOn []string

	// InputKeys maps a dependency id to the key its output is stored
	// under when this stage takes a composite input. A dependency without
	// an entry keeps its own id as key.
	InputKeys map[string]string

	// InputContract and OutputContract name validation contracts. Empty
	// means validation is skipped for that side.
	InputContract  string
	OutputContract string

	// Checks run immediately after the stage succeeds, against all
	// artifacts produced so far.
	Checks []gate.NamedCheck

	Logic StageLogic
}

// Pipeline is an immutable ordered set of stages.
type Pipeline struct {
	Name        string
	Description string
	Stages      []*Stage
}

// Validate checks the pipeline definition for configuration defects. A
// dependency may only reference a previously declared stage, which makes
// the graph acyclic by construction.
func (p *Pipeline) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("pipeline name is required")
	}
	if len(p.Stages) == 0 {
		return fmt.Errorf("pipeline must define at least one stage")
	}

	declared := make(map[string]struct{}, len(p.Stages))
	for _, stage := range p.Stages {
		if stage.ID == "" {
			return fmt.Errorf("stage id is required")
		}
		if stage.ID == InputKey {
			return fmt.Errorf("stage id %q is reserved", InputKey)
		}
		if _, ok := declared[stage.ID]; ok {
			return fmt.Errorf("duplicate stage id: %s", stage.ID)
		}
		if stage.Logic == nil {
			return fmt.Errorf("stage %s has no logic", stage.ID)
		}

		seen := make(map[string]struct{}, len(stage.DependsOn))
		for _, dep := range stage.DependsOn {
			if dep == stage.ID {
				return fmt.Errorf("stage %s depends on itself", stage.ID)
			}
			if _, ok := declared[dep]; !ok {
				return fmt.Errorf("stage %s depends on %s, which is not declared before it", stage.ID, dep)
			}
			if _, ok := seen[dep]; ok {
				return fmt.Errorf("stage %s declares dependency %s twice", stage.ID, dep)
			}
			seen[dep] = struct{}{}
		}
		for dep := range stage.InputKeys {
			if _, ok := seen[dep]; !ok {
				return fmt.Errorf("stage %s maps input key for %s, which is not a dependency", stage.ID, dep)
			}
		}
		for _, check := range stage.Checks {
			if check.Check == nil {
				return fmt.Errorf("stage %s has a nil gate check %q", stage.ID, check.Name)
			}
		}

		declared[stage.ID] = struct{}{}
	}

	return nil
}
