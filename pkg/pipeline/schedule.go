package pipeline

import (
	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
)

// Schedule computes a linear execution order in which every stage appears
// after all of its dependencies. Stages whose dependencies are satisfied
// at the same point keep their declaration order, so the schedule is
// deterministic across runs. A cycle or a dependency on an undeclared
// stage is a configuration defect and is surfaced, never truncated.
func (p *Pipeline) Schedule() ([]*Stage, error) {
	g := graph.New(graph.StringHash, graph.Directed(), graph.PreventCycles())

	index := make(map[string]int, len(p.Stages))
	byID := make(map[string]*Stage, len(p.Stages))
	for i, stage := range p.Stages {
		if err := g.AddVertex(stage.ID); err != nil {
			return nil, errors.Wrapf(err, "add stage %s", stage.ID)
		}
		index[stage.ID] = i
		byID[stage.ID] = stage
	}

	for _, stage := range p.Stages {
		for _, dep := range stage.DependsOn {
			if err := g.AddEdge(dep, stage.ID); err != nil {
				return nil, errors.Wrapf(err, "dependency %s -> %s", dep, stage.ID)
			}
		}
	}

	ids, err := graph.StableTopologicalSort(g, func(a, b string) bool {
		return index[a] < index[b]
	})
	if err != nil {
		return nil, errors.Wrap(err, "order stages")
	}
	if len(ids) != len(p.Stages) {
		return nil, errors.Errorf("schedule covers %d of %d stages", len(ids), len(p.Stages))
	}

	order := make([]*Stage, len(ids))
	for i, id := range ids {
		order[i] = byID[id]
	}
	return order, nil
}
