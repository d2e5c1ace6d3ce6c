package pipeline

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/zen-systems/loomgate/pkg/gate"
)

// Manifest is the YAML form of a pipeline definition. Agent and gate
// references are names resolved against caller-supplied registries when
// the manifest is bound.
type Manifest struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description,omitempty"`
	Stages      []ManifestStage `yaml:"stages"`
}

// ManifestStage declares one stage.
type ManifestStage struct {
	ID             string            `yaml:"id"`
	Agent          string            `yaml:"agent"`
	DependsOn      []string          `yaml:"depends_on,omitempty"`
	InputKeys      map[string]string `yaml:"input_keys,omitempty"`
	InputContract  string            `yaml:"input_contract,omitempty"`
	OutputContract string            `yaml:"output_contract,omitempty"`
	Gates          []string          `yaml:"gates,omitempty"`
}

// LoadManifest reads a pipeline definition from a YAML file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read manifest")
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, errors.Wrap(err, "parse manifest")
	}
	return &manifest, nil
}

// Bind resolves every agent and gate name and returns a validated
// pipeline. An unresolvable name is a startup configuration error.
func (m *Manifest) Bind(
	logic func(name string) (StageLogic, bool),
	checks func(name string) (gate.Check, bool),
) (*Pipeline, error) {
	if logic == nil {
		return nil, errors.New("agent lookup is required")
	}

	p := &Pipeline{
		Name:        m.Name,
		Description: m.Description,
		Stages:      make([]*Stage, 0, len(m.Stages)),
	}

	for _, ms := range m.Stages {
		fn, ok := logic(ms.Agent)
		if !ok {
			return nil, errors.Errorf("stage %s references unknown agent %q", ms.ID, ms.Agent)
		}

		stage := &Stage{
			ID:             ms.ID,
			DependsOn:      ms.DependsOn,
			InputKeys:      ms.InputKeys,
			InputContract:  ms.InputContract,
			OutputContract: ms.OutputContract,
			Logic:          fn,
		}

		for _, name := range ms.Gates {
			if checks == nil {
				return nil, errors.Errorf("stage %s declares gates but no gate lookup was supplied", ms.ID)
			}
			check, ok := checks(name)
			if !ok {
				return nil, errors.Errorf("stage %s references unknown gate check %q", ms.ID, name)
			}
			stage.Checks = append(stage.Checks, gate.NamedCheck{Name: name, Check: check})
		}

		p.Stages = append(p.Stages, stage)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
