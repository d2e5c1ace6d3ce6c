package pipeline_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zen-systems/loomgate/pkg/gate"
	"github.com/zen-systems/loomgate/pkg/pipeline"
)

func passthrough(_ context.Context, input any, _ *pipeline.RunContext) (any, error) {
	return input, nil
}

func linearPipeline(ids ...string) *pipeline.Pipeline {
	p := &pipeline.Pipeline{Name: "linear"}
	prev := ""
	for _, id := range ids {
		stage := &pipeline.Stage{ID: id, Logic: passthrough}
		if prev != "" {
			stage.DependsOn = []string{prev}
		}
		p.Stages = append(p.Stages, stage)
		prev = id
	}
	return p
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		p       *pipeline.Pipeline
		wantErr string
	}{
		{
			"valid linear",
			linearPipeline("A", "B", "C"),
			"",
		},
		{
			"missing name",
			&pipeline.Pipeline{Stages: []*pipeline.Stage{{ID: "A", Logic: passthrough}}},
			"name is required",
		},
		{
			"no stages",
			&pipeline.Pipeline{Name: "p"},
			"at least one stage",
		},
		{
			"duplicate id",
			&pipeline.Pipeline{Name: "p", Stages: []*pipeline.Stage{
				{ID: "A", Logic: passthrough},
				{ID: "A", Logic: passthrough},
			}},
			"duplicate stage id",
		},
		{
			"reserved id",
			&pipeline.Pipeline{Name: "p", Stages: []*pipeline.Stage{
				{ID: "input", Logic: passthrough},
			}},
			"reserved",
		},
		{
			"self dependency",
			&pipeline.Pipeline{Name: "p", Stages: []*pipeline.Stage{
				{ID: "A", DependsOn: []string{"A"}, Logic: passthrough},
			}},
			"depends on itself",
		},
		{
			"forward dependency",
			&pipeline.Pipeline{Name: "p", Stages: []*pipeline.Stage{
				{ID: "A", DependsOn: []string{"B"}, Logic: passthrough},
				{ID: "B", Logic: passthrough},
			}},
			"not declared before it",
		},
		{
			"missing logic",
			&pipeline.Pipeline{Name: "p", Stages: []*pipeline.Stage{{ID: "A"}}},
			"has no logic",
		},
		{
			"input key without dependency",
			&pipeline.Pipeline{Name: "p", Stages: []*pipeline.Stage{
				{ID: "A", Logic: passthrough},
				{ID: "B", DependsOn: []string{"A"}, InputKeys: map[string]string{"X": "x"}, Logic: passthrough},
			}},
			"not a dependency",
		},
		{
			"nil gate check",
			&pipeline.Pipeline{Name: "p", Stages: []*pipeline.Stage{
				{ID: "A", Logic: passthrough, Checks: []gate.NamedCheck{{Name: "broken"}}},
			}},
			"nil gate check",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.p.Validate()
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestArtifactSetOrder(t *testing.T) {
	t.Parallel()

	set := pipeline.NewArtifactSet()
	set.Put("input", 1)
	set.Put("A", 2)
	set.Put("B", 3)
	set.Put("A", 4)

	assert.Equal(t, []string{"input", "A", "B"}, set.Keys())
	assert.Equal(t, 3, set.Len())

	v, ok := set.Get("A")
	require.True(t, ok)
	assert.Equal(t, 4, v)
	assert.False(t, set.Has("C"))

	snapshot := set.Snapshot()
	snapshot["C"] = 5
	assert.False(t, set.Has("C"))
}
