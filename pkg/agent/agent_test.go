package agent_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zen-systems/loomgate/pkg/agent"
)

func TestRegistry(t *testing.T) {
	t.Parallel()

	reg := agent.NewRegistry()
	require.NoError(t, reg.Register("noop", agent.Passthrough))
	assert.Error(t, reg.Register("noop", agent.Passthrough))
	assert.Error(t, reg.Register("", agent.Passthrough))
	assert.Error(t, reg.Register("nil", nil))

	_, ok := reg.Lookup("noop")
	assert.True(t, ok)
	_, ok = reg.Lookup("ghost")
	assert.False(t, ok)
}

func TestBuiltinNames(t *testing.T) {
	t.Parallel()

	names := agent.Builtin().Names()
	assert.Equal(t, []string{"assemble", "draft", "outline", "passthrough", "summarize"}, names)
}

func TestOutline(t *testing.T) {
	t.Parallel()

	out, err := agent.Outline(context.Background(), map[string]any{
		"topic":    "Gardening",
		"sections": []any{"Soil", "Seeds"},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"title":    "Gardening",
		"sections": []any{"Soil", "Seeds"},
	}, out)

	out, err = agent.Outline(context.Background(), map[string]any{"topic": "Gardening"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{"Background", "Details", "Conclusion"}, out.(map[string]any)["sections"])

	_, err = agent.Outline(context.Background(), map[string]any{}, nil)
	assert.Error(t, err)
	_, err = agent.Outline(context.Background(), "not a brief", nil)
	assert.Error(t, err)
}

func TestDraftDeterministic(t *testing.T) {
	t.Parallel()

	outline := map[string]any{"title": "Gardening", "sections": []any{"Soil", "Seeds"}}

	first, err := agent.Draft(context.Background(), outline, nil)
	require.NoError(t, err)
	second, err := agent.Draft(context.Background(), outline, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	doc := first.(map[string]any)
	assert.Equal(t, "Gardening", doc["title"])
	content := doc["content"].(string)
	assert.Contains(t, content, "# Gardening")
	assert.Contains(t, content, "## Soil")
	assert.Contains(t, content, "## Seeds")
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	doc := map[string]any{
		"title":   "Gardening",
		"content": "# Gardening\n\n## Soil\n\nDig it.\n\n## Seeds\n\nPlant them.\n",
	}
	out, err := agent.Summarize(context.Background(), doc, nil)
	require.NoError(t, err)

	summary := out.(map[string]any)
	assert.Equal(t, "Gardening; Soil; Seeds", summary["summary"])
	assert.Equal(t, "Gardening", summary["title"])
	assert.Equal(t, 10, summary["word_count"])

	_, err = agent.Summarize(context.Background(), map[string]any{}, nil)
	assert.Error(t, err)
}

func TestAssemble(t *testing.T) {
	t.Parallel()

	out, err := agent.Assemble(context.Background(), map[string]any{
		"plan": map[string]any{"title": "Gardening"},
		"body": map[string]any{"content": "text"},
		"note": "raw",
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"plan_title":   "Gardening",
		"body_content": "text",
		"note":         "raw",
	}, out)

	_, err = agent.Assemble(context.Background(), "scalar", nil)
	assert.Error(t, err)
}
