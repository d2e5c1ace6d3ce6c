package fingerprint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zen-systems/loomgate/pkg/fingerprint"
)

func TestHashMapInsertionOrderIrrelevant(t *testing.T) {
	t.Parallel()

	first := map[string]any{}
	first["title"] = "intro"
	first["sections"] = []any{"a", "b"}
	first["n"] = 3

	second := map[string]any{}
	second["n"] = 3
	second["sections"] = []any{"a", "b"}
	second["title"] = "intro"

	h1, err := fingerprint.Hash(first)
	require.NoError(t, err)
	h2, err := fingerprint.Hash(second)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
}

func TestHashDistinguishesValues(t *testing.T) {
	t.Parallel()

	h1, err := fingerprint.Hash(map[string]any{"n": 1})
	require.NoError(t, err)
	h2, err := fingerprint.Hash(map[string]any{"n": 2})
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestHashStableAcrossCalls(t *testing.T) {
	t.Parallel()

	type doc struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	}

	h1, err := fingerprint.Hash(doc{Title: "t", Body: "b"})
	require.NoError(t, err)
	h2, err := fingerprint.Hash(doc{Title: "t", Body: "b"})
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)
}

func TestHashNonSerializable(t *testing.T) {
	t.Parallel()

	_, err := fingerprint.Hash(func() {})
	require.Error(t, err)
}

func TestHashString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, fingerprint.HashBytes([]byte("payload")), fingerprint.HashString("payload"))
}
