package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"irrigation-planner/internal/pricing"
)

func TestCatalogLookup(t *testing.T) {
	catalog := pricing.NewCatalog()

	t.Run("known code", func(t *testing.T) {
		r, ok := catalog.Lookup("MH")
		require.True(t, ok)
		assert.Equal(t, "Maharashtra", r.Name)
		assert.Equal(t, 1.00, r.MaterialMultiplier)
	})

	t.Run("case insensitive with whitespace", func(t *testing.T) {
		r, ok := catalog.Lookup("  pb ")
		require.True(t, ok)
		assert.Equal(t, "PB", r.Code)
	})

	t.Run("unknown code", func(t *testing.T) {
		_, ok := catalog.Lookup("XX")
		assert.False(t, ok)
	})
}

func TestCatalogResolve(t *testing.T) {
	catalog := pricing.NewCatalog()

	assert.Equal(t, "RJ", catalog.Resolve("rj").Code)

	fallback := catalog.Resolve("nowhere")
	assert.Equal(t, pricing.DefaultRegionCode, fallback.Code)
	assert.Equal(t, 1.00, fallback.MaterialMultiplier)
	assert.Equal(t, 1.00, fallback.LaborMultiplier)
}

func TestCatalogList(t *testing.T) {
	catalog := pricing.NewCatalog()

	list := catalog.List()
	require.NotEmpty(t, list)

	codes := make(map[string]bool, len(list))
	for _, r := range list {
		assert.NotEmpty(t, r.Code)
		assert.NotEmpty(t, r.Name)
		assert.Greater(t, r.MaterialMultiplier, 0.0)
		assert.Greater(t, r.LaborMultiplier, 0.0)
		assert.False(t, codes[r.Code], "duplicate region code %s", r.Code)
		codes[r.Code] = true
	}
	assert.True(t, codes[pricing.DefaultRegionCode])

	// Mutating the returned slice must not leak into the catalog.
	list[0].Code = "MUTATED"
	_, ok := catalog.Lookup("MUTATED")
	assert.False(t, ok)
}
