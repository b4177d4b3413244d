package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-analyzer/src/analysis/core"
	"stock-analyzer/src/helpers"
	"stock-analyzer/src/logger"
)

// -----------------------------------------------------------------------------

func testRegistry(budgetMB int) *HandleRegistry {
	return NewHandleRegistry(budgetMB, logger.NewLogger("ERROR", "RegistryTest"))
}

func buildTestTree(t *testing.T, n int) *core.RangeTree {
	t.Helper()

	prices := make([]float64, n)
	for i := range prices {
		prices[i] = float64(i%17) + 1
	}

	tree, err := core.BuildRangeTree(prices, 0)
	require.NoError(t, err)
	return tree
}

// -----------------------------------------------------------------------------

func TestRegistryTreeLifecycle(t *testing.T) {
	registry := testRegistry(0)
	tree := buildTestTree(t, 16)

	handle, err := registry.PutTree(tree)
	require.NoError(t, err)
	assert.NotZero(t, handle)
	assert.Equal(t, 1, registry.LiveHandles())

	length, err := registry.TreeLength(handle)
	require.NoError(t, err)
	assert.Equal(t, 16, length)

	stats, err := registry.QueryTree(handle, 0, 15)
	require.NoError(t, err)
	assert.Equal(t, 1.0, stats.Min)

	registry.ReleaseTree(handle)
	assert.Equal(t, 0, registry.LiveHandles())
	assert.Equal(t, 0, registry.RetainedBytes())

	_, err = registry.QueryTree(handle, 0, 15)
	assert.Equal(t, helpers.StatusMissingArgument, helpers.StatusOf(err))
}

// -----------------------------------------------------------------------------

func TestRegistryReleaseIsIdempotent(t *testing.T) {
	registry := testRegistry(0)

	handle, err := registry.PutTree(buildTestTree(t, 8))
	require.NoError(t, err)

	registry.ReleaseTree(handle)
	// Second release of the same handle is a tracked no-op, never a fault
	registry.ReleaseTree(handle)
	registry.ReleaseTree(999)

	assert.Equal(t, 0, registry.LiveHandles())
	assert.Equal(t, 0, registry.RetainedBytes())

	result, err := core.AnalyzeWindows([]float64{1, 2, 3, 4}, 2, 0)
	require.NoError(t, err)

	wHandle, err := registry.PutWindows(result)
	require.NoError(t, err)

	registry.ReleaseWindows(wHandle)
	registry.ReleaseWindows(wHandle)
	assert.Equal(t, 0, registry.RetainedBytes())
}

// -----------------------------------------------------------------------------

func TestRegistryUnknownHandles(t *testing.T) {
	registry := testRegistry(0)

	_, err := registry.QueryTree(42, 0, 0)
	assert.Equal(t, helpers.StatusMissingArgument, helpers.StatusOf(err))

	_, err = registry.TreeLength(42)
	assert.Error(t, err)

	_, err = registry.GetWindow(42, 0)
	assert.Equal(t, helpers.StatusMissingArgument, helpers.StatusOf(err))

	_, err = registry.WindowCount(42)
	assert.Error(t, err)
}

// -----------------------------------------------------------------------------

func TestRegistryHandlesAreNotReused(t *testing.T) {
	registry := testRegistry(0)

	first, err := registry.PutTree(buildTestTree(t, 4))
	require.NoError(t, err)
	registry.ReleaseTree(first)

	second, err := registry.PutTree(buildTestTree(t, 4))
	require.NoError(t, err)

	// A released handle must never come back to life
	assert.NotEqual(t, first, second)
	_, err = registry.QueryTree(first, 0, 3)
	assert.Error(t, err)
}

// -----------------------------------------------------------------------------

func TestRegistryMemoryBudget(t *testing.T) {
	registry := testRegistry(1) // 1 MB

	// 40 bytes per node, 2n nodes: 20000 leaves exceed 1 MB
	_, err := registry.PutTree(buildTestTree(t, 20000))
	require.Error(t, err)
	assert.Equal(t, helpers.StatusAllocationError, helpers.StatusOf(err))

	// A rejected registration allocates no handle and retains no bytes
	assert.Equal(t, 0, registry.LiveHandles())
	assert.Equal(t, 0, registry.RetainedBytes())

	// A small result still fits
	handle, err := registry.PutTree(buildTestTree(t, 64))
	require.NoError(t, err)
	assert.NotZero(t, handle)
	assert.Greater(t, registry.RetainedBytes(), 0)
}

// -----------------------------------------------------------------------------

func TestRegistryWindowAccess(t *testing.T) {
	registry := testRegistry(0)

	result, err := core.AnalyzeWindows([]float64{100, 80, 60, 70, 60, 75, 85}, 3, 0)
	require.NoError(t, err)

	handle, err := registry.PutWindows(result)
	require.NoError(t, err)

	count, err := registry.WindowCount(handle)
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	stats, err := registry.GetWindow(handle, 0)
	require.NoError(t, err)
	assert.Equal(t, 100.0, stats.Max)
	assert.Equal(t, 60.0, stats.Min)

	_, err = registry.GetWindow(handle, 5)
	assert.Equal(t, helpers.StatusInvalidBounds, helpers.StatusOf(err))
}
