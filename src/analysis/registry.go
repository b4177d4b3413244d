package analysis

import (
	"sync"

	"stock-analyzer/src/analysis/core"
	"stock-analyzer/src/helpers"
	"stock-analyzer/src/logger"
	"stock-analyzer/src/models"
)

// -----------------------------------------------------------------------------
// HandleRegistry owns built analysis results on behalf of boundary callers.
//
// Results are exposed as opaque uint64 handles: callers never inspect a
// tree or window array, only pass the handle back. The registry's RWMutex
// provides the external coordination the structures themselves omit -
// unlimited concurrent readers, exclusive registration and release. Release
// is idempotent: releasing an absent handle is a no-op.
// -----------------------------------------------------------------------------

type HandleRegistry struct {
	trees       map[uint64]*core.RangeTree
	windows     map[uint64]*core.WindowResult
	nextHandle  uint64
	budgetBytes int // 0 disables the budget
	retained    int
	Logger      *logger.Logger
	mu          sync.RWMutex
}

// -----------------------------------------------------------------------------

// NewHandleRegistry creates a registry with a retained-result budget of
// budgetMB megabytes (0 = unlimited).
func NewHandleRegistry(budgetMB int, log *logger.Logger) *HandleRegistry {
	return &HandleRegistry{
		trees:       make(map[uint64]*core.RangeTree),
		windows:     make(map[uint64]*core.WindowResult),
		budgetBytes: budgetMB * 1024 * 1024,
		Logger:      log,
	}
}

// -----------------------------------------------------------------------------

// reserve accounts for the bytes of a result about to be registered.
// Rejection happens before the handle exists, so a refused registration
// never leaks.
func (r *HandleRegistry) reserve(bytes int) error {
	if r.budgetBytes > 0 && r.retained+bytes > r.budgetBytes {
		return helpers.NewAllocationError("result of %d bytes exceeds memory budget (%d of %d bytes retained)",
			bytes, r.retained, r.budgetBytes)
	}
	r.retained += bytes
	return nil
}

// -----------------------------------------------------------------------------

// PutTree registers a built tree and returns its handle.
func (r *HandleRegistry) PutTree(tree *core.RangeTree) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.reserve(tree.NodeBytes()); err != nil {
		return 0, err
	}

	r.nextHandle++
	r.trees[r.nextHandle] = tree
	return r.nextHandle, nil
}

// -----------------------------------------------------------------------------

// QueryTree answers a range query against the tree behind handle h.
func (r *HandleRegistry) QueryTree(h uint64, ql, qr int) (models.MRangeStats, error) {
	r.mu.RLock()
	tree, ok := r.trees[h]
	r.mu.RUnlock()

	if !ok {
		return models.MRangeStats{}, helpers.NewHandleError("unknown tree handle %d", h)
	}
	return tree.Query(ql, qr)
}

// -----------------------------------------------------------------------------

// TreeLength returns the series length behind a tree handle.
func (r *HandleRegistry) TreeLength(h uint64) (int, error) {
	r.mu.RLock()
	tree, ok := r.trees[h]
	r.mu.RUnlock()

	if !ok {
		return 0, helpers.NewHandleError("unknown tree handle %d", h)
	}
	return tree.Length(), nil
}

// -----------------------------------------------------------------------------

// ReleaseTree frees the tree behind h. No-op for absent handles.
func (r *HandleRegistry) ReleaseTree(h uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tree, ok := r.trees[h]; ok {
		r.retained -= tree.NodeBytes()
		delete(r.trees, h)
	}
}

// -----------------------------------------------------------------------------

// PutWindows registers a window analysis result and returns its handle.
func (r *HandleRegistry) PutWindows(result *core.WindowResult) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.reserve(result.ResultBytes()); err != nil {
		return 0, err
	}

	r.nextHandle++
	r.windows[r.nextHandle] = result
	return r.nextHandle, nil
}

// -----------------------------------------------------------------------------

// GetWindow returns the statistics of window idx behind handle h.
func (r *HandleRegistry) GetWindow(h uint64, idx int) (models.MWindowStats, error) {
	r.mu.RLock()
	result, ok := r.windows[h]
	r.mu.RUnlock()

	if !ok {
		return models.MWindowStats{}, helpers.NewHandleError("unknown window handle %d", h)
	}
	return result.Get(idx)
}

// -----------------------------------------------------------------------------

// WindowCount returns the number of windows behind handle h.
func (r *HandleRegistry) WindowCount(h uint64) (int, error) {
	r.mu.RLock()
	result, ok := r.windows[h]
	r.mu.RUnlock()

	if !ok {
		return 0, helpers.NewHandleError("unknown window handle %d", h)
	}
	return result.NumWindows(), nil
}

// -----------------------------------------------------------------------------

// ReleaseWindows frees the window result behind h. No-op for absent handles.
func (r *HandleRegistry) ReleaseWindows(h uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if result, ok := r.windows[h]; ok {
		r.retained -= result.ResultBytes()
		delete(r.windows, h)
	}
}

// -----------------------------------------------------------------------------

// LiveHandles returns the number of currently registered results.
func (r *HandleRegistry) LiveHandles() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.trees) + len(r.windows)
}

// -----------------------------------------------------------------------------

// RetainedBytes returns the estimated bytes held by registered results.
func (r *HandleRegistry) RetainedBytes() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.retained
}
