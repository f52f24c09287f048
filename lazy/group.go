package lazy

import (
	"context"
	"sync"

	"github.com/praxdb/prax"
)

// BatchFunc loads the values for a batch of keys in one round trip. The
// returned slice must align with keys: result[i] and errs[i] describe
// keys[i]. This mirrors the teacher pack's dataloader BatchFunc shape,
// reused here as the batching primitive behind relation preloading
// rather than a one-off per-caller loader.
type BatchFunc[K comparable, V any] func(ctx context.Context, keys []K) ([]V, []error)

// Group deduplicates concurrent Load calls for the same key: a Load for
// a key that already has a BatchFunc call in flight waits for that
// call's result instead of starting another. Each Load that starts a
// call passes BatchFunc that single key; concurrent Loads for distinct
// keys are not combined into one call (LoadMany resolves a list of keys
// in one call).
type Group[K comparable, V any] struct {
	batch BatchFunc[K, V]

	mu      sync.Mutex
	pending map[K]*groupCell[V]
}

type groupCell[V any] struct {
	done  chan struct{}
	value V
	err   error
}

// NewGroup creates a Group that calls batch to resolve pending keys.
func NewGroup[K comparable, V any](batch BatchFunc[K, V]) *Group[K, V] {
	return &Group[K, V]{batch: batch, pending: make(map[K]*groupCell[V])}
}

// Load resolves key, joining an in-flight batch call for the same key
// if one exists rather than starting a redundant one.
func (g *Group[K, V]) Load(ctx context.Context, key K) (V, error) {
	g.mu.Lock()
	if cell, ok := g.pending[key]; ok {
		g.mu.Unlock()
		<-cell.done
		return cell.value, cell.err
	}
	cell := &groupCell[V]{done: make(chan struct{})}
	g.pending[key] = cell
	g.mu.Unlock()

	values, errs := g.batch(ctx, []K{key})
	g.mu.Lock()
	delete(g.pending, key)
	g.mu.Unlock()

	if len(values) != 1 || len(errs) != 1 {
		err := prax.New(prax.KindInternal, "batch loader returned %d values/%d errors for 1 key", len(values), len(errs))
		cell.err = err
		close(cell.done)
		var zero V
		return zero, err
	}
	cell.value, cell.err = values[0], errs[0]
	close(cell.done)
	return cell.value, cell.err
}

// LoadMany resolves keys in a single BatchFunc call, returning results
// and per-key errors in the same order as keys.
func (g *Group[K, V]) LoadMany(ctx context.Context, keys []K) ([]V, []error) {
	if len(keys) == 0 {
		return nil, nil
	}
	return g.batch(ctx, keys)
}

// OrderByKeys reorders values to match the order of keys, using keyFn
// to extract each value's key. Keys with no matching value produce a
// zero value and a KindNotFound error at that position — the same
// reorder-and-pad contract a DataLoader batch function must honor.
func OrderByKeys[K comparable, V any](keys []K, values []V, keyFn func(V) K) ([]V, []error) {
	lookup := make(map[K]V, len(values))
	for _, v := range values {
		lookup[keyFn(v)] = v
	}
	result := make([]V, len(keys))
	errs := make([]error, len(keys))
	for i, k := range keys {
		if v, ok := lookup[k]; ok {
			result[i] = v
		} else {
			errs[i] = prax.ErrNotFound
		}
	}
	return result, errs
}
