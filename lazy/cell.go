// Package lazy implements single-flight lazy relation loading: a Cell
// starts Unloaded, transitions to Loading on the first access (any
// concurrent accessors that lose the CAS race wait on the same load
// instead of duplicating work), then settles into Loaded or Failed. A
// Failed cell may be retried; a Loaded one is cached for its lifetime.
package lazy

import (
	"context"
	"sync"
	"sync/atomic"
)

type state int32

const (
	stateUnloaded state = iota
	stateLoading
	stateLoaded
	stateFailed
)

// Loader produces the value a Cell wraps.
type Loader[T any] func(ctx context.Context) (T, error)

// Cell is a single-flight lazy-loaded value. The zero Cell is usable
// once given a Loader via NewCell.
type Cell[T any] struct {
	state state32
	load  Loader[T]

	mu    sync.Mutex
	ready chan struct{} // closed when the in-flight load completes
	value T
	err   error
}

// state32 wraps atomic.Int32 so Cell's zero value still compiles
// without requiring callers to call a constructor for the atomic field
// itself; NewCell is still the supported entry point.
type state32 struct{ v atomic.Int32 }

func (s *state32) load() state      { return state(s.v.Load()) }
func (s *state32) store(v state)    { s.v.Store(int32(v)) }
func (s *state32) cas(old, new state) bool {
	return s.v.CompareAndSwap(int32(old), int32(new))
}

// NewCell creates a Cell that calls loader on first Get.
func NewCell[T any](loader Loader[T]) *Cell[T] {
	return &Cell[T]{load: loader}
}

// Get returns the cell's value, loading it on first call. Concurrent
// callers during the first load block on the same in-flight call
// rather than each invoking Loader. A Failed cell retries the loader on
// its next Get.
func (c *Cell[T]) Get(ctx context.Context) (T, error) {
	for {
		switch c.state.load() {
		case stateLoaded:
			c.mu.Lock()
			v, err := c.value, c.err
			c.mu.Unlock()
			return v, err
		case stateFailed, stateUnloaded:
			if c.state.cas(c.state.load(), stateLoading) {
				return c.doLoad(ctx)
			}
			// Lost the CAS race; another goroutine is now loading
			// (or already finished) — loop and observe the new state.
		case stateLoading:
			c.waitForLoad()
		}
	}
}

func (c *Cell[T]) doLoad(ctx context.Context) (T, error) {
	c.mu.Lock()
	c.ready = make(chan struct{})
	c.mu.Unlock()

	v, err := c.load(ctx)

	c.mu.Lock()
	c.value, c.err = v, err
	ready := c.ready
	c.mu.Unlock()

	if err != nil {
		c.state.store(stateFailed)
	} else {
		c.state.store(stateLoaded)
	}
	close(ready)
	return v, err
}

func (c *Cell[T]) waitForLoad() {
	c.mu.Lock()
	ready := c.ready
	c.mu.Unlock()
	if ready != nil {
		<-ready
	}
}

// Loaded reports whether the cell currently holds a successfully loaded
// value, without triggering a load.
func (c *Cell[T]) Loaded() bool {
	return c.state.load() == stateLoaded
}

// Reset returns the cell to Unloaded, discarding any cached value or
// error so the next Get reloads from scratch.
func (c *Cell[T]) Reset() {
	c.mu.Lock()
	var zero T
	c.value, c.err = zero, nil
	c.mu.Unlock()
	c.state.store(stateUnloaded)
}
