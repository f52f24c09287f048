// Package pool implements a bounded connection pool over dialect.Driver:
// a weighted semaphore caps concurrent acquisitions, an idle LRU list
// hands out the most-recently-released connection first (keeping cold
// connections cold), and Stats exposes atomic counters for observability.
package pool

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/praxdb/prax"
	"github.com/praxdb/prax/dialect"
)

// Factory creates a new backing connection. It is called by the pool
// whenever it needs a connection beyond what is currently idle (up to
// MaxConnections).
type Factory func(ctx context.Context) (dialect.Driver, error)

// Options configures a Pool.
type Options struct {
	// MaxConnections is the hard cap on concurrently open connections.
	MaxConnections int64
	// MinConnections is pre-warmed by Open.
	MinConnections int64
	// AcquireTimeout bounds how long Acquire waits for a permit before
	// returning a KindPool error. Zero means wait indefinitely (subject
	// to ctx's own deadline).
	AcquireTimeout time.Duration
	// TestBeforeAcquire, if set, probes an idle connection before
	// handing it out and discards it (opening a replacement) if the
	// probe fails.
	TestBeforeAcquire func(ctx context.Context, c dialect.Driver) error
}

// Pool is a bounded, reusable set of dialect.Driver connections.
type Pool struct {
	factory Factory
	opts    Options
	sem     *semaphore.Weighted

	mu     sync.Mutex
	idle   *list.List // of *entry, front = most recently released
	opened int64      // connections created, open or idle
	closed bool

	stats Stats
}

type entry struct {
	conn dialect.Driver
}

// Open creates a Pool and pre-warms it to opts.MinConnections.
func Open(ctx context.Context, factory Factory, opts Options) (*Pool, error) {
	if opts.MaxConnections <= 0 {
		opts.MaxConnections = 1
	}
	p := &Pool{
		factory: factory,
		opts:    opts,
		sem:     semaphore.NewWeighted(opts.MaxConnections),
		idle:    list.New(),
	}
	for i := int64(0); i < opts.MinConnections; i++ {
		c, err := factory(ctx)
		if err != nil {
			return nil, prax.Wrap(prax.KindPool, err, "pre-warm connection %d", i)
		}
		p.idle.PushFront(&entry{conn: c})
		p.opened++
	}
	return p, nil
}

// Acquire blocks until a connection is available or AcquireTimeout
// elapses, returning a *Conn the caller must Release (typically via
// defer) when finished.
func (p *Pool) Acquire(ctx context.Context) (*Conn, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, prax.ErrPoolClosed
	}
	p.mu.Unlock()

	acqCtx := ctx
	var cancel context.CancelFunc
	if p.opts.AcquireTimeout > 0 {
		acqCtx, cancel = context.WithTimeout(ctx, p.opts.AcquireTimeout)
		defer cancel()
	}
	if err := p.sem.Acquire(acqCtx, 1); err != nil {
		p.stats.AcquireTimeouts.Add(1)
		return nil, prax.Wrap(prax.KindPool, err, "acquire connection")
	}

	c, err := p.takeOrCreate(ctx)
	if err != nil {
		p.sem.Release(1)
		return nil, err
	}
	p.stats.Acquired.Add(1)
	return &Conn{pool: p, Driver: c}, nil
}

func (p *Pool) takeOrCreate(ctx context.Context) (dialect.Driver, error) {
	for {
		p.mu.Lock()
		front := p.idle.Front()
		if front == nil {
			p.mu.Unlock()
			break
		}
		p.idle.Remove(front)
		p.mu.Unlock()

		e := front.Value.(*entry)
		if p.opts.TestBeforeAcquire != nil {
			if err := p.opts.TestBeforeAcquire(ctx, e.conn); err != nil {
				_ = e.conn.Close()
				p.mu.Lock()
				p.opened--
				p.mu.Unlock()
				p.stats.TestFailures.Add(1)
				continue
			}
		}
		return e.conn, nil
	}

	c, err := p.factory(ctx)
	if err != nil {
		return nil, prax.Wrap(prax.KindPool, err, "create connection")
	}
	p.mu.Lock()
	p.opened++
	p.mu.Unlock()
	p.stats.Created.Add(1)
	return c, nil
}

// release returns c to the idle list (at the front, so it is the next
// one handed out) and releases the acquisition permit.
func (p *Pool) release(c dialect.Driver) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		_ = c.Close()
		p.sem.Release(1)
		return
	}
	p.idle.PushFront(&entry{conn: c})
	p.mu.Unlock()
	p.sem.Release(1)
	p.stats.Released.Add(1)
}

// Close closes every idle connection and marks the pool closed; any
// connection still checked out is closed as it is released.
func (p *Pool) Close() error {
	p.mu.Lock()
	p.closed = true
	var errs []error
	for e := p.idle.Front(); e != nil; e = e.Next() {
		if err := e.Value.(*entry).conn.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	p.idle.Init()
	p.mu.Unlock()
	if len(errs) > 0 {
		return prax.Wrap(prax.KindPool, errs[0], "close pool")
	}
	return nil
}

// Conn is a checked-out pool connection. Callers must call Release
// exactly once.
type Conn struct {
	pool *Pool
	dialect.Driver
}

// Release returns the connection to the pool.
func (c *Conn) Release() {
	c.pool.release(c.Driver)
}

// Stats holds atomic pool counters, mirroring dialect/sql's
// QueryStats/StatsSnapshot shape.
type Stats struct {
	Acquired        atomic.Int64
	Released        atomic.Int64
	Created         atomic.Int64
	AcquireTimeouts atomic.Int64
	TestFailures    atomic.Int64
}

// StatsSnapshot is a point-in-time read of Stats.
type StatsSnapshot struct {
	Acquired        int64
	Released        int64
	Created         int64
	AcquireTimeouts int64
	TestFailures    int64
	Idle            int64
	Opened          int64
}

// Stats returns a snapshot of the pool's counters and current sizing.
func (p *Pool) Stats() StatsSnapshot {
	p.mu.Lock()
	idle := int64(p.idle.Len())
	opened := p.opened
	p.mu.Unlock()
	return StatsSnapshot{
		Acquired:        p.stats.Acquired.Load(),
		Released:        p.stats.Released.Load(),
		Created:         p.stats.Created.Load(),
		AcquireTimeouts: p.stats.AcquireTimeouts.Load(),
		TestFailures:    p.stats.TestFailures.Load(),
		Idle:            idle,
		Opened:          opened,
	}
}
