package pool_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxdb/prax"
	"github.com/praxdb/prax/dialect"
	"github.com/praxdb/prax/pool"
)

type fakeDriver struct {
	id     int
	closed atomic.Bool
}

func (f *fakeDriver) Exec(ctx context.Context, query string, args, v any) error  { return nil }
func (f *fakeDriver) Query(ctx context.Context, query string, args, v any) error { return nil }
func (f *fakeDriver) Tx(ctx context.Context) (dialect.Tx, error)                 { return nil, nil }
func (f *fakeDriver) Close() error {
	f.closed.Store(true)
	return nil
}
func (f *fakeDriver) Dialect() string { return dialect.Postgres }

func newFactory() (pool.Factory, *atomic.Int64) {
	var n atomic.Int64
	return func(ctx context.Context) (dialect.Driver, error) {
		id := int(n.Add(1))
		return &fakeDriver{id: id}, nil
	}, &n
}

func TestOpenPreWarmsMinConnections(t *testing.T) {
	factory, created := newFactory()
	p, err := pool.Open(context.Background(), factory, pool.Options{MaxConnections: 4, MinConnections: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(2), created.Load())
	assert.Equal(t, int64(2), p.Stats().Idle)
}

func TestAcquireReleaseReusesIdleConnection(t *testing.T) {
	factory, created := newFactory()
	p, err := pool.Open(context.Background(), factory, pool.Options{MaxConnections: 1})
	require.NoError(t, err)

	c, err := p.Acquire(context.Background())
	require.NoError(t, err)
	c.Release()

	c2, err := p.Acquire(context.Background())
	require.NoError(t, err)
	c2.Release()

	assert.Equal(t, int64(1), created.Load())
}

func TestAcquireBlocksAtMaxConnections(t *testing.T) {
	factory, _ := newFactory()
	p, err := pool.Open(context.Background(), factory, pool.Options{MaxConnections: 1, AcquireTimeout: 20 * time.Millisecond})
	require.NoError(t, err)

	c, err := p.Acquire(context.Background())
	require.NoError(t, err)

	_, err = p.Acquire(context.Background())
	require.Error(t, err)
	kind, ok := prax.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, prax.KindPool, kind)

	c.Release()
}

func TestAcquireAfterReleaseUnblocks(t *testing.T) {
	factory, _ := newFactory()
	p, err := pool.Open(context.Background(), factory, pool.Options{MaxConnections: 1})
	require.NoError(t, err)

	c, err := p.Acquire(context.Background())
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		c2, err := p.Acquire(context.Background())
		require.NoError(t, err)
		c2.Release()
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	c.Release()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("acquire did not unblock after release")
	}
}

func TestTestBeforeAcquireDiscardsFailedProbe(t *testing.T) {
	factory, created := newFactory()
	probeCalls := 0
	p, err := pool.Open(context.Background(), factory, pool.Options{
		MaxConnections: 2,
		MinConnections: 1,
		TestBeforeAcquire: func(ctx context.Context, c dialect.Driver) error {
			probeCalls++
			return prax.New(prax.KindConnection, "probe failed")
		},
	})
	require.NoError(t, err)

	c, err := p.Acquire(context.Background())
	require.NoError(t, err)
	c.Release()

	assert.Equal(t, 1, probeCalls)
	assert.Equal(t, int64(2), created.Load()) // one pre-warmed + one replacement
}

func TestCloseClosesIdleConnections(t *testing.T) {
	factory, _ := newFactory()
	p, err := pool.Open(context.Background(), factory, pool.Options{MaxConnections: 2, MinConnections: 2})
	require.NoError(t, err)
	require.NoError(t, p.Close())

	_, err = p.Acquire(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, prax.ErrPoolClosed)
}

func TestStatsTrackAcquiredAndReleased(t *testing.T) {
	factory, _ := newFactory()
	p, err := pool.Open(context.Background(), factory, pool.Options{MaxConnections: 2})
	require.NoError(t, err)

	c, err := p.Acquire(context.Background())
	require.NoError(t, err)
	c.Release()

	s := p.Stats()
	assert.Equal(t, int64(1), s.Acquired)
	assert.Equal(t, int64(1), s.Released)
}
