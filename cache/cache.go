// Package cache implements a tiered query-result cache: an in-process
// Memory tier (L1, LRU + TTL), an optional injected Distributed tier
// (L2, e.g. Redis), and Tiered, which writes through both and supports
// tag-based invalidation across either.
package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/praxdb/prax"
)

// CacheKey identifies one cached query result, mirroring the shape a
// generated client would build from its query builder's state.
type CacheKey struct {
	Table      string
	Operation  string
	Predicates string
	OrderBy    string
	Limit      int
	Offset     int
}

// String renders the key's canonical cache string form.
func (k CacheKey) String() string {
	return k.Table + ":" + k.Operation + ":" + k.Predicates + ":" + k.OrderBy
}

// Entry is one cached value plus the tags it should be invalidated
// under and its absolute expiry, msgpack-encoded for wire/L2 storage.
type Entry struct {
	Value     []byte    `msgpack:"value"`
	Tags      []string  `msgpack:"tags"`
	CreatedAt time.Time `msgpack:"created_at"`
	ExpiresAt time.Time `msgpack:"expires_at"` // zero means no expiry
}

// Expired reports whether the entry's TTL has elapsed as of now.
func (e Entry) Expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// Encode msgpack-encodes the entry for L2 transport.
func (e Entry) Encode() ([]byte, error) {
	b, err := msgpack.Marshal(e)
	if err != nil {
		return nil, prax.Wrap(prax.KindCache, err, "encode cache entry")
	}
	return b, nil
}

// DecodeEntry msgpack-decodes an Entry previously produced by Encode.
func DecodeEntry(b []byte) (Entry, error) {
	var e Entry
	if err := msgpack.Unmarshal(b, &e); err != nil {
		return Entry{}, prax.Wrap(prax.KindCache, err, "decode cache entry")
	}
	return e, nil
}

// Distributed is the interface an L2 cache backend (Redis, Memcached)
// must implement. Values are pre-encoded Entry bytes; Distributed
// itself is byte-oriented and knows nothing about Entry's shape.
type Distributed interface {
	Get(ctx context.Context, key string) ([]byte, error) // nil, nil if absent
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeletePrefix(ctx context.Context, prefix string) error
	Clear(ctx context.Context) error
}

// Memory is an in-process L1 cache: bounded LRU eviction plus
// per-entry TTL.
type Memory struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*list.Element
	order    *list.List // front = most recently used
	tagIndex map[string]map[string]struct{}
}

type memEntry struct {
	key   string
	entry Entry
}

// NewMemory creates an L1 cache bounded to capacity entries.
func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = 1
	}
	return &Memory{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		order:    list.New(),
		tagIndex: make(map[string]map[string]struct{}),
	}
}

// Get returns the entry for key if present and not expired.
func (m *Memory) Get(key string) (Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	el, ok := m.items[key]
	if !ok {
		return Entry{}, false
	}
	me := el.Value.(*memEntry)
	if me.entry.Expired(time.Now()) {
		m.removeLocked(el)
		return Entry{}, false
	}
	m.order.MoveToFront(el)
	return me.entry, true
}

// Set stores e under key, evicting the least-recently-used entry if
// the cache is at capacity.
func (m *Memory) Set(key string, e Entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if el, ok := m.items[key]; ok {
		el.Value.(*memEntry).entry = e
		m.order.MoveToFront(el)
		m.reindexLocked(key, e.Tags)
		return
	}
	el := m.order.PushFront(&memEntry{key: key, entry: e})
	m.items[key] = el
	m.reindexLocked(key, e.Tags)
	if m.order.Len() > m.capacity {
		m.removeLocked(m.order.Back())
	}
}

func (m *Memory) reindexLocked(key string, tags []string) {
	for tag, keys := range m.tagIndex {
		delete(keys, key)
		if len(keys) == 0 {
			delete(m.tagIndex, tag)
		}
	}
	for _, tag := range tags {
		set, ok := m.tagIndex[tag]
		if !ok {
			set = make(map[string]struct{})
			m.tagIndex[tag] = set
		}
		set[key] = struct{}{}
	}
}

func (m *Memory) removeLocked(el *list.Element) {
	if el == nil {
		return
	}
	me := el.Value.(*memEntry)
	for tag, keys := range m.tagIndex {
		delete(keys, me.key)
		if len(keys) == 0 {
			delete(m.tagIndex, tag)
		}
	}
	delete(m.items, me.key)
	m.order.Remove(el)
}

// Delete removes key.
func (m *Memory) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if el, ok := m.items[key]; ok {
		m.removeLocked(el)
	}
}

// InvalidateTag removes every entry tagged with tag.
func (m *Memory) InvalidateTag(tag string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys, ok := m.tagIndex[tag]
	if !ok {
		return
	}
	for key := range keys {
		if el, ok := m.items[key]; ok {
			m.removeLocked(el)
		}
	}
}

// Clear empties the cache.
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = make(map[string]*list.Element)
	m.order.Init()
	m.tagIndex = make(map[string]map[string]struct{})
}

// Len reports the number of entries currently cached.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Len()
}

// Tiered composes an L1 Memory cache with an optional L2 Distributed
// cache: reads check L1 first, falling back to L2 and populating L1 on
// a hit; writes go to both tiers. Tag invalidation is exact on L1 (it
// keeps a tag index); on L2 it deletes, one key at a time, the keys this
// Tiered recorded under the tag when it wrote them (most distributed
// caches have no native tag index), so L2 entries written by another
// Tiered or process are not removed.
type Tiered struct {
	L1 *Memory
	L2 Distributed

	mu      sync.Mutex
	tagKeys map[string]map[string]struct{}
}

// NewTiered creates a Tiered cache. l2 may be nil, in which case Tiered
// behaves as an L1-only cache.
func NewTiered(l1 *Memory, l2 Distributed) *Tiered {
	return &Tiered{L1: l1, L2: l2, tagKeys: make(map[string]map[string]struct{})}
}

// Get reads key, checking L1 then L2.
func (t *Tiered) Get(ctx context.Context, key string) (Entry, bool, error) {
	if e, ok := t.L1.Get(key); ok {
		return e, true, nil
	}
	if t.L2 == nil {
		return Entry{}, false, nil
	}
	raw, err := t.L2.Get(ctx, key)
	if err != nil {
		return Entry{}, false, prax.Wrap(prax.KindCache, err, "L2 get %q", key)
	}
	if raw == nil {
		return Entry{}, false, nil
	}
	e, err := DecodeEntry(raw)
	if err != nil {
		return Entry{}, false, err
	}
	if e.Expired(time.Now()) {
		return Entry{}, false, nil
	}
	t.L1.Set(key, e)
	return e, true, nil
}

// Set writes key to both tiers.
func (t *Tiered) Set(ctx context.Context, key string, e Entry) error {
	t.L1.Set(key, e)
	t.recordTags(key, e.Tags)
	if t.L2 == nil {
		return nil
	}
	raw, err := e.Encode()
	if err != nil {
		return err
	}
	var ttl time.Duration
	if !e.ExpiresAt.IsZero() {
		ttl = time.Until(e.ExpiresAt)
	}
	if err := t.L2.Set(ctx, key, raw, ttl); err != nil {
		return prax.Wrap(prax.KindCache, err, "L2 set %q", key)
	}
	return nil
}

func (t *Tiered) recordTags(key string, tags []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for tag, keys := range t.tagKeys {
		delete(keys, key)
		if len(keys) == 0 {
			delete(t.tagKeys, tag)
		}
	}
	for _, tag := range tags {
		set, ok := t.tagKeys[tag]
		if !ok {
			set = make(map[string]struct{})
			t.tagKeys[tag] = set
		}
		set[key] = struct{}{}
	}
}

// InvalidateTag evicts every key tagged with tag from both tiers.
func (t *Tiered) InvalidateTag(ctx context.Context, tag string) error {
	t.L1.InvalidateTag(tag)

	t.mu.Lock()
	keys := make([]string, 0, len(t.tagKeys[tag]))
	for k := range t.tagKeys[tag] {
		keys = append(keys, k)
	}
	delete(t.tagKeys, tag)
	t.mu.Unlock()

	if t.L2 == nil {
		return nil
	}
	for _, k := range keys {
		if err := t.L2.Delete(ctx, k); err != nil {
			return prax.Wrap(prax.KindCache, err, "L2 delete %q", k)
		}
	}
	return nil
}

// Clear empties both tiers.
func (t *Tiered) Clear(ctx context.Context) error {
	t.L1.Clear()
	t.mu.Lock()
	t.tagKeys = make(map[string]map[string]struct{})
	t.mu.Unlock()
	if t.L2 == nil {
		return nil
	}
	if err := t.L2.Clear(ctx); err != nil {
		return prax.Wrap(prax.KindCache, err, "L2 clear")
	}
	return nil
}
