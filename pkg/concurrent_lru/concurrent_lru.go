package concurrent_lru

import (
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/pmkol/linkseq/pkg/lru"
)

// ShardedLRU spreads string keys over independently locked LRUs.
type ShardedLRU[V any] struct {
	l               []*ConcurrentLRU[string, V]
	mask            uint64 // shardNum - 1 (shardNum must be power of 2)
	maxSizePerShard int
}

func NewShardedLRU[V any](
	shardNum, maxSizePerShard int,
	onEvict func(key string, v V),
) *ShardedLRU[V] {

	if shardNum <= 0 || shardNum&(shardNum-1) != 0 {
		panic("shardNum must be a power of 2 and > 0")
	}

	cl := &ShardedLRU[V]{
		l:               make([]*ConcurrentLRU[string, V], shardNum),
		mask:            uint64(shardNum - 1),
		maxSizePerShard: maxSizePerShard,
	}
	for i := range cl.l {
		cl.l[i] = NewConcurrentLRU[string, V](maxSizePerShard, onEvict)
	}
	return cl
}

func (c *ShardedLRU[V]) getShard(key string) *ConcurrentLRU[string, V] {
	return c.l[c.ShardOf(key)]
}

// ShardOf returns the index of the shard that holds key.
func (c *ShardedLRU[V]) ShardOf(key string) int {
	return int(xxhash.Sum64String(key) & c.mask)
}

func (c *ShardedLRU[V]) MaxSizePerShard() int {
	return c.maxSizePerShard
}

func (c *ShardedLRU[V]) Add(key string, v V) {
	c.getShard(key).Add(key, v)
}

func (c *ShardedLRU[V]) Del(key string) {
	c.getShard(key).Del(key)
}

func (c *ShardedLRU[V]) Get(key string) (v V, ok bool) {
	return c.getShard(key).Get(key)
}

func (c *ShardedLRU[V]) Peek(key string) (v V, ok bool) {
	return c.getShard(key).Peek(key)
}

// GetOrAdd returns the value of key, calling newV to create and store it if
// key is absent. The lookup and insert happen under the shard lock.
func (c *ShardedLRU[V]) GetOrAdd(key string, newV func() V) (v V, added bool) {
	return c.getShard(key).GetOrAdd(key, newV)
}

func (c *ShardedLRU[V]) Clean(f func(key string, v V) bool) (removed int) {
	for _, shard := range c.l {
		removed += shard.Clean(f)
	}
	return
}

// Keys returns the keys of every shard, each shard from its least to its
// most recently used key.
func (c *ShardedLRU[V]) Keys() []string {
	var keys []string
	for _, shard := range c.l {
		keys = append(keys, shard.Keys()...)
	}
	return keys
}

func (c *ShardedLRU[V]) Len() int {
	sum := 0
	for _, shard := range c.l {
		sum += shard.Len()
	}
	return sum
}

// -----------------------------

// ConcurrentLRU is an lru.LRU guarded by a mutex. onEvict runs with the
// lock held and must not call back into the cache.
type ConcurrentLRU[K comparable, V any] struct {
	sync.Mutex
	lru *lru.LRU[K, V]
}

func NewConcurrentLRU[K comparable, V any](
	maxSize int,
	onEvict func(key K, v V),
) *ConcurrentLRU[K, V] {
	return &ConcurrentLRU[K, V]{
		lru: lru.NewLRU[K, V](maxSize, onEvict),
	}
}

func (c *ConcurrentLRU[K, V]) Add(key K, v V) {
	c.Lock()
	c.lru.Add(key, v)
	c.Unlock()
}

func (c *ConcurrentLRU[K, V]) Del(key K) {
	c.Lock()
	c.lru.Del(key)
	c.Unlock()
}

func (c *ConcurrentLRU[K, V]) Get(key K) (v V, ok bool) {
	c.Lock()
	v, ok = c.lru.Get(key)
	c.Unlock()
	return
}

func (c *ConcurrentLRU[K, V]) Peek(key K) (v V, ok bool) {
	c.Lock()
	v, ok = c.lru.Peek(key)
	c.Unlock()
	return
}

func (c *ConcurrentLRU[K, V]) GetOrAdd(key K, newV func() V) (v V, added bool) {
	c.Lock()
	defer c.Unlock()
	if v, ok := c.lru.Get(key); ok {
		return v, false
	}
	v = newV()
	c.lru.Add(key, v)
	return v, true
}

func (c *ConcurrentLRU[K, V]) Clean(f func(key K, v V) bool) (removed int) {
	c.Lock()
	removed = c.lru.Clean(f)
	c.Unlock()
	return
}

func (c *ConcurrentLRU[K, V]) Keys() []K {
	c.Lock()
	keys := c.lru.Keys()
	c.Unlock()
	return keys
}

func (c *ConcurrentLRU[K, V]) Len() int {
	c.Lock()
	n := c.lru.Len()
	c.Unlock()
	return n
}
