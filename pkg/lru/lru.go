package lru

import (
	"fmt"

	"github.com/pmkol/linkseq/pkg/dlist"
)

// LRU is a size bounded cache that evicts the least recently used key.
// The front of its list is the oldest entry.
type LRU[K comparable, V any] struct {
	maxSize int
	onEvict func(key K, v V)

	l *dlist.List[entry[K, V]]
	m map[K]*dlist.Elem[entry[K, V]]
}

type entry[K comparable, V any] struct {
	key K
	v   V
}

func NewLRU[K comparable, V any](maxSize int, onEvict func(key K, v V)) *LRU[K, V] {
	if maxSize <= 0 {
		panic(fmt.Sprintf("LRU: invalid max size: %d", maxSize))
	}

	return &LRU[K, V]{
		maxSize: maxSize,
		onEvict: onEvict,
		l:       dlist.New[entry[K, V]](),
		m:       make(map[K]*dlist.Elem[entry[K, V]], maxSize),
	}
}

func (q *LRU[K, V]) Add(key K, v V) {
	if e, ok := q.m[key]; ok {
		e.Value.v = v
		q.l.MoveToBack(e)
		return
	}

	// Full: recycle the oldest element instead of allocating.
	if q.l.Len() >= q.maxSize {
		e := q.l.Front()
		if q.onEvict != nil {
			q.onEvict(e.Value.key, e.Value.v)
		}
		delete(q.m, e.Value.key)

		e.Value = entry[K, V]{key: key, v: v}
		q.m[key] = e
		q.l.MoveToBack(e)
		return
	}

	q.m[key] = q.l.PushBack(entry[K, V]{key: key, v: v})
}

// Get returns the value of key and marks it as most recently used.
func (q *LRU[K, V]) Get(key K) (v V, ok bool) {
	e, ok := q.m[key]
	if !ok {
		return
	}
	q.l.MoveToBack(e)
	return e.Value.v, true
}

// Peek is like Get but does not touch the recency order.
func (q *LRU[K, V]) Peek(key K) (v V, ok bool) {
	e, ok := q.m[key]
	if !ok {
		return
	}
	return e.Value.v, true
}

// Del removes key. onEvict is called if key was present.
func (q *LRU[K, V]) Del(key K) {
	e := q.m[key]
	if e == nil {
		return
	}
	q.delElem(e)
}

// PopOldest removes the least recently used entry without calling onEvict.
func (q *LRU[K, V]) PopOldest() (key K, v V, ok bool) {
	kv, ok := q.l.PopFront()
	if !ok {
		return
	}
	delete(q.m, kv.key)
	return kv.key, kv.v, true
}

// Clean removes every entry for which f returns true.
func (q *LRU[K, V]) Clean(f func(key K, v V) bool) (removed int) {
	e := q.l.Front()
	for e != nil {
		next := e.Next()
		if f(e.Value.key, e.Value.v) {
			q.delElem(e)
			removed++
		}
		e = next
	}
	return
}

// Keys returns the keys from the least to the most recently used.
func (q *LRU[K, V]) Keys() []K {
	keys := make([]K, 0, q.l.Len())
	for kv := range q.l.All() {
		keys = append(keys, kv.key)
	}
	return keys
}

func (q *LRU[K, V]) Len() int {
	return q.l.Len()
}

func (q *LRU[K, V]) delElem(e *dlist.Elem[entry[K, V]]) {
	kv := q.l.Remove(e)
	delete(q.m, kv.key)

	if q.onEvict != nil {
		q.onEvict(kv.key, kv.v)
	}
}
