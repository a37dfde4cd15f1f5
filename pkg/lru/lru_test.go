package lru

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRU_Eviction(t *testing.T) {
	var evicted []int
	q := NewLRU[int, string](3, func(key int, _ string) {
		evicted = append(evicted, key)
	})

	q.Add(1, "a")
	q.Add(2, "b")
	q.Add(3, "c")
	_, ok := q.Get(1)
	require.True(t, ok)

	q.Add(4, "d")
	assert.Equal(t, []int{2}, evicted)
	assert.Equal(t, []int{3, 1, 4}, q.Keys())
	assert.Equal(t, 3, q.Len())

	q.Add(3, "cc")
	v, ok := q.Peek(3)
	require.True(t, ok)
	assert.Equal(t, "cc", v)
	assert.Equal(t, []int{1, 4, 3}, q.Keys())

	_, ok = q.Get(2)
	assert.False(t, ok)
}

func TestLRU_DelAndPop(t *testing.T) {
	var evicted []int
	q := NewLRU[int, int](8, func(key int, _ int) {
		evicted = append(evicted, key)
	})
	for i := 0; i < 5; i++ {
		q.Add(i, i*i)
	}

	q.Del(2)
	q.Del(42)
	assert.Equal(t, []int{2}, evicted)

	k, v, ok := q.PopOldest()
	require.True(t, ok)
	assert.Equal(t, 0, k)
	assert.Equal(t, 0, v)
	assert.Equal(t, []int{2}, evicted)
	assert.Equal(t, []int{1, 3, 4}, q.Keys())

	removed := q.Clean(func(key int, v int) bool { return v > 1 })
	assert.Equal(t, 2, removed)
	assert.Equal(t, []int{1}, q.Keys())

	q.Del(1)
	_, _, ok = q.PopOldest()
	assert.False(t, ok)
	assert.Equal(t, 0, q.Len())
}

func TestLRU_InvalidSize(t *testing.T) {
	assert.Panics(t, func() { NewLRU[int, int](0, nil) })
}
