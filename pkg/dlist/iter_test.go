package dlist

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIter(t *testing.T) {
	m := Of(0, 1, 2, 3, 4, 5, 6)
	i := 0
	for v := range m.All() {
		assert.Equal(t, i, v)
		i++
	}
	assert.Equal(t, 7, i)

	n := New[int]()
	_, ok := n.Iter().Next()
	assert.False(t, ok)

	n.PushFront(4)
	it := n.Iter()
	assert.Equal(t, 1, it.Len())
	v, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, 4, v)
	assert.Equal(t, 0, it.Len())
	_, ok = it.Next()
	assert.False(t, ok)
}

func TestIter_DoubleEnd(t *testing.T) {
	n := New[int]()
	n.PushFront(4)
	n.PushFront(5)
	n.PushFront(6)

	it := n.Iter()
	assert.Equal(t, 3, it.Len())
	v, _ := it.Next()
	assert.Equal(t, 6, v)
	assert.Equal(t, 2, it.Len())
	v, _ = it.NextBack()
	assert.Equal(t, 4, v)
	assert.Equal(t, 1, it.Len())
	v, _ = it.NextBack()
	assert.Equal(t, 5, v)
	assert.Equal(t, 0, it.Len())
	_, ok := it.NextBack()
	assert.False(t, ok)
	_, ok = it.Next()
	assert.False(t, ok)
}

func TestIter_Backward(t *testing.T) {
	m := Of(0, 1, 2, 3, 4, 5, 6)
	assert.Equal(t, []int{6, 5, 4, 3, 2, 1, 0}, slices.Collect(m.Backward()))

	n := Of(4)
	it := n.Iter()
	v, ok := it.NextBack()
	require.True(t, ok)
	assert.Equal(t, 4, v)
	_, ok = it.NextBack()
	assert.False(t, ok)

	// Early break.
	for v := range m.Backward() {
		assert.Equal(t, 6, v)
		break
	}
}

func TestIterMut(t *testing.T) {
	m := Of(0, 1, 2, 3, 4, 5, 6)
	it := m.IterMut()
	for p := it.Next(); p != nil; p = it.Next() {
		*p *= 10
	}
	assert.Equal(t, []int{0, 10, 20, 30, 40, 50, 60}, values(m))

	n := New[int]()
	assert.Nil(t, n.IterMut().Next())
	assert.Nil(t, n.IterMut().NextBack())

	n.PushFront(4)
	n.PushFront(5)
	n.PushFront(6)
	mit := n.IterMut()
	assert.Equal(t, 3, mit.Len())
	assert.Equal(t, 6, *mit.Next())
	assert.Equal(t, 2, mit.Len())
	assert.Equal(t, 4, *mit.NextBack())
	assert.Equal(t, 1, mit.Len())
	assert.Equal(t, 5, *mit.NextBack())
	assert.Nil(t, mit.NextBack())
	assert.Nil(t, mit.Next())
}

// Every interleaving of front and back steps visits each element once.
func TestIter_NoCrossing(t *testing.T) {
	const n = 9
	l := New[int]()
	for i := 0; i < n; i++ {
		l.PushBack(i)
	}

	for pattern := 0; pattern < 1<<n; pattern++ {
		seen := make(map[int]int)
		it := l.Iter()
		into := l.Clone().IntoIter()
		yields := 0
		for step := 0; ; step++ {
			var v, w int
			var ok, okInto bool
			if pattern&(1<<(step%n)) != 0 {
				v, ok = it.NextBack()
				w, okInto = into.NextBack()
			} else {
				v, ok = it.Next()
				w, okInto = into.Next()
			}
			require.Equal(t, ok, okInto)
			if !ok {
				break
			}
			require.Equal(t, v, w)
			seen[v]++
			yields++
			require.Equal(t, n-yields, it.Len())
			require.Equal(t, n-yields, into.Len())
		}
		require.Equal(t, n, yields)
		for i := 0; i < n; i++ {
			require.Equal(t, 1, seen[i], "pattern %b value %d", pattern, i)
		}
	}
}

func TestIntoIter(t *testing.T) {
	l := Of(1, 2, 3, 4)
	it := l.IntoIter()
	assert.True(t, l.IsEmpty())
	checkLinks(t, l)

	v, _ := it.Next()
	assert.Equal(t, 1, v)
	v, _ = it.NextBack()
	assert.Equal(t, 4, v)
	v, _ = it.NextBack()
	assert.Equal(t, 3, v)
	v, _ = it.Next()
	assert.Equal(t, 2, v)
	_, ok := it.Next()
	assert.False(t, ok)
	_, ok = it.NextBack()
	assert.False(t, ok)

	// The source stays usable.
	l.PushBack(5)
	assert.Equal(t, []int{5}, values(l))
}

func TestIter_ModifiedDuringIteration(t *testing.T) {
	l := Of(1, 2, 3)
	it := l.Iter()
	_, _ = it.Next()
	l.PushBack(4)

	defer func() {
		err, ok := recover().(error)
		require.True(t, ok)
		assert.True(t, errors.Is(err, ErrConcurrentModification))
	}()
	it.Next()
	t.Fatal("expected panic")
}

func TestIter_ValueWritesAreNotModifications(t *testing.T) {
	l := Of(1, 2, 3)
	it := l.Iter()
	mit := l.IterMut()
	*mit.Next() = 10
	v, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, 10, v)
}
