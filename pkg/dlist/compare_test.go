package dlist

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
)

func TestEqual(t *testing.T) {
	n := Of[uint8]()
	m := Of[uint8]()
	assert.True(t, Equal(n, m))
	n.PushFront(1)
	assert.False(t, Equal(n, m))
	m.PushBack(1)
	assert.True(t, Equal(n, m))

	assert.False(t, Equal(Of(2, 3, 4), Of(1, 2, 3)))
	assert.True(t, EqualFunc(Of("a", "B"), Of("A", "b"), strings.EqualFold))
}

func TestOrder(t *testing.T) {
	n := Of[int]()
	m := Of(1, 2, 3)
	assert.True(t, Less(n, m))
	assert.True(t, Greater(m, n))
	assert.True(t, LessEqual(n, n))
	assert.True(t, GreaterEqual(n, n))

	c, ok := PartialCompare(Of(1, 2, 3), Of(1, 2, 4))
	assert.True(t, ok)
	assert.Equal(t, -1, c)
	c, ok = PartialCompare(Of(1, 2, 3), Of(1, 2, 3))
	assert.True(t, ok)
	assert.Equal(t, 0, c)

	assert.Equal(t, 1, CompareFunc(Of("b"), Of("a", "z"), strings.Compare))
	assert.Equal(t, -1, CompareFunc(Of("a"), Of("a", "z"), strings.Compare))
}

func TestOrder_NaN(t *testing.T) {
	nan := math.NaN()
	unordered := func(a, b *List[float64]) {
		t.Helper()
		assert.False(t, Less(a, b))
		assert.False(t, Greater(a, b))
		assert.False(t, LessEqual(a, b))
		assert.False(t, GreaterEqual(a, b))
		_, ok := PartialCompare(a, b)
		assert.False(t, ok)
	}

	unordered(Of(nan), Of(nan))
	one := Of(1.0)
	unordered(Of(nan), one)
	unordered(Of(1.0, 2.0, nan), Of(1.0, 2.0, 3.0))

	s := Of(1.0, 2.0, 4.0, 2.0)
	u := Of(1.0, 2.0, 3.0, 2.0)
	assert.False(t, Less(s, u))
	assert.True(t, Greater(s, one))
	assert.False(t, LessEqual(s, one))
	assert.True(t, GreaterEqual(s, one))

	// The NaN is never reached: the lists differ before it.
	assert.True(t, Less(Of(1.0, nan), Of(2.0, nan)))
	assert.False(t, Equal(Of(nan), Of(nan)))
}

func TestFormat(t *testing.T) {
	l := New[int]()
	for i := 0; i < 10; i++ {
		l.PushBack(i)
	}
	assert.Equal(t, "[0, 1, 2, 3, 4, 5, 6, 7, 8, 9]", fmt.Sprintf("%v", l))
	assert.Equal(t, "[0, 1, 2, 3, 4, 5, 6, 7, 8, 9]", l.String())

	words := Of("just", "one", "test", "more")
	assert.Equal(t, `["just", "one", "test", "more"]`, fmt.Sprintf("%q", words))
	assert.Equal(t, "[just, one, test, more]", words.String())

	assert.Equal(t, "[]", New[int]().String())
	assert.Equal(t, "[a, ff]", fmt.Sprintf("%x", Of(10, 255)))

	assert.Equal(t, "[1, 2]", fmt.Sprintf("%s", Of[int64](1, 2)))
	assert.Equal(t, "[1.5, NaN]", fmt.Sprintf("%s", Of(1.5, math.NaN())))
	assert.Equal(t, "[a, b]", fmt.Sprintf("%s", Of("a", "b")))
	assert.Equal(t, "[  a,  ff]", fmt.Sprintf("%4x", Of(10, 255)))
	assert.Equal(t, "[   1]", fmt.Sprintf("%4s", Of(1)))
}

func hashInt(v int) uint64 {
	return xxhash.Sum64String(strconv.Itoa(v))
}

func TestHash(t *testing.T) {
	list1 := Of(0, 1, 2, 3, 4, 5, 6, 7, 8, 9)
	list2 := Of(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)

	m := make(map[uint64]string)
	m[list1.Hash(hashInt)] = "list1"
	m[list2.Hash(hashInt)] = "list2"
	assert.Len(t, m, 2)

	assert.Equal(t, "list1", m[list1.Clone().Hash(hashInt)])
	assert.Equal(t, "list2", m[list2.Clone().Hash(hashInt)])

	// Same elements, different structure history.
	built := New[int]()
	for i := 9; i >= 0; i-- {
		built.PushFront(i)
	}
	assert.Equal(t, list1.Hash(hashInt), built.Hash(hashInt))

	assert.NotEqual(t, Of(1, 2).Hash(hashInt), Of(2, 1).Hash(hashInt))
	assert.NotEqual(t, New[int]().Hash(hashInt), Of(0).Hash(func(int) uint64 { return 0 }))
}
