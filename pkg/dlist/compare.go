package dlist

import (
	"cmp"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"
)

// Equal reports whether a and b hold equal values in the same order.
func Equal[T comparable](a, b *List[T]) bool {
	return EqualFunc(a, b, func(x, y T) bool { return x == y })
}

// EqualFunc is like Equal but compares values with eq.
func EqualFunc[T any](a, b *List[T], eq func(x, y T) bool) bool {
	if a.Len() != b.Len() {
		return false
	}
	ia, ib := a.Iter(), b.Iter()
	for {
		x, ok := ia.Next()
		if !ok {
			return true
		}
		y, _ := ib.Next()
		if !eq(x, y) {
			return false
		}
	}
}

// PartialCompare compares a and b lexicographically. ok is false if the
// first pair of values that is not equal is unordered, as with a NaN.
// Otherwise c is -1, 0 or +1.
func PartialCompare[T cmp.Ordered](a, b *List[T]) (c int, ok bool) {
	return PartialCompareFunc(a, b, partialOrder[T])
}

// PartialCompareFunc is like PartialCompare but orders values with f, which
// returns ok == false for unordered pairs.
func PartialCompareFunc[T any](a, b *List[T], f func(x, y T) (int, bool)) (c int, ok bool) {
	ia, ib := a.Iter(), b.Iter()
	for {
		x, okA := ia.Next()
		y, okB := ib.Next()
		switch {
		case !okA && !okB:
			return 0, true
		case !okA:
			return -1, true
		case !okB:
			return 1, true
		}
		if c, ok = f(x, y); !ok || c != 0 {
			return c, ok
		}
	}
}

// CompareFunc compares a and b lexicographically using the total order f.
func CompareFunc[T any](a, b *List[T], f func(x, y T) int) int {
	c, _ := PartialCompareFunc(a, b, func(x, y T) (int, bool) {
		return f(x, y), true
	})
	return c
}

func Less[T cmp.Ordered](a, b *List[T]) bool {
	c, ok := PartialCompare(a, b)
	return ok && c < 0
}

func LessEqual[T cmp.Ordered](a, b *List[T]) bool {
	c, ok := PartialCompare(a, b)
	return ok && c <= 0
}

func Greater[T cmp.Ordered](a, b *List[T]) bool {
	c, ok := PartialCompare(a, b)
	return ok && c > 0
}

func GreaterEqual[T cmp.Ordered](a, b *List[T]) bool {
	c, ok := PartialCompare(a, b)
	return ok && c >= 0
}

func partialOrder[T cmp.Ordered](x, y T) (int, bool) {
	// x != x only holds for NaN.
	if x != x || y != y {
		return 0, false
	}
	return cmp.Compare(x, y), true
}

// Hash returns a hash of l that combines elem of every value in order.
// Lists that are Equal hash identically as long as elem hashes equal values
// identically.
func (l *List[T]) Hash(elem func(v T) uint64) uint64 {
	d := xxhash.New()
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(l.Len()))
	_, _ = d.Write(b[:])
	for v := range l.All() {
		binary.LittleEndian.PutUint64(b[:], elem(v))
		_, _ = d.Write(b[:])
	}
	return d.Sum64()
}

// Format renders l as "[a, b, c]". Verb and flags apply to each value, so
// %q quotes string values. %s falls back to %v for values that have no
// string form, such as numbers.
func (l *List[T]) Format(f fmt.State, verb rune) {
	format := fmt.FormatString(f, verb)
	plain := format
	if verb == 's' {
		plain = fmt.FormatString(f, 'v')
	}

	_, _ = io.WriteString(f, "[")
	sep := ""
	for v := range l.All() {
		_, _ = io.WriteString(f, sep)
		_, _ = fmt.Fprintf(f, elemFormat(v, format, plain), v)
		sep = ", "
	}
	_, _ = io.WriteString(f, "]")
}

func elemFormat(v any, format, plain string) string {
	switch v.(type) {
	case string, []byte, fmt.Stringer, error:
		return format
	}
	return plain
}

func (l *List[T]) String() string {
	return fmt.Sprintf("%v", l)
}
