package dlist

import "iter"

// IntoIter is an owning iterator. Both ends drain the same list, so every
// value is yielded exactly once whatever the call interleaving.
type IntoIter[T any] struct {
	l *List[T]
}

// IntoIter moves every element of l into a new owning iterator.
// l is left empty.
func (l *List[T]) IntoIter() *IntoIter[T] {
	l.checkBorrow("IntoIter")
	return &IntoIter[T]{l: l.take()}
}

func (it *IntoIter[T]) Next() (T, bool) {
	return it.l.PopFront()
}

func (it *IntoIter[T]) NextBack() (T, bool) {
	return it.l.PopBack()
}

// Len returns the number of values not yet yielded.
func (it *IntoIter[T]) Len() int {
	return it.l.Len()
}

// iterState is the traversal state shared by Iter and IterMut.
// remaining reaching zero is what stops the two ends from crossing.
type iterState[T any] struct {
	l           *List[T]
	front, back *Elem[T]
	remaining   int
	gen         uint64
}

func newIterState[T any](l *List[T]) iterState[T] {
	return iterState[T]{l: l, front: l.first, back: l.last, remaining: l.length, gen: l.gen}
}

func (s *iterState[T]) check(op string) {
	if s.l.cursor != nil {
		panic(violation(op, ErrBorrowed))
	}
	if s.l.gen != s.gen {
		panic(violation(op, ErrConcurrentModification))
	}
}

func (s *iterState[T]) next(op string) *Elem[T] {
	if s.remaining == 0 {
		return nil
	}
	s.check(op)
	e := s.front
	s.front = e.next
	s.remaining--
	return e
}

func (s *iterState[T]) nextBack(op string) *Elem[T] {
	if s.remaining == 0 {
		return nil
	}
	s.check(op)
	e := s.back
	s.back = e.prev
	s.remaining--
	return e
}

// Iter is a borrowing double-ended iterator.
type Iter[T any] struct {
	s iterState[T]
}

func (l *List[T]) Iter() *Iter[T] {
	l.checkBorrow("Iter")
	return &Iter[T]{s: newIterState(l)}
}

func (it *Iter[T]) Next() (v T, ok bool) {
	e := it.s.next("Iter.Next")
	if e == nil {
		return
	}
	return e.Value, true
}

func (it *Iter[T]) NextBack() (v T, ok bool) {
	e := it.s.nextBack("Iter.NextBack")
	if e == nil {
		return
	}
	return e.Value, true
}

// Len returns the exact number of values left.
func (it *Iter[T]) Len() int {
	return it.s.remaining
}

// IterMut is a double-ended iterator yielding pointers to the values,
// which may be modified in place.
type IterMut[T any] struct {
	s iterState[T]
}

func (l *List[T]) IterMut() *IterMut[T] {
	l.checkBorrow("IterMut")
	return &IterMut[T]{s: newIterState(l)}
}

// Next returns a pointer to the next value, or nil when exhausted.
func (it *IterMut[T]) Next() *T {
	e := it.s.next("IterMut.Next")
	if e == nil {
		return nil
	}
	return &e.Value
}

// NextBack returns a pointer to the next value from the back, or nil when
// exhausted.
func (it *IterMut[T]) NextBack() *T {
	e := it.s.nextBack("IterMut.NextBack")
	if e == nil {
		return nil
	}
	return &e.Value
}

func (it *IterMut[T]) Len() int {
	return it.s.remaining
}

// All returns an iterator over the values of l, front to back.
func (l *List[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		it := l.Iter()
		for v, ok := it.Next(); ok; v, ok = it.Next() {
			if !yield(v) {
				return
			}
		}
	}
}

// Backward returns an iterator over the values of l, back to front.
func (l *List[T]) Backward() iter.Seq[T] {
	return func(yield func(T) bool) {
		it := l.Iter()
		for v, ok := it.NextBack(); ok; v, ok = it.NextBack() {
			if !yield(v) {
				return
			}
		}
	}
}
