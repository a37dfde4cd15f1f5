// Package dlist implements a doubly linked list with double-ended
// iterators and a cursor that can split and splice the list in place.
//
// A List has a single owner and is not safe for concurrent use. Aliasing
// rules are checked at runtime: while a Cursor is open it is the only way
// to access its list, and an iterator stops being usable once its list is
// structurally modified through another path. Violations panic with an
// error wrapping ErrBorrowed, ErrConcurrentModification, ErrCursorClosed or
// ErrForeignElem.
package dlist

import "iter"

// List is a doubly linked list. The zero value is an empty list ready to use.
type List[T any] struct {
	first, last *Elem[T]
	length      int

	cursor *Cursor[T] // holder of the exclusive borrow, if any
	gen    uint64     // bumped on every structural change
}

func New[T any]() *List[T] {
	return &List[T]{}
}

// Of returns a list holding vs in order.
func Of[T any](vs ...T) *List[T] {
	l := New[T]()
	l.Extend(vs...)
	return l
}

// Collect returns a list holding the values of seq in order.
func Collect[T any](seq iter.Seq[T]) *List[T] {
	l := New[T]()
	l.ExtendSeq(seq)
	return l
}

// Len returns the number of elements of l. The complexity is O(1).
func (l *List[T]) Len() int {
	return l.length
}

func (l *List[T]) IsEmpty() bool {
	return l.length == 0
}

// Front returns the first element of l or nil if l is empty.
func (l *List[T]) Front() *Elem[T] {
	l.checkBorrow("Front")
	return l.first
}

// Back returns the last element of l or nil if l is empty.
func (l *List[T]) Back() *Elem[T] {
	l.checkBorrow("Back")
	return l.last
}

// PushFront inserts v at the front of l and returns its element.
func (l *List[T]) PushFront(v T) *Elem[T] {
	l.checkBorrow("PushFront")
	e := &Elem[T]{Value: v, list: l}
	l.link(nil, l.first, e, e, 1)
	return e
}

// PushBack inserts v at the back of l and returns its element.
func (l *List[T]) PushBack(v T) *Elem[T] {
	l.checkBorrow("PushBack")
	e := &Elem[T]{Value: v, list: l}
	l.link(l.last, nil, e, e, 1)
	return e
}

// Extend appends vs to the back of l.
func (l *List[T]) Extend(vs ...T) {
	for _, v := range vs {
		l.PushBack(v)
	}
}

// ExtendSeq appends every value of seq to the back of l.
func (l *List[T]) ExtendSeq(seq iter.Seq[T]) {
	for v := range seq {
		l.PushBack(v)
	}
}

// PopFront removes the first element and returns its value.
// ok is false if l is empty.
func (l *List[T]) PopFront() (v T, ok bool) {
	l.checkBorrow("PopFront")
	if l.first == nil {
		return
	}
	return l.unlink(l.first), true
}

// PopBack removes the last element and returns its value.
// ok is false if l is empty.
func (l *List[T]) PopBack() (v T, ok bool) {
	l.checkBorrow("PopBack")
	if l.last == nil {
		return
	}
	return l.unlink(l.last), true
}

func (l *List[T]) PeekFront() (v T, ok bool) {
	l.checkBorrow("PeekFront")
	if l.first == nil {
		return
	}
	return l.first.Value, true
}

func (l *List[T]) PeekBack() (v T, ok bool) {
	l.checkBorrow("PeekBack")
	if l.last == nil {
		return
	}
	return l.last.Value, true
}

// PeekFrontMut returns a pointer to the first value, or nil if l is empty.
func (l *List[T]) PeekFrontMut() *T {
	l.checkBorrow("PeekFrontMut")
	if l.first == nil {
		return nil
	}
	return &l.first.Value
}

// PeekBackMut returns a pointer to the last value, or nil if l is empty.
func (l *List[T]) PeekBackMut() *T {
	l.checkBorrow("PeekBackMut")
	if l.last == nil {
		return nil
	}
	return &l.last.Value
}

// Remove removes e from l and returns e.Value.
// It panics if e is not an element of l.
func (l *List[T]) Remove(e *Elem[T]) T {
	l.checkBorrow("Remove")
	l.checkOwner("Remove", e)
	return l.unlink(e)
}

// MoveToFront moves e to the front of l in O(1). Len is unchanged.
func (l *List[T]) MoveToFront(e *Elem[T]) {
	l.checkBorrow("MoveToFront")
	l.checkOwner("MoveToFront", e)
	if l.first == e {
		return
	}
	l.unlink(e)
	e.list = l
	l.link(nil, l.first, e, e, 1)
}

// MoveToBack moves e to the back of l in O(1). Len is unchanged.
func (l *List[T]) MoveToBack(e *Elem[T]) {
	l.checkBorrow("MoveToBack")
	l.checkOwner("MoveToBack", e)
	if l.last == e {
		return
	}
	l.unlink(e)
	e.list = l
	l.link(l.last, nil, e, e, 1)
}

// Clone returns a new list holding a shallow copy of every value of l.
func (l *List[T]) Clone() *List[T] {
	l.checkBorrow("Clone")
	c := New[T]()
	for e := l.first; e != nil; e = e.next {
		c.PushBack(e.Value)
	}
	return c
}

// Clear removes every element of l.
func (l *List[T]) Clear() {
	l.checkBorrow("Clear")
	for e := l.first; e != nil; {
		next := e.next
		e.next = nil // avoid memory leaks
		e.prev = nil
		e.list = nil
		e = next
	}
	l.first, l.last, l.length = nil, nil, 0
	l.gen++
}

// link inserts the detached chain first..last of n elements between after
// and before. A nil after means the front of l, a nil before means the back.
// The chain must already be tagged as owned by l.
func (l *List[T]) link(after, before, first, last *Elem[T], n int) {
	first.prev = after
	last.next = before
	if after != nil {
		after.next = first
	} else {
		l.first = first
	}
	if before != nil {
		before.prev = last
	} else {
		l.last = last
	}
	l.length += n
	l.gen++
}

func (l *List[T]) unlink(e *Elem[T]) T {
	p, n := e.prev, e.next
	if p != nil {
		p.next = n
	} else {
		l.first = n
	}
	if n != nil {
		n.prev = p
	} else {
		l.last = p
	}

	e.prev = nil
	e.next = nil
	e.list = nil
	l.length--
	l.gen++
	return e.Value
}

// detach empties l and returns its former chain.
func (l *List[T]) detach() (first, last *Elem[T], n int) {
	first, last, n = l.first, l.last, l.length
	l.first, l.last, l.length = nil, nil, 0
	l.gen++
	return
}

// adopt tags every element of the nil-terminated chain starting at first as
// owned by l.
func (l *List[T]) adopt(first *Elem[T]) {
	for e := first; e != nil; e = e.next {
		e.list = l
	}
}

// take moves all elements of l into a new list, leaving l empty.
func (l *List[T]) take() *List[T] {
	out := New[T]()
	first, last, n := l.detach()
	if n == 0 {
		return out
	}
	out.adopt(first)
	out.first, out.last, out.length = first, last, n
	return out
}
