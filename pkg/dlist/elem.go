package dlist

// Elem is a single node of a List. Value may be read and written freely,
// the links are maintained by the owning list.
type Elem[T any] struct {
	Value T

	next, prev *Elem[T]
	list       *List[T]
}

// Next returns the element after e, or nil if e is the last one.
func (e *Elem[T]) Next() *Elem[T] {
	return e.next
}

// Prev returns the element before e, or nil if e is the first one.
func (e *Elem[T]) Prev() *Elem[T] {
	return e.prev
}
