package dlist

// Cursor is a position in a List that can move in both directions and
// restructure the list around itself.
//
// Besides pointing at an element, a cursor may sit at the ghost position,
// a virtual slot between the last and the first element. A new cursor
// starts there. Stepping forward from the ghost reaches the first element
// and stepping backward reaches the last one.
//
// A cursor holds the exclusive borrow of its list until Close is called.
type Cursor[T any] struct {
	list  *List[T]
	cur   *Elem[T] // nil at the ghost position
	index int
}

// Cursor opens a cursor at the ghost position of l.
// It panics if l already has an open cursor.
func (l *List[T]) Cursor() *Cursor[T] {
	l.checkBorrow("Cursor")
	c := &Cursor[T]{list: l}
	l.cursor = c
	return c
}

// Close releases the list. It is safe to call Close more than once.
func (c *Cursor[T]) Close() {
	if c.list != nil && c.list.cursor == c {
		c.list.cursor = nil
	}
	c.list = nil
	c.cur = nil
	c.index = 0
}

func (c *Cursor[T]) live(op string) *List[T] {
	if c.list == nil {
		panic(violation("Cursor."+op, ErrCursorClosed))
	}
	return c.list
}

// Index returns the zero-based position of the current element.
// ok is false at the ghost position.
func (c *Cursor[T]) Index() (i int, ok bool) {
	c.live("Index")
	if c.cur == nil {
		return 0, false
	}
	return c.index, true
}

func (c *Cursor[T]) MoveNext() {
	l := c.live("MoveNext")
	if c.cur != nil {
		c.cur = c.cur.next
		if c.cur != nil {
			c.index++
		} else {
			c.index = 0
		}
		return
	}
	if l.first != nil {
		c.cur = l.first
		c.index = 0
	}
}

func (c *Cursor[T]) MovePrev() {
	l := c.live("MovePrev")
	if c.cur != nil {
		c.cur = c.cur.prev
		if c.cur != nil {
			c.index--
		} else {
			c.index = 0
		}
		return
	}
	if l.last != nil {
		c.cur = l.last
		c.index = l.length - 1
	}
}

// Current returns a pointer to the current value, or nil at the ghost
// position.
func (c *Cursor[T]) Current() *T {
	c.live("Current")
	if c.cur == nil {
		return nil
	}
	return &c.cur.Value
}

// PeekNext returns a pointer to the value MoveNext would reach, or nil if
// MoveNext would reach the ghost position.
func (c *Cursor[T]) PeekNext() *T {
	l := c.live("PeekNext")
	next := l.first
	if c.cur != nil {
		next = c.cur.next
	}
	if next == nil {
		return nil
	}
	return &next.Value
}

// PeekPrev returns a pointer to the value MovePrev would reach, or nil if
// MovePrev would reach the ghost position.
func (c *Cursor[T]) PeekPrev() *T {
	l := c.live("PeekPrev")
	prev := l.last
	if c.cur != nil {
		prev = c.cur.prev
	}
	if prev == nil {
		return nil
	}
	return &prev.Value
}

// SplitBefore moves every element before the current one into a new list
// and returns it. The cursor keeps its element, now at index 0.
// At the ghost position the whole list is moved out.
func (c *Cursor[T]) SplitBefore() *List[T] {
	l := c.live("SplitBefore")
	if c.cur == nil {
		return l.take()
	}

	out := New[T]()
	prev := c.cur.prev
	if prev == nil {
		return out
	}

	first, n := l.first, c.index
	prev.next = nil
	c.cur.prev = nil
	l.first = c.cur
	l.length -= n
	l.gen++
	c.index = 0

	out.adopt(first)
	out.first, out.last, out.length = first, prev, n
	return out
}

// SplitAfter moves every element after the current one into a new list
// and returns it. The cursor position is unchanged.
// At the ghost position the whole list is moved out.
func (c *Cursor[T]) SplitAfter() *List[T] {
	l := c.live("SplitAfter")
	if c.cur == nil {
		return l.take()
	}

	out := New[T]()
	next := c.cur.next
	if next == nil {
		return out
	}

	last, n := l.last, l.length-c.index-1
	c.cur.next = nil
	next.prev = nil
	l.last = c.cur
	l.length -= n
	l.gen++

	out.adopt(next)
	out.first, out.last, out.length = next, last, n
	return out
}

// SpliceBefore moves every element of other, in order, in front of the
// current element. At the ghost position they are appended to the back.
// other is left empty.
func (c *Cursor[T]) SpliceBefore(other *List[T]) {
	l := c.live("SpliceBefore")
	first, last, n := c.drain("SpliceBefore", other)
	if n == 0 {
		return
	}
	if c.cur == nil {
		l.link(l.last, nil, first, last, n)
		return
	}
	l.link(c.cur.prev, c.cur, first, last, n)
	c.index += n
}

// SpliceAfter moves every element of other, in order, behind the current
// element. At the ghost position they are prepended to the front.
// other is left empty.
func (c *Cursor[T]) SpliceAfter(other *List[T]) {
	l := c.live("SpliceAfter")
	first, last, n := c.drain("SpliceAfter", other)
	if n == 0 {
		return
	}
	if c.cur == nil {
		l.link(nil, l.first, first, last, n)
		return
	}
	l.link(c.cur, c.cur.next, first, last, n)
}

// InsertBefore inserts v in front of the current element, or at the back
// at the ghost position.
func (c *Cursor[T]) InsertBefore(v T) {
	c.SpliceBefore(Of(v))
}

// InsertAfter inserts v behind the current element, or at the front at the
// ghost position.
func (c *Cursor[T]) InsertAfter(v T) {
	c.SpliceAfter(Of(v))
}

// RemoveCurrent removes the current element and returns its value. The
// cursor moves to the following element, which takes over the index, or to
// the ghost position if there is none. ok is false at the ghost position.
func (c *Cursor[T]) RemoveCurrent() (v T, ok bool) {
	l := c.live("RemoveCurrent")
	e := c.cur
	if e == nil {
		return
	}
	c.cur = e.next
	if c.cur == nil {
		c.index = 0
	}
	return l.unlink(e), true
}

// drain empties other and returns its chain re-tagged for the cursor's
// list.
func (c *Cursor[T]) drain(op string, other *List[T]) (first, last *Elem[T], n int) {
	if other == nil {
		return
	}
	if other == c.list {
		panic(violation("Cursor."+op, ErrBorrowed))
	}
	other.checkBorrow("Cursor." + op)
	first, last, n = other.detach()
	c.list.adopt(first)
	return
}
