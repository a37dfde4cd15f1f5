package dlist

import (
	"errors"
	"fmt"
)

// Misuse of a List is a programming error and is reported by panicking with
// an error wrapping one of these values.
var (
	ErrBorrowed               = errors.New("list is exclusively borrowed")
	ErrCursorClosed           = errors.New("cursor is closed")
	ErrForeignElem            = errors.New("elem does not belong to this list")
	ErrConcurrentModification = errors.New("list was modified during iteration")
)

func violation(op string, err error) error {
	return fmt.Errorf("dlist: %s: %w", op, err)
}

// checkBorrow panics if a cursor holds the exclusive borrow of l.
func (l *List[T]) checkBorrow(op string) {
	if l.cursor != nil {
		panic(violation(op, ErrBorrowed))
	}
}

func (l *List[T]) checkOwner(op string, e *Elem[T]) {
	if e.list != l {
		panic(violation(op, ErrForeignElem))
	}
}
