// Package script runs a sequence of list and cursor operations against a
// workspace.
package script

import (
	"errors"
	"fmt"

	"github.com/Knetic/govaluate"
)

const (
	OpPushFront = "push_front"
	OpPushBack  = "push_back"
	OpExtend    = "extend"
	OpPopFront  = "pop_front"
	OpPopBack   = "pop_back"
	OpClear     = "clear"
	OpDrop      = "drop"
	OpClone     = "clone"
	OpPrint     = "print"
	OpCompare   = "compare"
	OpAssert    = "assert"
	OpCursor    = "cursor"
)

const (
	ActNext         = "next"
	ActPrev         = "prev"
	ActRemove       = "remove"
	ActInsertBefore = "insert_before"
	ActInsertAfter  = "insert_after"
	ActSplitBefore  = "split_before"
	ActSplitAfter   = "split_after"
	ActSpliceBefore = "splice_before"
	ActSpliceAfter  = "splice_after"
)

var (
	ErrAssertion   = errors.New("assertion failed")
	errInvalidStep = errors.New("invalid step")
)

// Step is one operation on the list named List.
type Step struct {
	Op   string `yaml:"op"`
	List string `yaml:"list"`

	// Values for push_front, push_back and extend. push_front pushes them
	// one by one, so they end up reversed at the front.
	Values []int64 `yaml:"values"`

	// Count of values to pop. Default is 1.
	Count int `yaml:"count"`

	// From is the other list of compare.
	From string `yaml:"from"`

	// Into is the destination of clone.
	Into string `yaml:"into"`

	// Expect is a govaluate boolean expression for assert.
	Expect string `yaml:"expect"`

	// Actions of a cursor step, run with a single cursor.
	Actions []CursorAction `yaml:"actions"`
}

type CursorAction struct {
	Do string `yaml:"do"`

	// List receives the result of a split, or is consumed by a splice.
	List string `yaml:"list"`

	// Value for insert_before and insert_after.
	Value int64 `yaml:"value"`
}

// Validate checks the steps without running them.
func Validate(steps []Step) error {
	for i := range steps {
		if err := steps[i].validate(); err != nil {
			return fmt.Errorf("step #%d (%s): %w", i, steps[i].Op, err)
		}
	}
	return nil
}

func (s *Step) validate() error {
	if len(s.List) == 0 {
		return fmt.Errorf("%w: missing list", errInvalidStep)
	}
	switch s.Op {
	case OpPushFront, OpPushBack, OpExtend, OpClear, OpDrop, OpPrint:
	case OpPopFront, OpPopBack:
		if s.Count < 0 {
			return fmt.Errorf("%w: negative count %d", errInvalidStep, s.Count)
		}
	case OpClone:
		if len(s.Into) == 0 || s.Into == s.List {
			return fmt.Errorf("%w: clone needs a distinct destination", errInvalidStep)
		}
	case OpCompare:
		if len(s.From) == 0 {
			return fmt.Errorf("%w: compare needs from", errInvalidStep)
		}
	case OpAssert:
		if _, err := govaluate.NewEvaluableExpression(s.Expect); err != nil {
			return fmt.Errorf("%w: invalid expression %q, %w", errInvalidStep, s.Expect, err)
		}
	case OpCursor:
		for j, a := range s.Actions {
			if err := a.validate(s.List); err != nil {
				return fmt.Errorf("action #%d (%s): %w", j, a.Do, err)
			}
		}
	default:
		return fmt.Errorf("%w: unknown op %q", errInvalidStep, s.Op)
	}
	return nil
}

func (a *CursorAction) validate(cursorList string) error {
	switch a.Do {
	case ActNext, ActPrev, ActRemove, ActInsertBefore, ActInsertAfter:
	case ActSplitBefore, ActSplitAfter, ActSpliceBefore, ActSpliceAfter:
		if len(a.List) == 0 {
			return fmt.Errorf("%w: missing list", errInvalidStep)
		}
		if a.List == cursorList {
			return fmt.Errorf("%w: list %s is held by the cursor", errInvalidStep, a.List)
		}
	default:
		return fmt.Errorf("%w: unknown cursor action %q", errInvalidStep, a.Do)
	}
	return nil
}

// lists returns every list name the step touches, the step list first.
func (s *Step) lists() []string {
	names := []string{s.List}
	switch s.Op {
	case OpClone:
		names = append(names, s.Into)
	case OpCompare:
		names = append(names, s.From)
	case OpCursor:
		for _, a := range s.Actions {
			if len(a.List) > 0 {
				names = append(names, a.List)
			}
		}
	}
	return names
}
