package vdom

import (
	"sync/atomic"

	vterrors "github.com/vango-dev/vtree/internal/errors"
)

// Cell holds a value behind runtime-checked borrows: any number of shared
// borrows, or one exclusive borrow. Borrowing in a way that breaks that
// rule panics with E023 instead of silently aliasing.
type Cell[T any] struct {
	v T
	// state is the number of shared borrows, or -1 while exclusively borrowed.
	state atomic.Int32
}

// NewCell returns a cell holding v.
func NewCell[T any](v T) *Cell[T] {
	return &Cell[T]{v: v}
}

// Borrow takes a shared borrow. The returned release func must be called
// exactly once.
func (c *Cell[T]) Borrow() (*T, func()) {
	for {
		s := c.state.Load()
		if s < 0 {
			vterrors.Violation("E023", "", "shared borrow while exclusively borrowed")
		}
		if c.state.CompareAndSwap(s, s+1) {
			return &c.v, func() { c.state.Add(-1) }
		}
	}
}

// BorrowMut takes the exclusive borrow. The returned release func must be
// called exactly once.
func (c *Cell[T]) BorrowMut() (*T, func()) {
	if !c.state.CompareAndSwap(0, -1) {
		vterrors.Violation("E023", "", "exclusive borrow while %s", c.describe())
	}
	return &c.v, func() { c.state.Store(0) }
}

// With calls fn under a shared borrow.
func (c *Cell[T]) With(fn func(v *T)) {
	v, release := c.Borrow()
	defer release()
	fn(v)
}

// WithMut calls fn under the exclusive borrow.
func (c *Cell[T]) WithMut(fn func(v *T)) {
	v, release := c.BorrowMut()
	defer release()
	fn(v)
}

func (c *Cell[T]) describe() string {
	if c.state.Load() < 0 {
		return "exclusively borrowed"
	}
	return "shared borrows are outstanding"
}
