// Package browse provides circular, index-based navigation over a result set.
package browse

import (
	"fmt"
	"slices"
)

// ErrInvalidCursorState is returned when a navigation call is made on a
// cursor that has no records open. It indicates a caller bug.
type ErrInvalidCursorState struct {
	Action string
}

func (e *ErrInvalidCursorState) Error() string {
	return fmt.Sprintf("cursor: %s called with no active browse", e.Action)
}

// Indexed wraps an item with its 1-based position and the size of the set
// it was taken from.
type Indexed[T any] struct {
	Item  T
	Index int
	Size  int
}

// Cursor steps forward and backward through an ordered set of items,
// wrapping at both ends. The zero value is an empty cursor.
//
// A Cursor is not safe for concurrent use.
type Cursor[T any] struct {
	items    []T
	position int
}

// New returns a cursor opened on items.
func New[T any](items []T) *Cursor[T] {
	c := &Cursor[T]{}
	c.Open(items)
	return c
}

// Open replaces the browsing set with a copy of items and moves to the first
// item. An empty set leaves the cursor empty. It reports whether the cursor
// is active.
func (c *Cursor[T]) Open(items []T) bool {
	if len(items) == 0 {
		c.Close()
		return false
	}
	c.items = slices.Clone(items)
	c.position = 0
	return true
}

// Close ends the browsing session.
func (c *Cursor[T]) Close() {
	c.items = nil
	c.position = 0
}

// Active reports whether a non-empty set is open.
func (c *Cursor[T]) Active() bool {
	return len(c.items) > 0
}

// Len returns the number of items being browsed.
func (c *Cursor[T]) Len() int {
	return len(c.items)
}

// Position returns the 0-based position of the current item.
func (c *Cursor[T]) Position() int {
	return c.position
}

// Current returns the item at the current position.
func (c *Cursor[T]) Current() (Indexed[T], error) {
	if !c.Active() {
		return Indexed[T]{}, &ErrInvalidCursorState{Action: "current"}
	}
	return c.at(c.position), nil
}

// Next advances to the following item, wrapping to the first after the last.
func (c *Cursor[T]) Next() (Indexed[T], error) {
	if !c.Active() {
		return Indexed[T]{}, &ErrInvalidCursorState{Action: "next"}
	}
	c.position = (c.position + 1) % len(c.items)
	return c.at(c.position), nil
}

// Previous steps back to the preceding item, wrapping to the last before
// the first.
func (c *Cursor[T]) Previous() (Indexed[T], error) {
	if !c.Active() {
		return Indexed[T]{}, &ErrInvalidCursorState{Action: "previous"}
	}
	n := len(c.items)
	c.position = (c.position - 1 + n) % n
	return c.at(c.position), nil
}

// Seek moves to the 0-based position i, clamped to the set.
func (c *Cursor[T]) Seek(i int) (Indexed[T], error) {
	if !c.Active() {
		return Indexed[T]{}, &ErrInvalidCursorState{Action: "seek"}
	}
	c.position = max(0, min(i, len(c.items)-1))
	return c.at(c.position), nil
}

// SetCurrent replaces the item at the current position, for example after
// the record it holds was rewritten in the store. The position is unchanged.
func (c *Cursor[T]) SetCurrent(item T) (Indexed[T], error) {
	if !c.Active() {
		return Indexed[T]{}, &ErrInvalidCursorState{Action: "set current"}
	}
	c.items[c.position] = item
	return c.at(c.position), nil
}

func (c *Cursor[T]) at(i int) Indexed[T] {
	return Indexed[T]{Item: c.items[i], Index: i + 1, Size: len(c.items)}
}
