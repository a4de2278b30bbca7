// Package arena implements the per-kind, append-only value storage that
// backs every built-in kind in the VM. Indices are never recycled during a
// VM's lifetime; a dropped slot stays allocated but unreadable.
package arena

import "github.com/keiv-fly/kayton-go/internal/kayerr"

// DropFunc reclaims whatever an owning slot's value holds. It must be safe
// to call at most once per slot; Arena enforces the at-most-once part.
type DropFunc func(value any)

type slot[T any] struct {
	value   T
	dropped bool
	drop    DropFunc
}

// Arena is a generic append-only arena for one kind. T is the in-process Go
// representation of that kind's values (e.g. int64, string, a StrBuf
// struct). Arena is not safe for concurrent use; see the VM's single-
// threaded-cooperative concurrency model.
type Arena[T any] struct {
	slots []slot[T]
}

func New[T any]() *Arena[T] {
	return &Arena[T]{}
}

// Append adds a new value and returns its index. O(1) amortised, never
// fails.
func (a *Arena[T]) Append(value T) uint32 {
	a.slots = append(a.slots, slot[T]{value: value})
	return uint32(len(a.slots) - 1)
}

// AppendOwned is like Append but records a drop callback invoked on
// explicit Drop or on arena teardown via DropAll.
func (a *Arena[T]) AppendOwned(value T, drop DropFunc) uint32 {
	a.slots = append(a.slots, slot[T]{value: value, drop: drop})
	return uint32(len(a.slots) - 1)
}

// Get reads the value at index. Returns NotFound if the index is out of
// range or the slot was dropped.
func (a *Arena[T]) Get(index uint32) (T, error) {
	var zero T
	if index >= uint32(len(a.slots)) {
		return zero, kayerr.New(kayerr.NotFound, "arena index %d out of range (len %d)", index, len(a.slots))
	}
	s := &a.slots[index]
	if s.dropped {
		return zero, kayerr.New(kayerr.NotFound, "arena index %d already dropped", index)
	}
	return s.value, nil
}

// SetAt overwrites an existing slot's value. If the slot owns a drop
// callback, the previous value's drop runs first (matching the dynamic-kind
// and string-buffer overwrite semantics).
func (a *Arena[T]) SetAt(index uint32, value T, drop DropFunc) error {
	if index >= uint32(len(a.slots)) {
		return kayerr.New(kayerr.NotFound, "arena index %d out of range (len %d)", index, len(a.slots))
	}
	s := &a.slots[index]
	if s.drop != nil && !s.dropped {
		s.drop(s.value)
	}
	s.value = value
	s.drop = drop
	s.dropped = false
	return nil
}

// Drop runs the slot's drop callback (if any) and marks it unreadable.
// Dropping an already-dropped slot is a no-op that returns an error rather
// than double-freeing.
func (a *Arena[T]) Drop(index uint32) error {
	if index >= uint32(len(a.slots)) {
		return kayerr.New(kayerr.NotFound, "arena index %d out of range (len %d)", index, len(a.slots))
	}
	s := &a.slots[index]
	if s.dropped {
		return kayerr.New(kayerr.Generic, "arena index %d already dropped", index)
	}
	if s.drop != nil {
		s.drop(s.value)
	}
	var zero T
	s.value = zero
	s.dropped = true
	return nil
}

// Len returns the number of slots ever appended, including dropped ones.
func (a *Arena[T]) Len() int { return len(a.slots) }

// DropAll runs every live slot's drop callback, in index order. Called at
// VM teardown; order across arenas is unspecified, matching the spec's
// allocation-discipline note.
func (a *Arena[T]) DropAll() {
	for i := range a.slots {
		s := &a.slots[i]
		if !s.dropped && s.drop != nil {
			s.drop(s.value)
			s.dropped = true
		}
	}
}
