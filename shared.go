package deepclone

import "sync/atomic"

// sharedCell is the backing allocation behind one or more Shared handles.
type sharedCell[T any] struct {
	value T
	refs  atomic.Int64
}

// Shared is a reference-counted handle to a value. Share hands out further
// handles to the same cell; every handle observes the same value.
//
// Cloning a Shared never preserves the aliasing: the clone is a new cell
// with a single reference holding a deep clone of the value.
type Shared[T any] struct {
	cell     *sharedCell[T]
	released atomic.Bool
}

// NewShared allocates a new cell holding v with one reference.
func NewShared[T any](v T) *Shared[T] {
	c := &sharedCell[T]{value: v}
	c.refs.Store(1)
	return &Shared[T]{cell: c}
}

// Share returns a new handle to the same cell and increments the count.
func (s *Shared[T]) Share() *Shared[T] {
	s.cell.refs.Add(1)
	return &Shared[T]{cell: s.cell}
}

// Release drops this handle's reference. Releasing twice is a no-op.
// It reports whether this was the last reference to the cell.
func (s *Shared[T]) Release() bool {
	if !s.released.CompareAndSwap(false, true) {
		return false
	}
	return s.cell.refs.Add(-1) == 0
}

// Refs returns the number of live handles to the cell.
func (s *Shared[T]) Refs() int64 {
	return s.cell.refs.Load()
}

// Get returns the shared value.
func (s *Shared[T]) Get() T {
	return s.cell.value
}

// Ptr returns a pointer into the shared cell. Writes through it are visible
// to every handle.
func (s *Shared[T]) Ptr() *T {
	return &s.cell.value
}

// Aliases reports whether s and other are handles to the same cell.
func (s *Shared[T]) Aliases(other *Shared[T]) bool {
	if s == nil || other == nil {
		return false
	}
	return s.cell == other.cell
}

// DeepClone implements DeepCloner using the reflection cloner for T.
func (s *Shared[T]) DeepClone() *Shared[T] {
	return SharedOf(Of[T]()).Clone(s)
}

// sharedCloner clones reference-counted handles.
type sharedCloner[T any] struct {
	elem Cloner[T]
}

// SharedOf returns a Cloner for *Shared[T]. Clone dereferences the handle,
// deep clones the value, and wraps it in a brand-new cell. CloneFrom
// replaces *dst with such a clone; the handle previously in *dst is left to
// its other owners.
func SharedOf[T any](elem Cloner[T]) Cloner[*Shared[T]] {
	return sharedCloner[T]{elem: elem}
}

func (c sharedCloner[T]) Clone(src *Shared[T]) *Shared[T] {
	if src == nil {
		return nil
	}
	return NewShared(c.elem.Clone(src.cell.value))
}

func (c sharedCloner[T]) CloneFrom(dst **Shared[T], src *Shared[T]) {
	*dst = c.Clone(src)
}
