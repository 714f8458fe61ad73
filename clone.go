package deepclone

// Cloner is a deep copy strategy for values of type T.
//
// Clone returns a value equal to src that shares no mutable state with it.
// CloneFrom overwrites *dst so that it equals src, reusing the allocations
// already reachable from *dst where the shapes are compatible. After
// CloneFrom, *dst equals src regardless of what *dst held before.
//
// Cloners are immutable and safe for concurrent use. Composite cloners are
// built from the cloners of their elements:
//
//	c := deepclone.Slice(deepclone.Map(deepclone.Value[string](), deepclone.Scalar[int]()))
//	snapshot := c.Clone(state)
//	c.CloneFrom(&snapshot, state) // later, reusing snapshot's storage
type Cloner[T any] interface {
	Clone(src T) T
	CloneFrom(dst *T, src T)
}

// DeepCloner allows types to provide their own deep copy logic.
//
// DeepClone must return a value where modifications to the clone do not
// affect the original. For simple value types with no pointers, slices, or
// maps, DeepClone can simply return the receiver:
//
//	func (p Point) DeepClone() Point { return p }
type DeepCloner[T any] interface {
	DeepClone() T
}

// DeepSyncer is the optional in-place half of the method contract.
// Implement it on the pointer receiver when a type can overwrite itself from
// src more cheaply than replacing itself with src.DeepClone():
//
//	func (b *Buffer) DeepCloneFrom(src Buffer) {
//	    b.data = append(b.data[:0], src.data...)
//	}
type DeepSyncer[T any] interface {
	DeepCloneFrom(src T)
}

// funcCloner adapts plain functions to Cloner.
type funcCloner[T any] struct {
	clone     func(T) T
	cloneFrom func(*T, T)
}

func (c funcCloner[T]) Clone(src T) T {
	return c.clone(src)
}

func (c funcCloner[T]) CloneFrom(dst *T, src T) {
	if c.cloneFrom == nil {
		*dst = c.clone(src)
		return
	}
	c.cloneFrom(dst, src)
}

// Func returns a Cloner backed by clone. CloneFrom replaces *dst with
// clone(src).
func Func[T any](clone func(T) T) Cloner[T] {
	return funcCloner[T]{clone: clone}
}

// FuncFrom returns a Cloner backed by both halves of the contract.
func FuncFrom[T any](clone func(T) T, cloneFrom func(dst *T, src T)) Cloner[T] {
	return funcCloner[T]{clone: clone, cloneFrom: cloneFrom}
}

// methodCloner drives the DeepCloner/DeepSyncer method contract.
type methodCloner[T DeepCloner[T]] struct{}

// Method returns a Cloner that calls T's DeepClone method.
// CloneFrom calls DeepCloneFrom when *T implements DeepSyncer[T], or when T
// itself is a non-nil pointer that implements it; otherwise *dst is replaced.
func Method[T DeepCloner[T]]() Cloner[T] {
	return methodCloner[T]{}
}

func (methodCloner[T]) Clone(src T) T {
	return src.DeepClone()
}

func (methodCloner[T]) CloneFrom(dst *T, src T) {
	if s, ok := any(dst).(DeepSyncer[T]); ok {
		s.DeepCloneFrom(src)
		return
	}
	if s, ok := any(*dst).(DeepSyncer[T]); ok && !isNilPointer(*dst) {
		// A nil source pointer cannot be synced into a live pointee.
		if isNilPointer(src) {
			*dst = src
			return
		}
		s.DeepCloneFrom(src)
		return
	}
	*dst = src.DeepClone()
}
