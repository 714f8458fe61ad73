package deepclone

// Number is the set of fixed-width numeric leaf types. A value copy of any
// of them is already a deep copy. Go has no 128-bit integers, so complex128
// is the widest member.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64 |
		~complex64 | ~complex128
}

// valueCloner is the leaf cloner: Clone is assignment.
type valueCloner[T any] struct{}

func (valueCloner[T]) Clone(src T) T {
	return src
}

func (valueCloner[T]) CloneFrom(dst *T, src T) {
	*dst = src
}

// Scalar returns the Cloner for a numeric leaf type.
func Scalar[T Number]() Cloner[T] {
	return valueCloner[T]{}
}

// Value returns a leaf Cloner for any T whose value copy is a deep copy,
// such as string, bool, time.Time, or a struct holding only such fields.
// The caller asserts that T holds no mutable references; a T containing a
// pointer, slice, or map would be shallow-copied.
func Value[T any]() Cloner[T] {
	return valueCloner[T]{}
}
