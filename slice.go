package deepclone

import "unsafe"

// sliceCloner clones ordered sequences element by element.
type sliceCloner[E any] struct {
	elem Cloner[E]
}

// Slice returns a Cloner for []E.
//
// Clone builds a new slice of the same length from element clones; nil
// clones to nil. CloneFrom walks both slices in lockstep: elements present
// in both are synced in place with elem.CloneFrom, so their storage and
// everything they own is reused. A longer receiver is truncated, with the
// dropped tail zeroed; a shorter one is extended with clones of the
// remaining source elements. The backing array is kept whenever
// len(src) <= cap(*dst), so allocation is proportional to growth only.
// A receiver sharing its backing array with src gets a new one.
func Slice[E any](elem Cloner[E]) Cloner[[]E] {
	return sliceCloner[E]{elem: elem}
}

func (c sliceCloner[E]) Clone(src []E) []E {
	if src == nil {
		return nil
	}
	out := make([]E, len(src))
	for i := range src {
		out[i] = c.elem.Clone(src[i])
	}
	return out
}

func (c sliceCloner[E]) CloneFrom(dst *[]E, src []E) {
	if src == nil {
		*dst = nil
		return
	}
	d := *dst
	if d == nil || overlaps(d, src) {
		d = make([]E, 0, len(src))
	}

	common := min(len(d), len(src))
	for i := 0; i < common; i++ {
		c.elem.CloneFrom(&d[i], src[i])
	}

	if len(d) > len(src) {
		clear(d[len(src):])
		*dst = d[:len(src)]
		return
	}
	for _, v := range src[common:] {
		d = append(d, c.elem.Clone(v))
	}
	*dst = d
}

// overlaps reports whether a and b share backing storage.
func overlaps[E any](a, b []E) bool {
	var zero E
	size := unsafe.Sizeof(zero)
	if cap(a) == 0 || cap(b) == 0 || size == 0 {
		return false
	}
	aStart := uintptr(unsafe.Pointer(unsafe.SliceData(a)))
	bStart := uintptr(unsafe.Pointer(unsafe.SliceData(b)))
	return aStart < bStart+uintptr(cap(b))*size && bStart < aStart+uintptr(cap(a))*size
}
