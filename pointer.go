package deepclone

// pointerCloner clones a single-owner box.
type pointerCloner[E any] struct {
	elem Cloner[E]
}

// Pointer returns a Cloner for *E. Clone allocates a new E holding a deep
// clone of the pointee, so the result never aliases the source. nil clones
// to nil. CloneFrom replaces the pointer with a fresh clone.
func Pointer[E any](elem Cloner[E]) Cloner[*E] {
	return pointerCloner[E]{elem: elem}
}

func (c pointerCloner[E]) Clone(src *E) *E {
	if src == nil {
		return nil
	}
	v := c.elem.Clone(*src)
	return &v
}

func (c pointerCloner[E]) CloneFrom(dst **E, src *E) {
	*dst = c.Clone(src)
}
