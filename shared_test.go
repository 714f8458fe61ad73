package deepclone_test

import (
	"testing"

	"github.com/zoobzio/deepclone"
	clonetest "github.com/zoobzio/deepclone/testing"
)

func TestShared_Handles(t *testing.T) {
	s := deepclone.NewShared([]int{1, 2})
	alias := s.Share()

	if !s.Aliases(alias) {
		t.Error("Share() should return a handle to the same cell")
	}
	if s.Refs() != 2 {
		t.Errorf("Refs() = %d, want 2", s.Refs())
	}

	(*alias.Ptr())[0] = 9
	if s.Get()[0] != 9 {
		t.Error("handles should observe the same value")
	}

	if alias.Release() {
		t.Error("Release() should not report the last reference while s is live")
	}
	if alias.Release() {
		t.Error("second Release() on one handle should be a no-op")
	}
	if !s.Release() {
		t.Error("Release() of the final handle should report true")
	}
}

func TestSharedOf_Clone_BreaksAliasing(t *testing.T) {
	c := deepclone.SharedOf(deepclone.Slice(deepclone.Scalar[int]()))
	src := deepclone.NewShared([]int{1, 2, 3})
	other := src.Share()

	clone := c.Clone(src)

	if clone.Aliases(src) || clone.Aliases(other) {
		t.Error("Clone() should allocate a new cell")
	}
	if clone.Refs() != 1 {
		t.Errorf("clone Refs() = %d, want 1", clone.Refs())
	}
	if src.Refs() != 2 {
		t.Errorf("source Refs() = %d, want 2", src.Refs())
	}
	if clonetest.SliceData(clone.Get()) == clonetest.SliceData(src.Get()) {
		t.Error("Clone() should deep clone the shared value")
	}
	if got := clone.Get(); len(got) != 3 || got[2] != 3 {
		t.Errorf("clone value = %v, want [1 2 3]", got)
	}
}

func TestSharedOf_CloneFrom(t *testing.T) {
	c := deepclone.SharedOf(deepclone.Value[string]())
	dst := deepclone.NewShared("old")
	keep := dst.Share()

	c.CloneFrom(&dst, deepclone.NewShared("new"))

	if dst.Get() != "new" {
		t.Errorf("CloneFrom() value = %q, want %q", dst.Get(), "new")
	}
	if keep.Get() != "old" {
		t.Error("CloneFrom() should not write through to other owners of the old cell")
	}
}

func TestSharedOf_Nil(t *testing.T) {
	c := deepclone.SharedOf(deepclone.Scalar[int]())
	if c.Clone(nil) != nil {
		t.Error("Clone(nil) should be nil")
	}
}

func TestShared_DeepClone(t *testing.T) {
	src := deepclone.NewShared(map[string][]int{"a": {1}})

	clone := src.DeepClone()

	if clone.Aliases(src) {
		t.Error("DeepClone() should allocate a new cell")
	}
	clone.Get()["a"][0] = 2
	if src.Get()["a"][0] != 1 {
		t.Error("DeepClone() should deep clone the value")
	}
}
