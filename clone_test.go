package deepclone_test

import (
	"testing"

	"github.com/zoobzio/deepclone"
	clonetest "github.com/zoobzio/deepclone/testing"
)

// buffer implements only DeepClone.
type buffer struct {
	data []byte
}

func (b buffer) DeepClone() buffer {
	return buffer{data: append([]byte(nil), b.data...)}
}

// node implements both halves on the pointer.
type node struct {
	Label string
	Items []int
}

func (n *node) DeepClone() *node {
	if n == nil {
		return nil
	}
	return &node{Label: n.Label, Items: append([]int(nil), n.Items...)}
}

func (n *node) DeepCloneFrom(src *node) {
	n.Label = src.Label
	n.Items = append(n.Items[:0], src.Items...)
}

func TestFunc(t *testing.T) {
	calls := 0
	c := deepclone.Func(func(v []int) []int {
		calls++
		return append([]int(nil), v...)
	})

	dst := []int{9}
	clonetest.AssertCloneFrom(t, c, &dst, []int{1, 2}, nil)

	if calls != 1 {
		t.Errorf("default CloneFrom() should call clone once, got %d", calls)
	}
}

func TestFuncFrom(t *testing.T) {
	synced := false
	c := deepclone.FuncFrom(
		func(v int) int { return v },
		func(dst *int, src int) { synced = true; *dst = src },
	)

	x := 1
	c.CloneFrom(&x, 2)

	if !synced || x != 2 {
		t.Errorf("FuncFrom() CloneFrom should use the supplied function, x = %d", x)
	}
}

func TestMethod_CloneOnly(t *testing.T) {
	c := deepclone.Method[buffer]()
	src := buffer{data: []byte("abc")}

	clone := c.Clone(src)
	clone.data[0] = 'z'
	if src.data[0] != 'a' {
		t.Error("Clone() should use DeepClone")
	}

	dst := buffer{data: []byte("old")}
	c.CloneFrom(&dst, src)
	if string(dst.data) != "abc" {
		t.Errorf("CloneFrom() = %q, want %q", dst.data, "abc")
	}
}

func TestMethod_ValueSyncer(t *testing.T) {
	c := deepclone.Method[clonetest.Particle]()
	dst := clonetest.Particle{Trail: make([]clonetest.Vec2, 4)}
	src := clonetest.Particle{ID: 3, Trail: []clonetest.Vec2{{X: 1}}}

	clonetest.AssertCloneFrom(t, c, &dst, src, func(p clonetest.Particle) []uintptr {
		return []uintptr{clonetest.SliceData(p.Trail)}
	})
}

func TestMethod_PointerSyncer(t *testing.T) {
	c := deepclone.Method[*node]()
	dst := &node{Label: "old", Items: make([]int, 3)}
	keep := dst
	before := clonetest.SliceData(dst.Items)

	c.CloneFrom(&dst, &node{Label: "new", Items: []int{1}})

	if dst != keep {
		t.Error("CloneFrom() should sync the existing pointee in place")
	}
	if dst.Label != "new" || clonetest.SliceData(dst.Items) != before {
		t.Errorf("CloneFrom() = %+v, want in-place sync", dst)
	}
}

func TestMethod_PointerSyncer_Nil(t *testing.T) {
	c := deepclone.Method[*node]()

	var dst *node
	c.CloneFrom(&dst, &node{Label: "a"})
	if dst == nil || dst.Label != "a" {
		t.Fatalf("CloneFrom() into nil = %+v", dst)
	}

	c.CloneFrom(&dst, nil)
	if dst != nil {
		t.Errorf("CloneFrom(nil) = %+v, want nil", dst)
	}
}
