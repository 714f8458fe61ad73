// Package testing provides test utilities for deepclone: fixtures,
// assertions over the clone contract, and backing-identity probes.
package testing

import (
	"fmt"
	stdtesting "testing"
	"unsafe"

	"github.com/google/go-cmp/cmp"
	"github.com/zoobzio/deepclone"
)

// SliceData returns the identity of s's backing array, or 0 for a nil or
// zero-capacity slice.
func SliceData[E any](s []E) uintptr {
	if cap(s) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(s)))
}

// Addr returns the identity of the value p points to.
func Addr[T any](p *T) uintptr {
	return uintptr(unsafe.Pointer(p))
}

// AssertClone checks that c.Clone(v) equals v and that cloning the clone is
// idempotent.
func AssertClone[T any](tb stdtesting.TB, c deepclone.Cloner[T], v T, opts ...cmp.Option) T {
	tb.Helper()
	clone := c.Clone(v)
	if diff := cmp.Diff(v, clone, opts...); diff != "" {
		tb.Errorf("Clone() mismatch (-want +got):\n%s", diff)
	}
	again := c.Clone(clone)
	if diff := cmp.Diff(clone, again, opts...); diff != "" {
		tb.Errorf("Clone(Clone()) mismatch (-want +got):\n%s", diff)
	}
	return clone
}

// AssertCloneFrom runs c.CloneFrom(dst, src) and checks that *dst equals
// src afterwards. The probe, when non-nil, captures backing identities that
// must be unchanged by the call.
func AssertCloneFrom[T any](tb stdtesting.TB, c deepclone.Cloner[T], dst *T, src T, probe func(T) []uintptr, opts ...cmp.Option) {
	tb.Helper()
	var before []uintptr
	if probe != nil {
		before = probe(*dst)
	}
	c.CloneFrom(dst, src)
	if diff := cmp.Diff(src, *dst, opts...); diff != "" {
		tb.Errorf("CloneFrom() mismatch (-want +got):\n%s", diff)
	}
	if probe != nil {
		if diff := cmp.Diff(before, probe(*dst)); diff != "" {
			tb.Errorf("CloneFrom() reallocated reused storage (-before +after):\n%s", diff)
		}
	}
}

// Vec2 is a plain value leaf.
type Vec2 struct {
	X, Y float64
}

// Particle is a fixture owning a slice.
type Particle struct {
	ID    int
	Pos   Vec2
	Trail []Vec2
}

// DeepClone implements deepclone.DeepCloner[Particle].
func (p Particle) DeepClone() Particle {
	out := p
	if p.Trail != nil {
		out.Trail = append(make([]Vec2, 0, len(p.Trail)), p.Trail...)
	}
	return out
}

// DeepCloneFrom implements deepclone.DeepSyncer[Particle], reusing the
// receiver's trail storage.
func (p *Particle) DeepCloneFrom(src Particle) {
	trail := p.Trail
	*p = src
	if src.Trail == nil {
		p.Trail = nil
		return
	}
	p.Trail = append(trail[:0], src.Trail...)
}

// World is a fixture with nested slices, maps, and pointers.
type World struct {
	Tick      int
	Particles []Particle
	Index     map[string]int
	Tags      map[string][]string
	Origin    *Vec2
}

// NewWorld returns a World with n particles, each with a short trail.
func NewWorld(n int) World {
	w := World{
		Particles: make([]Particle, n),
		Index:     make(map[string]int, n),
		Tags:      make(map[string][]string),
		Origin:    &Vec2{},
	}
	for i := range w.Particles {
		w.Particles[i] = Particle{
			ID:    i,
			Pos:   Vec2{X: float64(i), Y: float64(-i)},
			Trail: []Vec2{{X: float64(i)}, {Y: float64(i)}},
		}
		w.Index[fmt.Sprintf("p%d", i)] = i
	}
	w.Tags["even"] = []string{}
	for i := 0; i < n; i += 2 {
		w.Tags["even"] = append(w.Tags["even"], fmt.Sprintf("p%d", i))
	}
	return w
}

// Step advances w by one tick, moving every particle and extending its
// trail up to a bounded length.
func (w *World) Step() {
	w.Tick++
	for i := range w.Particles {
		p := &w.Particles[i]
		p.Pos.X += 1
		p.Pos.Y += 0.5
		p.Trail = append(p.Trail, p.Pos)
		if len(p.Trail) > 8 {
			p.Trail = append(p.Trail[:0], p.Trail[len(p.Trail)-8:]...)
		}
	}
	w.Origin.X = float64(w.Tick)
}
