// Package deepclone provides deep copy of a value's whole ownership graph,
// plus in-place synchronisation that reuses the receiver's allocations.
//
// # Operations
//
// Every strategy implements the two halves of Cloner:
//
//   - Clone(src) builds an independent copy sharing no mutable state with src.
//   - CloneFrom(&dst, src) makes dst equal to src, reusing what dst already
//     owns wherever its structure is compatible.
//
// The second operation is what makes repeated syncing cheap: keeping a
// snapshot in step with live state allocates in proportion to how much the
// shape changed, not to the size of the state.
//
// # Basic Usage
//
//	type World struct {
//	    Tick      int
//	    Particles []Particle
//	    Index     map[string]int
//	}
//
//	snapshot := deepclone.Clone(world)
//	for step := 0; step < steps; step++ {
//	    world.Step()
//	    deepclone.CloneFrom(&snapshot, world)
//	}
//
// Clone and CloneFrom use a reflection plan compiled once per type and
// cached. Explicit strategies compose without reflection:
//
//	c := deepclone.Slice(deepclone.Pointer(deepclone.Method[Particle]()))
//
// # Adapters
//
//   - Scalar, Value: leaf types where assignment is a deep copy
//   - Pointer: single-owner boxes, cloned into new allocations
//   - SharedOf: reference-counted Shared handles, cloned into new cells
//   - GuardedOf: mutex-guarded values, synced under both locks
//   - Slice: position-by-position reuse, allocating only for growth
//   - Map, Set: key-matched reuse, or Rebuild for clear-and-repopulate
//   - Method: types implementing DeepCloner (and optionally DeepSyncer)
//   - Through: round trip through a Codec for opaque types
//
// # Struct Tags
//
//	clone:"-"        - zero in clones, left untouched by CloneFrom
//	clone:"shallow"  - copied by assignment
//
// # Failure
//
// Only two adapters can fail. A poisoned Guarded raises a *PoisonError
// panic, and a failing codec inside Through raises a *CodecError panic.
// Neither is recovered inside the package; use Recover at the caller's
// boundary to turn them back into errors. Cyclic graphs are not supported,
// and shared structure is never preserved: every clone is independent.
package deepclone

import (
	"reflect"

	"github.com/zoobzio/sentinel"
)

// reflectCloner is the Cloner backed by a compiled reflection plan.
type reflectCloner[T any] struct {
	plan *plan
}

// Of returns the reflection-based Cloner for T. Plans are compiled on first
// use and cached per type and options.
//
// Types implementing DeepCloner are cloned through their own methods.
// Unexported struct fields are cloned like exported ones. Channels,
// functions, unsafe pointers, time.Time and *time.Location are shared by
// reference. Pointers are never written through by CloneFrom: each is
// replaced with a fresh clone of the source pointee.
func Of[T any](opts ...Option) Cloner[T] {
	o := applyOptions(opts)
	t := reflect.TypeFor[T]()
	if _, ok := lookupPlan(t, o); !ok && t.Kind() == reflect.Struct {
		// Registers T's tag metadata for the plan compiler.
		sentinel.Scan[T]()
	}
	return reflectCloner[T]{plan: planFor(t, o)}
}

func (c reflectCloner[T]) Clone(src T) T {
	var out T
	res := c.plan.clone(reflect.ValueOf(&src).Elem())
	reflect.ValueOf(&out).Elem().Set(res)
	return out
}

func (c reflectCloner[T]) CloneFrom(dst *T, src T) {
	c.plan.cloneFrom(reflect.ValueOf(dst).Elem(), reflect.ValueOf(&src).Elem())
}

// Clone returns a deep clone of v using the cached reflection plan for T.
func Clone[T any](v T) T {
	return Of[T]().Clone(v)
}

// CloneFrom overwrites *dst so it equals src, reusing *dst's allocations
// where possible. It uses the cached reflection plan for T.
func CloneFrom[T any](dst *T, src T) {
	Of[T]().CloneFrom(dst, src)
}
