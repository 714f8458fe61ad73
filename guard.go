package deepclone

import (
	"context"
	"reflect"
	"sync"
	"sync/atomic"
)

// guardSeq hands out stable identities used to order two-lock acquisition.
var guardSeq atomic.Uint64

// Guarded is a value protected by a mutex. All access is serialized.
//
// A panic raised while the lock is held through With poisons the guard:
// the value may be half-written and can no longer be trusted. A poisoned
// guard still locks, but Lock and With report a *PoisonError, and cloning
// through it panics with one.
//
// The zero value is an unlocked guard holding the zero T.
type Guarded[T any] struct {
	mu       sync.Mutex
	value    T
	poisoned atomic.Bool
	seq      atomic.Uint64
}

// NewGuarded returns a guard holding v.
func NewGuarded[T any](v T) *Guarded[T] {
	g := &Guarded[T]{value: v}
	g.id()
	return g
}

// id returns the guard's ordering identity, assigning one on first use.
func (g *Guarded[T]) id() uint64 {
	if id := g.seq.Load(); id != 0 {
		return id
	}
	g.seq.CompareAndSwap(0, guardSeq.Add(1))
	return g.seq.Load()
}

// Lock acquires the guard and returns a pointer to the interior. The caller
// must call Unlock, including when the returned error is a *PoisonError.
func (g *Guarded[T]) Lock() (*T, error) {
	g.mu.Lock()
	if g.poisoned.Load() {
		return &g.value, newPoisonError(guardTypeName[T]())
	}
	return &g.value, nil
}

// Unlock releases the guard.
func (g *Guarded[T]) Unlock() {
	g.mu.Unlock()
}

// With runs fn with the interior while holding the lock. If the guard is
// poisoned fn is not run and a *PoisonError is returned. If fn panics the
// guard is poisoned and the panic continues.
func (g *Guarded[T]) With(fn func(*T)) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.poisoned.Load() {
		return newPoisonError(guardTypeName[T]())
	}
	defer func() {
		if r := recover(); r != nil {
			g.poison()
			panic(r)
		}
	}()
	fn(&g.value)
	return nil
}

// Get returns a shallow copy of the interior.
func (g *Guarded[T]) Get() (T, error) {
	var out T
	err := g.With(func(v *T) { out = *v })
	return out, err
}

// Set replaces the interior.
func (g *Guarded[T]) Set(v T) error {
	return g.With(func(p *T) { *p = v })
}

// IsPoisoned reports whether a panic poisoned the guard.
func (g *Guarded[T]) IsPoisoned() bool {
	return g.poisoned.Load()
}

// ClearPoison marks the guard as trusted again. Call it only after
// restoring the interior to a consistent state.
func (g *Guarded[T]) ClearPoison() {
	g.poisoned.Store(false)
}

func (g *Guarded[T]) poison() {
	if g.poisoned.CompareAndSwap(false, true) {
		emitGuardPoisoned(context.Background(), guardTypeName[T]())
	}
}

// DeepClone implements DeepCloner using the reflection cloner for T.
func (g *Guarded[T]) DeepClone() *Guarded[T] {
	return GuardedOf(Of[T]()).Clone(g)
}

// DeepCloneFrom implements DeepSyncer using the reflection cloner for T.
func (g *Guarded[T]) DeepCloneFrom(src *Guarded[T]) {
	dst := g
	GuardedOf(Of[T]()).CloneFrom(&dst, src)
}

func guardTypeName[T any]() string {
	return "Guarded[" + reflect.TypeFor[T]().String() + "]"
}

// guardedCloner clones mutex-guarded values.
type guardedCloner[T any] struct {
	elem Cloner[T]
}

// GuardedOf returns a Cloner for *Guarded[T].
//
// Clone holds the source lock while deep cloning the interior and wraps the
// result in a new guard. CloneFrom holds both locks, taken in a stable
// global order so that syncs running in opposite directions cannot
// deadlock, and syncs the interiors in place; the receiving guard and its
// interior allocations are kept. Syncing a guard from itself is a no-op.
//
// A poisoned guard on either side panics with a *PoisonError. The failure
// is not recovered or retried here. A panic raised by the element cloner
// mid-operation poisons the guards whose contents it was touching.
func GuardedOf[T any](elem Cloner[T]) Cloner[*Guarded[T]] {
	return guardedCloner[T]{elem: elem}
}

func (c guardedCloner[T]) Clone(src *Guarded[T]) *Guarded[T] {
	if src == nil {
		return nil
	}
	src.mu.Lock()
	if src.poisoned.Load() {
		src.mu.Unlock()
		invalidGuard[T]("clone")
	}
	var out T
	func() {
		defer func() {
			if r := recover(); r != nil {
				src.poison()
				src.mu.Unlock()
				panic(r)
			}
		}()
		out = c.elem.Clone(src.value)
	}()
	src.mu.Unlock()
	return NewGuarded(out)
}

func (c guardedCloner[T]) CloneFrom(dst **Guarded[T], src *Guarded[T]) {
	d := *dst
	if d == nil || src == nil {
		*dst = c.Clone(src)
		return
	}
	if d == src {
		// Locking the same guard twice would deadlock; it already equals itself.
		if d.poisoned.Load() {
			invalidGuard[T]("clone_from")
		}
		return
	}

	first, second := d, src
	if second.id() < first.id() {
		first, second = second, first
	}
	first.mu.Lock()
	second.mu.Lock()
	if d.poisoned.Load() || src.poisoned.Load() {
		second.mu.Unlock()
		first.mu.Unlock()
		invalidGuard[T]("clone_from")
	}
	defer func() {
		if r := recover(); r != nil {
			d.poison()
			src.poison()
			second.mu.Unlock()
			first.mu.Unlock()
			panic(r)
		}
		second.mu.Unlock()
		first.mu.Unlock()
	}()
	c.elem.CloneFrom(&d.value, src.value)
}

// invalidGuard raises the resource-invalidated failure for op.
func invalidGuard[T any](op string) {
	name := guardTypeName[T]()
	err := newPoisonError(name)
	emitGuardInvalid(context.Background(), name, op, err)
	panic(err)
}
