package deepclone

import (
	"context"
	"reflect"
	"sync"
	"time"
)

// registryKey combines type and options for plan lookup.
type registryKey struct {
	typ  reflect.Type
	opts options
}

var (
	registry   = make(map[registryKey]*plan)
	registryMu sync.RWMutex
)

// planFor returns the cached plan for t or compiles one.
func planFor(t reflect.Type, o options) *plan {
	// Fast path: read-lock cache check
	if cached, ok := lookupPlan(t, o); ok {
		return cached
	}

	// Slow path: compile and cache with write-lock
	registryMu.Lock()

	// Double-check pattern
	if cached, ok := cachedPlan(t, o); ok {
		registryMu.Unlock()
		return cached
	}

	start := time.Now()
	c := &compiler{opts: o, plans: make(map[reflect.Type]*plan)}
	p := c.compile(t)

	// Nested plans compiled along the way are cached too.
	for typ, np := range c.plans {
		k := registryKey{typ: typ, opts: o}
		if _, ok := registry[k]; !ok {
			registry[k] = np
		}
	}
	registryMu.Unlock()

	// Emitted outside the lock so listeners may clone.
	emitPlanBuilt(context.Background(), t.String(), time.Since(start))
	return p
}

// lookupPlan reports whether a plan for t is already cached.
func lookupPlan(t reflect.Type, o options) (*plan, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return cachedPlan(t, o)
}

// cachedPlan looks t up in the registry. The caller must hold registryMu.
func cachedPlan(t reflect.Type, o options) (*plan, bool) {
	p, ok := registry[registryKey{typ: t, opts: o}]
	return p, ok
}

// Reset clears the plan registry.
// This is primarily useful for test isolation.
func Reset() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[registryKey]*plan)
}
