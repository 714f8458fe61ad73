package deepclone

import "reflect"

// mapCloner clones unordered key-value maps.
type mapCloner[K comparable, V any] struct {
	key Cloner[K]
	val Cloner[V]
	cfg mapConfig
}

// Map returns a Cloner for map[K]V.
//
// Clone clones every key and value into a new map; nil clones to nil.
// CloneFrom matches entries by key: keys absent from src are deleted,
// values under matching keys are synced in place with val.CloneFrom and
// stored back, and new keys are inserted as clones. With Rebuild, the
// receiver is cleared and repopulated instead. Either way the result is
// element-wise equal to src. A receiver holding a key that is not equal to
// itself, such as a NaN, is always rebuilt. A receiver that is the same map
// as src is replaced with a clone.
func Map[K comparable, V any](key Cloner[K], val Cloner[V], opts ...MapOption) Cloner[map[K]V] {
	return mapCloner[K, V]{key: key, val: val, cfg: applyMapOptions(opts)}
}

func (c mapCloner[K, V]) Clone(src map[K]V) map[K]V {
	if src == nil {
		return nil
	}
	out := make(map[K]V, len(src))
	for k, v := range src {
		out[c.key.Clone(k)] = c.val.Clone(v)
	}
	return out
}

func (c mapCloner[K, V]) CloneFrom(dst *map[K]V, src map[K]V) {
	d := *dst
	if src == nil || d == nil || sameMap(d, src) {
		*dst = c.Clone(src)
		return
	}
	if c.cfg.rebuild {
		c.rebuild(d, src)
		return
	}

	for k := range d {
		if k != k {
			// NaN keys can be neither matched nor deleted.
			c.rebuild(d, src)
			return
		}
		if _, ok := src[k]; !ok {
			delete(d, k)
		}
	}
	for k, v := range src {
		existing, ok := d[k]
		if !ok {
			d[c.key.Clone(k)] = c.val.Clone(v)
			continue
		}
		c.val.CloneFrom(&existing, v)
		d[k] = existing
	}
}

func sameMap[K comparable, V any](a, b map[K]V) bool {
	return reflect.ValueOf(a).UnsafePointer() == reflect.ValueOf(b).UnsafePointer()
}

func (c mapCloner[K, V]) rebuild(d, src map[K]V) {
	clear(d)
	for k, v := range src {
		d[c.key.Clone(k)] = c.val.Clone(v)
	}
}

// Set returns a Cloner for sets represented as map[K]struct{}.
// Matched members are kept as they are; the rest behaves like Map.
func Set[K comparable](key Cloner[K], opts ...MapOption) Cloner[map[K]struct{}] {
	return mapCloner[K, struct{}]{key: key, val: Value[struct{}](), cfg: applyMapOptions(opts)}
}
