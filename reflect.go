package deepclone

import (
	"reflect"
	"time"
	"unsafe"

	"github.com/zoobzio/sentinel"
)

func init() {
	// Register the clone directive tag with sentinel
	sentinel.Tag(DefaultTagName)
}

// plan describes how to deep clone values of one type via reflection.
// Plans are immutable once compiled and safe for concurrent use.
type plan struct {
	typ reflect.Type

	// leaf is true when assignment is already a deep copy.
	leaf bool

	// clone returns a new value of typ equal to src.
	clone func(src reflect.Value) reflect.Value

	// cloneFrom overwrites the settable dst so that it equals src.
	cloneFrom func(dst, src reflect.Value)
}

// fieldPlan describes how to handle a single struct field.
type fieldPlan struct {
	index    int    // reflect.Value.Field access index
	name     string // field name for diagnostics
	skip     bool   // clone:"-"
	shallow  bool   // clone:"shallow"
	exported bool   // unexported fields are reached through unsafe
	plan     *plan
}

// field returns fp's field of the addressable struct v. Unexported fields
// are returned settable.
func (fp *fieldPlan) field(v reflect.Value) reflect.Value {
	f := v.Field(fp.index)
	if fp.exported {
		return f
	}
	return reflect.NewAt(f.Type(), unsafe.Pointer(f.UnsafeAddr())).Elem()
}

// opaqueTypes are copied by assignment even though they hold pointers.
// A time.Time carries a *time.Location whose identity must survive.
var opaqueTypes = map[reflect.Type]bool{
	reflect.TypeFor[time.Time]():      true,
	reflect.TypeFor[*time.Location](): true,
}

// compiler builds plans for one registry miss. Plans under construction are
// kept in plans so recursive types resolve to the same plan.
type compiler struct {
	opts  options
	plans map[reflect.Type]*plan
}

// Method names of the DeepCloner and DeepSyncer contracts.
const (
	methodDeepClone     = "DeepClone"
	methodDeepCloneFrom = "DeepCloneFrom"
)

func (c *compiler) compile(t reflect.Type) *plan {
	if p, ok := c.plans[t]; ok {
		return p
	}
	if p, ok := cachedPlan(t, c.opts); ok {
		return p
	}

	p := &plan{typ: t}
	c.plans[t] = p

	if opaqueTypes[t] {
		c.compileLeaf(p)
		return p
	}
	if c.compileMethod(p) {
		return p
	}

	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128,
		reflect.String:
		c.compileLeaf(p)
	case reflect.Chan, reflect.Func, reflect.UnsafePointer:
		// Opaque handles are shared by reference.
		c.compileLeaf(p)
	case reflect.Pointer:
		c.compilePointer(p)
	case reflect.Slice:
		c.compileSlice(p)
	case reflect.Array:
		c.compileArray(p)
	case reflect.Map:
		c.compileMap(p)
	case reflect.Struct:
		c.compileStruct(p)
	case reflect.Interface:
		c.compileInterface(p)
	default:
		c.compileLeaf(p)
	}
	return p
}

func (c *compiler) compileLeaf(p *plan) {
	p.leaf = true
	p.clone = func(src reflect.Value) reflect.Value {
		return src
	}
	p.cloneFrom = func(dst, src reflect.Value) {
		dst.Set(src)
	}
}

// compileMethod wires types that implement DeepCloner themselves, either on
// the value (DeepClone() T) or, for structs, on the pointer
// (DeepClone() *T, as Guarded and Shared do). DeepCloneFrom is honoured
// when present.
func (c *compiler) compileMethod(p *plan) bool {
	t := p.typ
	if t.Kind() == reflect.Interface {
		return false
	}

	if m, ok := t.MethodByName(methodDeepClone); ok && returnsSelf(m.Type, t) {
		idx := m.Index
		isPtr := t.Kind() == reflect.Pointer
		p.clone = func(src reflect.Value) reflect.Value {
			if isPtr && src.IsNil() {
				return reflect.Zero(t)
			}
			return src.Method(idx).Call(nil)[0]
		}
		p.cloneFrom = c.syncMethod(t, p.clone)
		return true
	}

	pt := reflect.PointerTo(t)
	if t.Kind() != reflect.Struct {
		return false
	}
	m, ok := pt.MethodByName(methodDeepClone)
	if !ok || !returnsSelf(m.Type, pt) {
		return false
	}
	idx := m.Index
	p.clone = func(src reflect.Value) reflect.Value {
		return addressable(src).Addr().Method(idx).Call(nil)[0].Elem()
	}
	if s, ok := pt.MethodByName(methodDeepCloneFrom); ok && takesSelf(s.Type, pt) {
		sidx := s.Index
		p.cloneFrom = func(dst, src reflect.Value) {
			dst.Addr().Method(sidx).Call([]reflect.Value{addressable(src).Addr()})
		}
	} else {
		clone := p.clone
		p.cloneFrom = func(dst, src reflect.Value) {
			dst.Set(clone(src))
		}
	}
	return true
}

// syncMethod returns the in-place half for a type with a DeepClone method.
func (c *compiler) syncMethod(t reflect.Type, clone func(reflect.Value) reflect.Value) func(dst, src reflect.Value) {
	if m, ok := reflect.PointerTo(t).MethodByName(methodDeepCloneFrom); ok && takesSelf(m.Type, t) {
		idx := m.Index
		return func(dst, src reflect.Value) {
			dst.Addr().Method(idx).Call([]reflect.Value{src})
		}
	}
	if t.Kind() == reflect.Pointer {
		if m, ok := t.MethodByName(methodDeepCloneFrom); ok && takesSelf(m.Type, t) {
			idx := m.Index
			return func(dst, src reflect.Value) {
				if dst.IsNil() || src.IsNil() {
					dst.Set(clone(src))
					return
				}
				dst.Method(idx).Call([]reflect.Value{src})
			}
		}
	}
	return func(dst, src reflect.Value) {
		dst.Set(clone(src))
	}
}

func (c *compiler) compilePointer(p *plan) {
	t := p.typ
	elem := c.compile(t.Elem())
	p.clone = func(src reflect.Value) reflect.Value {
		if src.IsNil() {
			return reflect.Zero(t)
		}
		out := reflect.New(t.Elem())
		out.Elem().Set(elem.clone(src.Elem()))
		return out
	}
	// The old pointee may be reachable through other pointers in dst, so
	// it is never written; CloneFrom installs a fresh box.
	clone := p.clone
	p.cloneFrom = func(dst, src reflect.Value) {
		dst.Set(clone(src))
	}
}

func (c *compiler) compileSlice(p *plan) {
	t := p.typ
	elem := c.compile(t.Elem())
	p.clone = func(src reflect.Value) reflect.Value {
		if src.IsNil() {
			return reflect.Zero(t)
		}
		n := src.Len()
		out := reflect.MakeSlice(t, n, n)
		if elem.leaf {
			reflect.Copy(out, src)
			return out
		}
		for i := 0; i < n; i++ {
			out.Index(i).Set(elem.clone(src.Index(i)))
		}
		return out
	}
	p.cloneFrom = func(dst, src reflect.Value) {
		if src.IsNil() {
			dst.SetZero()
			return
		}
		if dst.IsNil() || overlapsValue(dst, src) {
			dst.Set(reflect.MakeSlice(t, 0, src.Len()))
		}
		syncSlice(elem, dst, src)
	}
}

// overlapsValue reports whether slices a and b share backing storage.
func overlapsValue(a, b reflect.Value) bool {
	size := a.Type().Elem().Size()
	if a.Cap() == 0 || b.Cap() == 0 || size == 0 {
		return false
	}
	aStart, bStart := a.Pointer(), b.Pointer()
	return aStart < bStart+uintptr(b.Cap())*size && bStart < aStart+uintptr(a.Cap())*size
}

// syncSlice walks dst and src in lockstep, syncing the shared prefix in
// place, then truncates or extends dst to src's length.
func syncSlice(elem *plan, dst, src reflect.Value) {
	dn, sn := dst.Len(), src.Len()
	common := min(dn, sn)

	if elem.leaf {
		reflect.Copy(dst.Slice(0, common), src.Slice(0, common))
	} else {
		for i := 0; i < common; i++ {
			elem.cloneFrom(dst.Index(i), src.Index(i))
		}
	}

	if dn > sn {
		// Zero the tail so the truncated elements release what they hold.
		for i := sn; i < dn; i++ {
			dst.Index(i).SetZero()
		}
		dst.SetLen(sn)
		return
	}
	if elem.leaf {
		dst.Set(reflect.AppendSlice(dst, src.Slice(dn, sn)))
		return
	}
	for i := dn; i < sn; i++ {
		dst.Set(reflect.Append(dst, elem.clone(src.Index(i))))
	}
}

func (c *compiler) compileArray(p *plan) {
	t := p.typ
	elem := c.compile(t.Elem())
	if elem.leaf {
		c.compileLeaf(p)
		return
	}
	n := t.Len()
	p.clone = func(src reflect.Value) reflect.Value {
		out := reflect.New(t).Elem()
		for i := 0; i < n; i++ {
			out.Index(i).Set(elem.clone(src.Index(i)))
		}
		return out
	}
	p.cloneFrom = func(dst, src reflect.Value) {
		src = addressable(src)
		for i := 0; i < n; i++ {
			elem.cloneFrom(dst.Index(i), src.Index(i))
		}
	}
}

func (c *compiler) compileMap(p *plan) {
	t := p.typ
	key := c.compile(t.Key())
	val := c.compile(t.Elem())
	rebuild := c.opts.rebuild

	p.clone = func(src reflect.Value) reflect.Value {
		if src.IsNil() {
			return reflect.Zero(t)
		}
		out := reflect.MakeMapWithSize(t, src.Len())
		iter := src.MapRange()
		for iter.Next() {
			out.SetMapIndex(key.clone(iter.Key()), val.clone(iter.Value()))
		}
		return out
	}
	clone := p.clone
	p.cloneFrom = func(dst, src reflect.Value) {
		if src.IsNil() || dst.IsNil() || dst.UnsafePointer() == src.UnsafePointer() {
			dst.Set(clone(src))
			return
		}
		if rebuild {
			rebuildMap(key, val, dst, src)
			return
		}
		syncMap(key, val, dst, src)
	}
}

// rebuildMap clears dst and fills it with clones of src's entries.
func rebuildMap(key, val *plan, dst, src reflect.Value) {
	dst.Clear()
	iter := src.MapRange()
	for iter.Next() {
		dst.SetMapIndex(key.clone(iter.Key()), val.clone(iter.Value()))
	}
}

// syncMap matches entries by key: entries missing from src are deleted,
// matched values are synced in place, and new keys are inserted as clones.
// A receiver holding a key that is not equal to itself is rebuilt.
func syncMap(key, val *plan, dst, src reflect.Value) {
	var stale []reflect.Value
	iter := dst.MapRange()
	for iter.Next() {
		k := iter.Key()
		if !k.Equal(k) {
			// NaN keys can be neither matched nor deleted.
			rebuildMap(key, val, dst, src)
			return
		}
		if !src.MapIndex(k).IsValid() {
			stale = append(stale, k)
		}
	}
	for _, k := range stale {
		dst.SetMapIndex(k, reflect.Value{})
	}

	iter = src.MapRange()
	for iter.Next() {
		k, v := iter.Key(), iter.Value()
		existing := dst.MapIndex(k)
		if !existing.IsValid() {
			dst.SetMapIndex(key.clone(k), val.clone(v))
			continue
		}
		if val.leaf {
			dst.SetMapIndex(k, v)
			continue
		}
		// Map values are not addressable; sync a copy and store it back.
		tmp := reflect.New(val.typ).Elem()
		tmp.Set(existing)
		val.cloneFrom(tmp, v)
		dst.SetMapIndex(k, tmp)
	}
}

func (c *compiler) compileStruct(p *plan) {
	t := p.typ
	directives := c.fieldDirectives(t)

	fields := make([]fieldPlan, 0, t.NumField())
	leaf := true
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		fp := fieldPlan{index: i, name: sf.Name, exported: sf.IsExported()}
		switch directives[sf.Name] {
		case tagSkip:
			fp.skip = true
			leaf = false
		case tagShallow:
			fp.shallow = true
		default:
			fp.plan = c.compile(sf.Type)
		}
		fields = append(fields, fp)
	}

	// Leaf status of fields is only known once their plans are finished;
	// a plan still under construction is not a leaf.
	for _, fp := range fields {
		if fp.plan != nil && (fp.plan.clone == nil || !fp.plan.leaf) {
			leaf = false
		}
	}
	if leaf {
		c.compileLeaf(p)
		return
	}

	p.clone = func(src reflect.Value) reflect.Value {
		src = addressable(src)
		out := reflect.New(t).Elem()
		out.Set(src)
		for i := range fields {
			fp := &fields[i]
			switch {
			case fp.shallow:
			case fp.skip:
				fp.field(out).SetZero()
			case fp.plan.leaf:
				// Already copied with the struct.
			default:
				fp.field(out).Set(fp.plan.clone(fp.field(src)))
			}
		}
		return out
	}

	p.cloneFrom = func(dst, src reflect.Value) {
		src = addressable(src)
		for i := range fields {
			fp := &fields[i]
			switch {
			case fp.skip:
			case fp.shallow:
				fp.field(dst).Set(fp.field(src))
			default:
				fp.plan.cloneFrom(fp.field(dst), fp.field(src))
			}
		}
	}
}

// fieldDirectives returns the clone tag value of each tagged field.
// Metadata registered with sentinel is preferred; fields it does not
// describe, other tag names and unregistered types are read from the
// struct tags directly.
func (c *compiler) fieldDirectives(t reflect.Type) map[string]string {
	out := make(map[string]string, t.NumField())
	if c.opts.tagName == DefaultTagName {
		if meta, ok := sentinel.Lookup(t.String()); ok {
			for _, field := range meta.Fields {
				if val, ok := field.Tags[DefaultTagName]; ok {
					out[field.Name] = val
				}
			}
		}
	}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if _, ok := out[sf.Name]; ok {
			continue
		}
		if val, ok := sf.Tag.Lookup(c.opts.tagName); ok {
			out[sf.Name] = val
		}
	}
	return out
}

func (c *compiler) compileInterface(p *plan) {
	t := p.typ
	o := c.opts
	p.clone = func(src reflect.Value) reflect.Value {
		if src.IsNil() {
			return reflect.Zero(t)
		}
		concrete := src.Elem()
		dp := planFor(concrete.Type(), o)
		out := reflect.New(t).Elem()
		out.Set(dp.clone(concrete))
		return out
	}
	clone := p.clone
	p.cloneFrom = func(dst, src reflect.Value) {
		if dst.IsNil() || src.IsNil() || dst.Elem().Type() != src.Elem().Type() {
			dst.Set(clone(src))
			return
		}
		// The dynamic value is not addressable; sync a copy and store it back.
		dp := planFor(src.Elem().Type(), o)
		tmp := reflect.New(dp.typ).Elem()
		tmp.Set(dst.Elem())
		dp.cloneFrom(tmp, src.Elem())
		dst.Set(tmp)
	}
}

// returnsSelf reports whether a method type (receiver first) is func() t.
func returnsSelf(mt, t reflect.Type) bool {
	return mt.NumIn() == 1 && mt.NumOut() == 1 && mt.Out(0) == t
}

// takesSelf reports whether a method type (receiver first) is func(t).
func takesSelf(mt, t reflect.Type) bool {
	return mt.NumIn() == 2 && mt.NumOut() == 0 && mt.In(1) == t
}

// addressable returns v, or an addressable copy of v.
func addressable(v reflect.Value) reflect.Value {
	if v.CanAddr() {
		return v
	}
	out := reflect.New(v.Type()).Elem()
	out.Set(v)
	return out
}

// isNilPointer reports whether v is a nil pointer, map, slice, or similar.
func isNilPointer(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Chan, reflect.Func:
		return rv.IsNil()
	}
	return false
}
