package intake

// Merge deep-merges src into dst and returns dst:
//
//   - empty incoming values (null, blank string, [] or {}) are skipped
//   - a key missing or empty in dst takes a copy of the incoming value
//   - two arrays union, appending src items not already in dst by value
//   - two objects merge recursively
//   - anything else keeps the dst value: the first writer wins
//
// src is never aliased by dst.
func Merge(dst, src *Object) *Object {
	for _, f := range src.Fields() {
		in := f.Value
		if in.IsEmpty() {
			continue
		}
		cur, ok := dst.Get(f.Key)
		if !ok || cur.IsEmpty() {
			dst.Set(f.Key, in.Clone())
			continue
		}
		switch {
		case cur.Kind() == KindArray && in.Kind() == KindArray:
			dst.Set(f.Key, union(cur, in))
		case cur.Kind() == KindObject && in.Kind() == KindObject:
			Merge(cur.Object(), in.Object())
		}
	}
	return dst
}

// union appends the items of b missing from a, preserving first-seen order.
func union(a, b Value) Value {
	items := append([]Value(nil), a.Items()...)
	for _, it := range b.Items() {
		if !containsValue(items, it) {
			items = append(items, it.Clone())
		}
	}
	return Array(items...)
}

func containsValue(items []Value, v Value) bool {
	for _, it := range items {
		if it.Equal(v) {
			return true
		}
	}
	return false
}

// Reconcile merges fragments in argument order into a fresh aggregate.
// Callers must pass fragments in a fixed order since scalar conflicts favour
// earlier fragments.
func Reconcile(fragments ...*Object) *Object {
	agg := &Object{}
	for _, frag := range fragments {
		Merge(agg, frag)
	}
	return agg
}
