package intake

// statusKey is the deceased-status flag. It is the only key kept when its
// value is null, so "status not set" survives next to a known date.
const statusKey = "status"

// Sanitize returns a normalized copy of v. Blank strings become null; object
// keys and array items that reduce to null, "", [] or {} are dropped, except
// a null status flag. Booleans and zero pass through. Sanitize is idempotent.
func Sanitize(v Value) Value {
	switch v.Kind() {
	case KindString:
		if v.IsEmpty() {
			return Null()
		}
		return v
	case KindArray:
		items := make([]Value, 0, len(v.Items()))
		for _, it := range v.Items() {
			s := Sanitize(it)
			if s.IsEmpty() {
				continue
			}
			items = append(items, s)
		}
		return Array(items...)
	case KindObject:
		return ObjectValue(SanitizeObject(v.Object()))
	}
	return v
}

// SanitizeObject is Sanitize for an object.
func SanitizeObject(o *Object) *Object {
	out := &Object{}
	for _, f := range o.Fields() {
		s := Sanitize(f.Value)
		if s.IsEmpty() && !(f.Key == statusKey && s.IsNull()) {
			continue
		}
		out.Set(f.Key, s)
	}
	return out
}
