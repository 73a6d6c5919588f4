package intake

import (
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/vivaneiona/genkit-intake/record"
)

const (
	keyID       = "id"
	keyName     = "name"
	keyGender   = "gender"
	keyMarital  = "marital_status"
	keyDeceased = "deceased"
	keyValue    = "value"
	keyUseFor   = "use_for"

	keyManagingOrg = "managing_organization"
)

var addressKeys = []string{"line", "city", "state", "postal_code", "country"}
var nameKeys = []string{"first_name", "last_name", "full_name"}
var organizationKeys = []string{"reference", "display"}

// telecomKinds maps each telecom list key to its use-context normalizer.
var telecomKinds = []struct {
	key       string
	normalize func(string) string
}{
	{"phones", func(s string) string { return string(record.NormalizePhoneUse(s)) }},
	{"emails", func(s string) string { return string(record.NormalizeEmailUse(s)) }},
	{"faxes", func(s string) string { return string(record.NormalizeFaxUse(s)) }},
}

// Assemble prunes a sanitized aggregate into a canonical record and validates
// it. It returns (nil, nil) when nothing about the subject was found. newID
// supplies the identifier when the aggregate has none; nil means uuid.
//
// The aggregate is not modified.
func Assemble(agg *Object, newID func() string) (*record.Patient, error) {
	if newID == nil {
		newID = uuid.NewString
	}
	obj := agg.Clone()

	ensureName(obj)
	pruneLanguages(obj)
	pruneTelecoms(obj)
	pruneAddresses(obj)
	pruneOtherNames(obj)
	pruneContacts(obj)
	if org, ok := obj.Get(keyManagingOrg); ok {
		stringifyNumbers(org.Object(), organizationKeys...)
	}
	foldEnum(obj, keyGender)
	foldEnum(obj, keyMarital)
	normalizeDeceased(obj)
	ensureName(obj)

	if !hasInformation(obj, keyID) {
		slog.Debug("Aggregate holds no subject information", "keys", obj.Keys())
		return nil, nil
	}
	if v, ok := obj.Get(keyID); !ok || v.Kind() != KindString || v.IsEmpty() {
		obj.Set(keyID, String(newID()))
	}

	payload, err := obj.MarshalJSON()
	if err != nil {
		return nil, &SchemaViolationError{Err: err}
	}
	p, err := record.DecodePatient(payload)
	if err != nil {
		slog.Debug("Assembled record rejected", "error", err, "payload", string(payload))
		return nil, &SchemaViolationError{Payload: payload, Err: err}
	}
	return p, nil
}

// hasInformation reports whether obj holds anything beyond placeholders and
// the "unknown" defaults the instructions ask the model to emit.
func hasInformation(obj *Object, ignore ...string) bool {
	for _, f := range obj.Fields() {
		if contains(ignore, f.Key) || isDefaultOnly(f.Key, f.Value) {
			continue
		}
		return true
	}
	return false
}

func isDefaultOnly(key string, v Value) bool {
	switch key {
	case keyName:
		return v.Object().Len() == 0
	case keyGender, keyMarital:
		return v.Kind() == KindString && v.Str() == "unknown"
	case keyDeceased:
		for _, f := range v.Object().Fields() {
			isUnset := f.Key == statusKey && (f.Value.IsNull() || (f.Value.Kind() == KindBool && !f.Value.Bool()))
			if !isUnset {
				return false
			}
		}
		return v.Kind() == KindObject
	}
	return false
}

// ensureName guarantees a name object. A bare string becomes the full name.
func ensureName(obj *Object) {
	v, ok := obj.Get(keyName)
	v = numberToString(v)
	switch {
	case ok && v.Kind() == KindObject:
		stringifyNumbers(v.Object(), nameKeys...)
	case ok && v.Kind() == KindString:
		obj.Set(keyName, Obj(F("full_name", v)))
	default:
		obj.Set(keyName, Obj())
	}
}

// setList stores items under key, or removes key when nothing survived.
func setList(obj *Object, key string, items []Value) {
	if len(items) == 0 {
		obj.Delete(key)
		return
	}
	obj.Set(key, Array(items...))
}

// listItems returns the items under key, treating a lone value as a list of
// one.
func listItems(obj *Object, key string) ([]Value, bool) {
	v, ok := obj.Get(key)
	if !ok {
		return nil, false
	}
	if v.Kind() == KindArray {
		return v.Items(), true
	}
	return []Value{v}, true
}

// entryWithValue returns item as an object with a non-empty string value, or
// false. Bare strings and numbers are lifted into {"value": ...}.
func entryWithValue(item Value) (*Object, bool) {
	switch item.Kind() {
	case KindString, KindNumber:
		item = Obj(F(keyValue, item))
	case KindObject:
	default:
		return nil, false
	}
	entry := item.Object()
	v, ok := entry.Get(keyValue)
	switch {
	case !ok || v.IsEmpty():
		return nil, false
	case v.Kind() == KindNumber:
		entry.Set(keyValue, String(string(v.Num())))
	case v.Kind() == KindString:
		entry.Set(keyValue, String(strings.TrimSpace(v.Str())))
	default:
		return nil, false
	}
	return entry, true
}

func pruneLanguages(obj *Object) {
	items, ok := listItems(obj, "languages")
	if !ok {
		return
	}
	var kept []Value
	for _, it := range items {
		if entry, ok := entryWithValue(it); ok {
			kept = append(kept, ObjectValue(entry))
		}
	}
	setList(obj, "languages", kept)
}

func pruneTelecoms(obj *Object) {
	for _, tk := range telecomKinds {
		items, ok := listItems(obj, tk.key)
		if !ok {
			continue
		}
		var kept []Value
		for _, it := range items {
			entry, ok := entryWithValue(it)
			if !ok {
				continue
			}
			if use, ok := entry.Get(keyUseFor); ok {
				entry.Set(keyUseFor, String(tk.normalize(use.Str())))
			}
			if !containsValue(kept, ObjectValue(entry)) {
				kept = append(kept, ObjectValue(entry))
			}
		}
		setList(obj, tk.key, kept)
	}
}

func pruneAddresses(obj *Object) {
	items, ok := listItems(obj, "addresses")
	if !ok {
		return
	}
	var kept []Value
	for _, it := range items {
		entry := it.Object()
		if entry == nil {
			continue
		}
		stringifyNumbers(entry, addressKeys...)
		if line, ok := entry.Get("line"); ok && line.Kind() == KindString {
			entry.Set("line", Array(line))
		}
		if hasAnyKey(entry, addressKeys) {
			kept = append(kept, it)
		}
	}
	setList(obj, "addresses", kept)
}

func pruneOtherNames(obj *Object) {
	items, ok := listItems(obj, "other_names")
	if !ok {
		return
	}
	var kept []Value
	for _, it := range items {
		it = numberToString(it)
		if it.Kind() == KindString {
			it = Obj(F("full_name", it))
		}
		entry := it.Object()
		stringifyNumbers(entry, nameKeys...)
		if entry != nil && hasAnyKey(entry, nameKeys) {
			kept = append(kept, it)
		}
	}
	setList(obj, "other_names", kept)
}

func pruneContacts(obj *Object) {
	items, ok := listItems(obj, "contacts")
	if !ok {
		return
	}
	var kept []Value
	for _, it := range items {
		contact := it.Object()
		if contact == nil {
			continue
		}
		pruneTelecoms(contact)
		pruneAddresses(contact)
		foldEnum(contact, keyGender)
		stringifyNumbers(contact, "relationship")
		if rel, ok := contact.Get("relationship"); ok && rel.Kind() == KindString {
			contact.Set("relationship", Array(rel))
		}
		pruneOrganizations(contact)
		ensureName(contact)
		if hasInformation(contact) {
			kept = append(kept, it)
		}
	}
	setList(obj, "contacts", kept)
}

func pruneOrganizations(contact *Object) {
	items, ok := listItems(contact, "organizations")
	if !ok {
		return
	}
	var kept []Value
	for _, it := range items {
		it = numberToString(it)
		if it.Kind() == KindString {
			it = Obj(F("display", it))
		}
		entry := it.Object()
		stringifyNumbers(entry, organizationKeys...)
		if entry != nil && hasAnyKey(entry, organizationKeys) {
			kept = append(kept, it)
		}
	}
	setList(contact, "organizations", kept)
}

// numberToString renders a JSON number as its literal text. Other values are
// returned unchanged.
func numberToString(v Value) Value {
	if v.Kind() == KindNumber {
		return String(string(v.Num()))
	}
	return v
}

// stringifyNumbers rewrites numbers under keys, and numeric items of arrays
// under keys, as strings. A nil obj is a no-op.
func stringifyNumbers(obj *Object, keys ...string) {
	if obj == nil {
		return
	}
	for _, k := range keys {
		v, ok := obj.Get(k)
		if !ok {
			continue
		}
		switch v.Kind() {
		case KindNumber:
			obj.Set(k, numberToString(v))
		case KindArray:
			items := make([]Value, len(v.Items()))
			for i, it := range v.Items() {
				items[i] = numberToString(it)
			}
			obj.Set(k, Array(items...))
		}
	}
}

// foldEnum lower-cases a string enum field in place.
func foldEnum(obj *Object, key string) {
	if v, ok := obj.Get(key); ok && v.Kind() == KindString {
		obj.Set(key, String(strings.ToLower(strings.TrimSpace(v.Str()))))
	}
}

// normalizeDeceased lifts a bare boolean into {"status": b}.
func normalizeDeceased(obj *Object) {
	if v, ok := obj.Get(keyDeceased); ok && v.Kind() == KindBool {
		obj.Set(keyDeceased, Obj(F(statusKey, v)))
	}
}

func hasAnyKey(obj *Object, keys []string) bool {
	for _, k := range keys {
		if v, ok := obj.Get(k); ok && !v.IsEmpty() {
			return true
		}
	}
	return false
}

func contains(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
