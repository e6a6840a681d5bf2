package canonical

import (
	"math"
	"sort"
)

// Value is a member of the canonical value model: exactly one of Null, Bool,
// Int, Float, String, Array or Map.
type Value interface {
	isValue()
}

type Null struct{}

type Bool bool

// Int holds an integer that fits the 64-bit signed range. Integers wider than
// that are carried as tagged big-integer objects (see Normalize).
type Int int64

// Float holds a finite IEEE-754 double. Use NewFloat to construct one; a
// non-finite Float is rejected at encode time.
type Float float64

type String string

// Array preserves element order; order is semantic for sequences.
type Array []Value

// Map is a string-keyed map whose entries are held unique and sorted by the
// byte order of their UTF-8-encoded keys. Construct via NewMap or MapOf so
// the ordering invariant cannot be bypassed.
type Map struct {
	entries []MapEntry
}

type MapEntry struct {
	Key   string
	Value Value
}

func (Null) isValue()   {}
func (Bool) isValue()   {}
func (Int) isValue()    {}
func (Float) isValue()  {}
func (String) isValue() {}
func (Array) isValue()  {}
func (Map) isValue()    {}

// NewFloat constructs a Float, rejecting NaN and infinities.
func NewFloat(f float64) (Float, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, newError(KindEncode, "CJSON-VAL-001", "number must be finite")
	}
	return Float(f), nil
}

// NewMap constructs a Map from entries, sorting them by byte-wise key order.
// Duplicate keys are a construction-time error, never a silent overwrite.
func NewMap(entries ...MapEntry) (Map, error) {
	es := append([]MapEntry(nil), entries...)
	sort.Slice(es, func(i, j int) bool { return es[i].Key < es[j].Key })
	for i := 1; i < len(es); i++ {
		if es[i-1].Key == es[i].Key {
			return Map{}, newError(KindEncode, "CJSON-VAL-002", "duplicate map key "+es[i].Key)
		}
	}
	return Map{entries: es}, nil
}

// MapOf constructs a Map from a Go map. Keys are unique by construction, so
// MapOf cannot fail; insertion order is irrelevant by design.
func MapOf(m map[string]Value) Map {
	es := make([]MapEntry, 0, len(m))
	for k, v := range m {
		es = append(es, MapEntry{Key: k, Value: v})
	}
	sort.Slice(es, func(i, j int) bool { return es[i].Key < es[j].Key })
	return Map{entries: es}
}

// Entries returns the entries in canonical (sorted) order.
// The returned slice is a copy.
func (m Map) Entries() []MapEntry {
	return append([]MapEntry(nil), m.entries...)
}

// Get returns the value for key, if present.
func (m Map) Get(key string) (Value, bool) {
	i := sort.Search(len(m.entries), func(i int) bool { return m.entries[i].Key >= key })
	if i < len(m.entries) && m.entries[i].Key == key {
		return m.entries[i].Value, true
	}
	return nil, false
}

// Without returns a copy of m with key removed.
func (m Map) Without(key string) Map {
	es := make([]MapEntry, 0, len(m.entries))
	for _, e := range m.entries {
		if e.Key != key {
			es = append(es, e)
		}
	}
	return Map{entries: es}
}

func (m Map) Len() int { return len(m.entries) }
