package rtvalue

import "strings"

// List is Jactl's mutable, reference-typed list (§3.2 KindList).
// Grounded on funvibe-funxy's evaluator List object, dropping its
// persistent/structural-sharing machinery since Jactl lists are plain
// mutable arrays, not a functional data structure.
type List struct {
	Elems []Value
}

func NewList(elems ...Value) *List { return &List{Elems: elems} }

func (l *List) String() string {
	parts := make([]string, len(l.Elems))
	for i, e := range l.Elems {
		if e.Kind == KindString {
			parts[i] = "'" + e.AsString() + "'"
		} else {
			parts[i] = e.String()
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (l *List) Len() int { return len(l.Elems) }

func (l *List) Get(i int) (Value, bool) {
	if i < 0 || i >= len(l.Elems) {
		return Value{}, false
	}
	return l.Elems[i], true
}

func (l *List) Set(i int, v Value) bool {
	if i < 0 || i >= len(l.Elems) {
		return false
	}
	l.Elems[i] = v
	return true
}

// mapEntry keeps Map insertion-ordered, matching the teacher's choice to
// make map iteration and Inspect() output deterministic.
type mapEntry struct {
	key Value
	val Value
}

// Map is Jactl's String-keyed map (§3.2 KindMap). Internally keyed by
// the key's String() form since Jactl map keys coerce to String (§4.C
// field-path FieldName rules), with the original Value preserved in
// Keys for iteration/Inspect.
type Map struct {
	entries map[string]mapEntry
	Keys    []Value
}

func NewMap() *Map { return &Map{entries: map[string]mapEntry{}} }

func (m *Map) Get(key Value) (Value, bool) {
	e, ok := m.entries[key.String()]
	if !ok {
		return Value{}, false
	}
	return e.val, true
}

func (m *Map) Set(key, val Value) {
	k := key.String()
	if _, exists := m.entries[k]; !exists {
		m.Keys = append(m.Keys, key)
	}
	m.entries[k] = mapEntry{key: key, val: val}
}

func (m *Map) Delete(key Value) {
	k := key.String()
	if _, ok := m.entries[k]; !ok {
		return
	}
	delete(m.entries, k)
	for i, existing := range m.Keys {
		if existing.String() == k {
			m.Keys = append(m.Keys[:i], m.Keys[i+1:]...)
			break
		}
	}
}

func (m *Map) Len() int { return len(m.Keys) }

func (m *Map) String() string {
	parts := make([]string, 0, len(m.Keys))
	for _, k := range m.Keys {
		v, _ := m.Get(k)
		parts = append(parts, k.String()+": "+v.String())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
