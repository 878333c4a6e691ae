package pack

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Keyed is an insertion-ordered map of child entities.
type Keyed[C any] = orderedmap.OrderedMap[string, *C]

// NewKeyed returns an empty keyed collection.
func NewKeyed[C any]() *Keyed[C] {
	return orderedmap.New[string, *C]()
}

// Keys returns the keys of m in insertion order.
func Keys[C any](m *Keyed[C]) []string {
	if m == nil {
		return nil
	}
	keys := make([]string, 0, m.Len())
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Values returns the children of m in insertion order.
func Values[C any](m *Keyed[C]) []*C {
	if m == nil {
		return nil
	}
	vals := make([]*C, 0, m.Len())
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		vals = append(vals, pair.Value)
	}
	return vals
}

// At returns the i-th child of m in insertion order.
func At[C any](m *Keyed[C], i int) (*C, bool) {
	if m == nil || i < 0 {
		return nil, false
	}
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		if i == 0 {
			return pair.Value, true
		}
		i--
	}
	return nil, false
}
