package document

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/Grant-Giesbrecht/graf/pkg/errors"
)

// Document is the packed, primitives-only form of one entity.
type Document map[string]any

// Lookup returns the value stored under key, or a MISSING_FIELD error.
func (d Document) Lookup(key string) (any, error) {
	v, ok := d[key]
	if !ok {
		return nil, errors.New(errors.ErrCodeMissingField, "key %q not present", key)
	}
	return v, nil
}

// Keys returns the document's keys in natural order.
func (d Document) Keys() []string {
	return SortedKeys(d)
}

// Clone returns a deep copy of d. Slices and nested documents are never shared
// with the original.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Document:
		return t.Clone()
	case map[string]any:
		return map[string]any(Document(t).Clone())
	case []Document:
		out := make([]Document, len(t))
		for i, c := range t {
			out[i] = c.Clone()
		}
		return out
	case []float64:
		return append([]float64{}, t...)
	case []string:
		return append([]string{}, t...)
	case [][]float64:
		out := make([][]float64, len(t))
		for i, row := range t {
			out[i] = append([]float64{}, row...)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, c := range t {
			out[i] = cloneValue(c)
		}
		return out
	default:
		return v
	}
}

// Generic converts d into the tree encoding/json would decode it to:
// documents become map[string]any, every list becomes []any.
func (d Document) Generic() map[string]any {
	if d == nil {
		return nil
	}
	out := make(map[string]any, len(d))
	for k, v := range d {
		out[k] = genericValue(v)
	}
	return out
}

func genericValue(v any) any {
	switch t := v.(type) {
	case Document:
		return t.Generic()
	case map[string]any:
		return Document(t).Generic()
	case []Document:
		out := make([]any, len(t))
		for i, c := range t {
			out[i] = c.Generic()
		}
		return out
	case []float64:
		out := make([]any, len(t))
		for i, f := range t {
			out[i] = f
		}
		return out
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	case [][]float64:
		out := make([]any, len(t))
		for i, row := range t {
			out[i] = genericValue(row)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, c := range t {
			out[i] = genericValue(c)
		}
		return out
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case int32:
		return float64(t)
	case float32:
		return float64(t)
	default:
		return v
	}
}

// =============================================================================
// Accessors
// =============================================================================

func wrongShape(want string, v any) error {
	return errors.New(errors.ErrCodeWrongShape, "expected %s, got %s", want, describe(v))
}

func describe(v any) string {
	if v == nil {
		return "null"
	}
	switch v.(type) {
	case Document, map[string]any:
		return "mapping"
	case []any, []float64, []string, [][]float64, []Document:
		return "list"
	case string:
		return "string"
	case bool:
		return "bool"
	}
	return fmt.Sprintf("%T", v)
}

// AsFloat converts a numeric leaf to float64.
func AsFloat(v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case int32:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case uint64:
		return float64(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, wrongShape("number", v)
		}
		return f, nil
	}
	return 0, wrongShape("number", v)
}

// AsInt converts a whole-number leaf to int. Fractional values are rejected.
func AsInt(v any) (int, error) {
	f, err := AsFloat(v)
	if err != nil {
		return 0, wrongShape("integer", v)
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, errors.New(errors.ErrCodeWrongShape, "expected integer, got %v", f)
	}
	// [MinInt, -MinInt) converts exactly; int(f) is undefined outside it.
	if f < math.MinInt || f >= -math.MinInt {
		return 0, errors.New(errors.ErrCodeWrongShape, "integer %v out of range", f)
	}
	return int(f), nil
}

// AsBool converts a boolean leaf.
func AsBool(v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, wrongShape("bool", v)
	}
	return b, nil
}

// AsString converts a string leaf.
func AsString(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", wrongShape("string", v)
	}
	return s, nil
}

// AsFloats converts a list of numbers.
func AsFloats(v any) ([]float64, error) {
	switch t := v.(type) {
	case []float64:
		return append([]float64{}, t...), nil
	case []any:
		out := make([]float64, len(t))
		for i, e := range t {
			f, err := AsFloat(e)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeWrongShape, err, "element %d", i)
			}
			out[i] = f
		}
		return out, nil
	}
	return nil, wrongShape("list of numbers", v)
}

// AsStrings converts a list of strings.
func AsStrings(v any) ([]string, error) {
	switch t := v.(type) {
	case []string:
		return append([]string{}, t...), nil
	case []any:
		out := make([]string, len(t))
		for i, e := range t {
			s, ok := e.(string)
			if !ok {
				return nil, errors.Wrap(errors.ErrCodeWrongShape, wrongShape("string", e), "element %d", i)
			}
			out[i] = s
		}
		return out, nil
	}
	return nil, wrongShape("list of strings", v)
}

// AsGrid converts a list of number lists. Rows may differ in length; callers
// that need a rectangular grid check it themselves.
func AsGrid(v any) ([][]float64, error) {
	switch t := v.(type) {
	case [][]float64:
		out := make([][]float64, len(t))
		for i, row := range t {
			out[i] = append([]float64{}, row...)
		}
		return out, nil
	case []any:
		out := make([][]float64, len(t))
		for i, e := range t {
			row, err := AsFloats(e)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeWrongShape, err, "row %d", i)
			}
			out[i] = row
		}
		return out, nil
	}
	return nil, wrongShape("list of number lists", v)
}

// AsTuple converts a fixed-length numeric tuple.
func AsTuple(v any, n int) ([]float64, error) {
	fs, err := AsFloats(v)
	if err != nil {
		return nil, err
	}
	if len(fs) != n {
		return nil, errors.New(errors.ErrCodeWrongShape, "expected %d-tuple, got %d elements", n, len(fs))
	}
	return fs, nil
}

// AsDocument converts a nested mapping.
func AsDocument(v any) (Document, error) {
	switch t := v.(type) {
	case Document:
		return t, nil
	case map[string]any:
		return Document(t), nil
	}
	return nil, wrongShape("mapping", v)
}

// AsDocuments converts a list of nested mappings.
func AsDocuments(v any) ([]Document, error) {
	switch t := v.(type) {
	case []Document:
		return t, nil
	case []any:
		out := make([]Document, len(t))
		for i, e := range t {
			d, err := AsDocument(e)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeWrongShape, err, "element %d", i)
			}
			out[i] = d
		}
		return out, nil
	}
	return nil, wrongShape("list of mappings", v)
}

// AsStringMap converts a mapping whose values are all strings.
func AsStringMap(v any) (map[string]string, error) {
	d, err := AsDocument(v)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(d))
	for k, e := range d {
		s, ok := e.(string)
		if !ok {
			return nil, errors.Wrap(errors.ErrCodeWrongShape, wrongShape("string", e), "key %q", k)
		}
		out[k] = s
	}
	return out, nil
}

// =============================================================================
// Natural Ordering
// =============================================================================

// SortedKeys returns the keys of d in natural order.
func SortedKeys(d Document) []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return NaturalLess(keys[i], keys[j]) })
	return keys
}

// NaturalLess compares strings treating each run of ASCII digits as a number,
// so "Ax2" sorts before "Ax10". Ties on numeric value fall back to the
// shorter run (fewer leading zeros) first, then plain byte order.
func NaturalLess(a, b string) bool {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		ca, cb := a[i], b[j]
		if isDigit(ca) && isDigit(cb) {
			si := i
			for i < len(a) && isDigit(a[i]) {
				i++
			}
			sj := j
			for j < len(b) && isDigit(b[j]) {
				j++
			}
			na, nb := trimZeros(a[si:i]), trimZeros(b[sj:j])
			if len(na) != len(nb) {
				return len(na) < len(nb)
			}
			if na != nb {
				return na < nb
			}
			if i-si != j-sj {
				return i-si < j-sj
			}
			continue
		}
		if ca != cb {
			return ca < cb
		}
		i++
		j++
	}
	return len(a)-i < len(b)-j
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func trimZeros(s string) string {
	for len(s) > 1 && s[0] == '0' {
		s = s[1:]
	}
	return s
}
