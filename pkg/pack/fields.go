package pack

import (
	"github.com/Grant-Giesbrecht/graf/pkg/document"
	"github.com/Grant-Giesbrecht/graf/pkg/errors"
)

func scalar[T any](name, typ string, pack func(*T) any, unpack func(*T, any) error) Field[T] {
	return Field[T]{
		desc:   Descriptor{Name: name, Kind: KindScalar, Type: typ},
		pack:   pack,
		unpack: unpack,
	}
}

// Float declares a number field.
func Float[T any](name string, get func(*T) *float64) Field[T] {
	return scalar(name, "float",
		func(v *T) any { return *get(v) },
		func(v *T, raw any) error {
			f, err := document.AsFloat(raw)
			if err != nil {
				return err
			}
			*get(v) = f
			return nil
		})
}

// Int declares a whole-number field. It is packed as a float64.
func Int[T any](name string, get func(*T) *int) Field[T] {
	return scalar(name, "int",
		func(v *T) any { return float64(*get(v)) },
		func(v *T, raw any) error {
			n, err := document.AsInt(raw)
			if err != nil {
				return err
			}
			*get(v) = n
			return nil
		})
}

// Bool declares a boolean field.
func Bool[T any](name string, get func(*T) *bool) Field[T] {
	return scalar(name, "bool",
		func(v *T) any { return *get(v) },
		func(v *T, raw any) error {
			b, err := document.AsBool(raw)
			if err != nil {
				return err
			}
			*get(v) = b
			return nil
		})
}

// String declares a text field.
func String[T any](name string, get func(*T) *string) Field[T] {
	return scalar(name, "string",
		func(v *T) any { return *get(v) },
		func(v *T, raw any) error {
			s, err := document.AsString(raw)
			if err != nil {
				return err
			}
			*get(v) = s
			return nil
		})
}

// Enum declares a field holding one member of a closed set of strings.
// normalize is applied on unpack, so it must be idempotent.
func Enum[T any, E ~string](name string, get func(*T) *E, normalize func(E) E) Field[T] {
	return scalar(name, "enum",
		func(v *T) any { return string(*get(v)) },
		func(v *T, raw any) error {
			s, err := document.AsString(raw)
			if err != nil {
				return err
			}
			*get(v) = normalize(E(s))
			return nil
		})
}

// Floats declares an ordered list of numbers. A nil slice packs as an empty
// list.
func Floats[T any](name string, get func(*T) *[]float64) Field[T] {
	return scalar(name, "floats",
		func(v *T) any { return append([]float64{}, *get(v)...) },
		func(v *T, raw any) error {
			fs, err := document.AsFloats(raw)
			if err != nil {
				return err
			}
			*get(v) = fs
			return nil
		})
}

// Strings declares an ordered list of strings.
func Strings[T any](name string, get func(*T) *[]string) Field[T] {
	return scalar(name, "strings",
		func(v *T) any { return append([]string{}, *get(v)...) },
		func(v *T, raw any) error {
			ss, err := document.AsStrings(raw)
			if err != nil {
				return err
			}
			*get(v) = ss
			return nil
		})
}

// Grid declares a 2-D numeric grid stored row by row.
func Grid[T any](name string, get func(*T) *[][]float64) Field[T] {
	return scalar(name, "grid",
		func(v *T) any { return copyGrid(*get(v)) },
		func(v *T, raw any) error {
			g, err := document.AsGrid(raw)
			if err != nil {
				return err
			}
			*get(v) = g
			return nil
		})
}

// Vec3 declares a numeric 3-tuple such as an RGB color.
func Vec3[T any, E ~[3]float64](name string, get func(*T) *E) Field[T] {
	return scalar(name, "tuple3",
		func(v *T) any {
			e := *get(v)
			return []float64{e[0], e[1], e[2]}
		},
		func(v *T, raw any) error {
			fs, err := document.AsTuple(raw, 3)
			if err != nil {
				return err
			}
			*get(v) = E{fs[0], fs[1], fs[2]}
			return nil
		})
}

// Pair declares an integer 2-tuple such as a grid position.
func Pair[T any, E ~[2]int](name string, get func(*T) *E) Field[T] {
	return scalar(name, "pair",
		func(v *T) any {
			e := *get(v)
			return []float64{float64(e[0]), float64(e[1])}
		},
		func(v *T, raw any) error {
			fs, err := document.AsTuple(raw, 2)
			if err != nil {
				return err
			}
			var out E
			for i, f := range fs {
				n, err := document.AsInt(f)
				if err != nil {
					return errors.Wrap(errors.ErrCodeWrongShape, err, "element %d", i)
				}
				out[i] = n
			}
			*get(v) = out
			return nil
		})
}

// Tuples declares an ordered list of numeric 4-tuples such as RGBA samples.
func Tuples[T any, E ~[4]float64](name string, get func(*T) *[]E) Field[T] {
	return scalar(name, "tuples4",
		func(v *T) any {
			src := *get(v)
			out := make([][]float64, len(src))
			for i, e := range src {
				out[i] = []float64{e[0], e[1], e[2], e[3]}
			}
			return out
		},
		func(v *T, raw any) error {
			g, err := document.AsGrid(raw)
			if err != nil {
				return err
			}
			out := make([]E, len(g))
			for i, row := range g {
				if len(row) != 4 {
					return errors.New(errors.ErrCodeWrongShape, "element %d: expected 4-tuple, got %d elements", i, len(row))
				}
				out[i] = E{row[0], row[1], row[2], row[3]}
			}
			*get(v) = out
			return nil
		})
}

// StringMap declares a free-form mapping of strings.
func StringMap[T any](name string, get func(*T) *map[string]string) Field[T] {
	return scalar(name, "stringmap",
		func(v *T) any {
			d := make(document.Document, len(*get(v)))
			for k, s := range *get(v) {
				d[k] = s
			}
			return d
		},
		func(v *T, raw any) error {
			m, err := document.AsStringMap(raw)
			if err != nil {
				return err
			}
			*get(v) = m
			return nil
		})
}

func copyGrid(g [][]float64) [][]float64 {
	out := make([][]float64, len(g))
	for i, row := range g {
		out[i] = append([]float64{}, row...)
	}
	return out
}
