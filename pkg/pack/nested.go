package pack

import (
	"github.com/Grant-Giesbrecht/graf/pkg/document"
	"github.com/Grant-Giesbrecht/graf/pkg/errors"
)

// Entity declares a field owning exactly one child entity. Unpack delegates
// into the existing child, creating it with factory first if it is nil.
func Entity[T, C any](name string, get func(*T) **C, schema *Schema[C], factory func() *C) Field[T] {
	return Field[T]{
		desc: Descriptor{Name: name, Kind: KindEntity, Type: schema.Name(), Child: schema},
		pack: func(v *T) any {
			c := *get(v)
			if c == nil {
				c = factory()
			}
			return schema.Pack(c)
		},
		unpack: func(v *T, raw any) error {
			d, err := document.AsDocument(raw)
			if err != nil {
				return err
			}
			c := get(v)
			if *c == nil {
				*c = factory()
			}
			return schema.Unpack(*c, d)
		},
	}
}

// List declares an ordered list of child entities.
func List[T, C any](name string, get func(*T) *[]*C, schema *Schema[C], factory func() *C) Field[T] {
	return Field[T]{
		desc: Descriptor{Name: name, Kind: KindList, Type: schema.Name(), Child: schema},
		pack: func(v *T) any {
			src := *get(v)
			out := make([]document.Document, len(src))
			for i, c := range src {
				out[i] = schema.Pack(c)
			}
			return out
		},
		unpack: func(v *T, raw any) error {
			docs, err := document.AsDocuments(raw)
			if err != nil {
				return err
			}
			out := make([]*C, 0, len(docs))
			for i, d := range docs {
				c := factory()
				if err := schema.Unpack(c, d); err != nil {
					return errors.Wrap(errors.ErrCodeInvalidDocument, err, "element %d", i)
				}
				out = append(out, c)
			}
			*get(v) = out
			return nil
		},
	}
}

// Map declares a keyed collection of child entities. Packed key order is the
// insertion order; unpacked keys are inserted in natural order.
func Map[T, C any](name string, get func(*T) **Keyed[C], schema *Schema[C], factory func() *C) Field[T] {
	return Field[T]{
		desc: Descriptor{Name: name, Kind: KindMap, Type: schema.Name(), Child: schema},
		pack: func(v *T) any {
			out := document.Document{}
			m := *get(v)
			if m == nil {
				return out
			}
			for pair := m.Oldest(); pair != nil; pair = pair.Next() {
				out[pair.Key] = schema.Pack(pair.Value)
			}
			return out
		},
		unpack: func(v *T, raw any) error {
			d, err := document.AsDocument(raw)
			if err != nil {
				return err
			}
			out := NewKeyed[C]()
			for _, k := range document.SortedKeys(d) {
				sub, err := document.AsDocument(d[k])
				if err != nil {
					return errors.Wrap(errors.ErrCodeWrongShape, err, "key %q", k)
				}
				c := factory()
				if err := schema.Unpack(c, sub); err != nil {
					return errors.Wrap(errors.ErrCodeInvalidDocument, err, "key %q", k)
				}
				out.Set(k, c)
			}
			*get(v) = out
			return nil
		},
	}
}
