package pack

import (
	"errors"
	"fmt"

	"github.com/Grant-Giesbrecht/graf/pkg/document"
)

// Kind classifies a manifest field.
type Kind int

const (
	KindScalar Kind = iota
	KindEntity
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindEntity:
		return "entity"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Descriptor is the read-only description of one manifest field.
type Descriptor struct {
	Name string
	Kind Kind
	// Type names the scalar leaf type ("float", "enum", "grid", ...) or, for
	// entity kinds, the child entity name.
	Type string
	// Child is the schema of entity, list and map fields; nil for scalars.
	Child Describer
}

// Describer is the type-independent view of a [Schema].
type Describer interface {
	Name() string
	Fields() []Descriptor
}

// Field is one manifest entry for entities of type T.
type Field[T any] struct {
	desc   Descriptor
	pack   func(v *T) any
	unpack func(v *T, raw any) error
}

// Schema is the immutable manifest of entity type T.
type Schema[T any] struct {
	name   string
	fields []Field[T]
}

// NewSchema builds the manifest for entity type T. It panics on duplicate
// field names, which are programming errors.
func NewSchema[T any](name string, fields ...Field[T]) *Schema[T] {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f.desc.Name] {
			panic(fmt.Sprintf("pack: duplicate field %q in schema %s", f.desc.Name, name))
		}
		seen[f.desc.Name] = true
	}
	return &Schema[T]{name: name, fields: append([]Field[T](nil), fields...)}
}

// Name returns the entity type name used in diagnostics.
func (s *Schema[T]) Name() string { return s.name }

// Fields returns the manifest descriptors in declaration order.
func (s *Schema[T]) Fields() []Descriptor {
	out := make([]Descriptor, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.desc
	}
	return out
}

// Pack converts v into a document. It does not modify v.
func (s *Schema[T]) Pack(v *T) document.Document {
	d := make(document.Document, len(s.fields))
	for _, f := range s.fields {
		d[f.desc.Name] = f.pack(v)
	}
	return d
}

// Unpack overwrites v from d, field by field. See the package documentation
// for the error semantics.
func (s *Schema[T]) Unpack(v *T, d document.Document) error {
	var errs []error
	for _, f := range s.fields {
		raw, ok := d[f.desc.Name]
		var err error
		if !ok {
			_, err = d.Lookup(f.desc.Name)
		} else {
			err = f.unpack(v, raw)
		}
		if err == nil {
			continue
		}
		fe := &FieldError{Entity: s.name, Field: f.desc.Name, Err: err}
		logFieldError(fe)
		errs = append(errs, fe)
	}
	return errors.Join(errs...)
}
