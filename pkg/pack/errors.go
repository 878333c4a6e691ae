package pack

import (
	"errors"
	"fmt"
)

// FieldError reports a field of an entity that could not be unpacked.
type FieldError struct {
	Entity string // Owning entity type, e.g. "Axis"
	Field  string // Document key, e.g. "traces"
	Err    error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s.%s: %v", e.Entity, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// FieldErrors flattens err into the field errors it contains, outermost first.
// Nested entity failures appear as a parent error followed by the child's.
func FieldErrors(err error) []*FieldError {
	var out []*FieldError
	var walk func(error)
	walk = func(e error) {
		if e == nil {
			return
		}
		if fe, ok := e.(*FieldError); ok {
			out = append(out, fe)
		}
		switch u := e.(type) {
		case interface{ Unwrap() []error }:
			for _, inner := range u.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(u.Unwrap())
		}
	}
	walk(err)
	return out
}

// nested reports whether err already carries field errors from a child
// schema, which were logged where they occurred.
func nested(err error) bool {
	var fe *FieldError
	return errors.As(err, &fe)
}
