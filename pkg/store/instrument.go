package store

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/Grant-Giesbrecht/graf/pkg/document"
	"github.com/Grant-Giesbrecht/graf/pkg/observability"
)

// instrumented reports every operation of a Store to the registered
// observability store hooks.
type instrumented struct {
	Store
	backend string
}

// Instrument wraps s so its operations are reported to
// [observability.Store] under the given backend name.
func Instrument(s Store, backend string) Store {
	return &instrumented{Store: s, backend: backend}
}

func (s *instrumented) Put(ctx context.Context, name string, d document.Document) error {
	start := time.Now()
	err := s.Store.Put(ctx, name, d)
	observability.Store().OnPut(ctx, s.backend, name, time.Since(start), err)
	return err
}

func (s *instrumented) Get(ctx context.Context, name string) (document.Document, error) {
	start := time.Now()
	d, err := s.Store.Get(ctx, name)
	if stderrors.Is(err, ErrNotFound) {
		observability.Store().OnMiss(ctx, s.backend, name)
		return d, err
	}
	observability.Store().OnGet(ctx, s.backend, name, time.Since(start), err)
	return d, err
}

func (s *instrumented) Delete(ctx context.Context, name string) error {
	err := s.Store.Delete(ctx, name)
	observability.Store().OnDelete(ctx, s.backend, name, err)
	return err
}

// Unwrap returns the wrapped store.
func (s *instrumented) Unwrap() Store { return s.Store }
