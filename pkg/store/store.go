// Package store persists GrAF documents under names.
//
// This package defines the [Store] contract shared by every backend, with
// two implementations of its own:
//   - memory: in-process storage for tests and the API server's scratch mode
//   - file: one document per file, for CLI use
//
// Remote backends live in subpackages:
//   - sqlite: a single-file database (modernc.org/sqlite, no cgo)
//   - redis: shared storage for multi-instance deployments
//   - mongo: native BSON documents
//
// # Usage
//
//	st, err := store.NewFileStore("")  // Uses ~/.config/graf/documents/
//	if err != nil {
//	    return err
//	}
//	st = store.Instrument(st, "file")
//	defer st.Close()
//
//	if err := st.Put(ctx, "sweep", g.Pack()); err != nil {
//	    return err
//	}
//	d, err := st.Get(ctx, "sweep")
//	if errors.Is(err, store.ErrNotFound) {
//	    // no such document
//	}
//
// Every backend returns a document that unpacks to the same tree that was
// stored, with bit-identical finite floats.
package store

import (
	"context"
	stderrors "errors"
	"sort"
	"time"

	"github.com/Grant-Giesbrecht/graf/pkg/document"
	"github.com/Grant-Giesbrecht/graf/pkg/errors"
	"github.com/Grant-Giesbrecht/graf/pkg/io"
)

// ErrNotFound is returned when a named document does not exist.
var ErrNotFound = stderrors.New("not found")

// Entry describes one stored document.
type Entry struct {
	Name     string    `json:"name"`
	Size     int       `json:"size"` // encoded size in bytes
	Modified time.Time `json:"modified"`
}

// Store is the interface for document storage backends. Implementations are
// safe for concurrent use.
type Store interface {
	// Put stores d under name, replacing any previous document.
	Put(ctx context.Context, name string, d document.Document) error

	// Get returns the document stored under name, or an error wrapping
	// ErrNotFound.
	Get(ctx context.Context, name string) (document.Document, error)

	// Delete removes the document stored under name. Deleting a missing
	// document returns an error wrapping ErrNotFound.
	Delete(ctx context.Context, name string) error

	// List returns every stored document in natural name order.
	List(ctx context.Context) ([]Entry, error)

	// Close releases the backend's resources.
	Close() error
}

// NotFound returns an error for a missing document. It matches both
// ErrNotFound and the NOT_FOUND error code.
func NotFound(name string) error {
	return errors.Wrap(errors.ErrCodeNotFound, ErrNotFound, "document %q", name)
}

// CheckName validates a document name.
func CheckName(name string) error {
	return errors.ValidateName(name)
}

// Marshal encodes d in the wire form shared by the byte-oriented backends.
func Marshal(d document.Document) ([]byte, error) {
	return io.Encode(d, io.FormatJSON)
}

// Unmarshal decodes data written by [Marshal].
func Unmarshal(data []byte) (document.Document, error) {
	return io.Decode(data, io.FormatJSON)
}

// SortEntries orders entries by name in natural order.
func SortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		return document.NaturalLess(entries[i].Name, entries[j].Name)
	})
}
