package store

import (
	"context"
	"sync"
	"time"

	"github.com/Grant-Giesbrecht/graf/pkg/document"
)

type memoryEntry struct {
	data     []byte
	modified time.Time
}

// MemoryStore keeps encoded documents in memory.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]memoryEntry
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Put(ctx context.Context, name string, d document.Document) error {
	if err := CheckName(name); err != nil {
		return err
	}
	data, err := Marshal(d)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[name] = memoryEntry{data: data, modified: time.Now()}
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, name string) (document.Document, error) {
	s.mu.RLock()
	e, ok := s.docs[name]
	s.mu.RUnlock()
	if !ok {
		return nil, NotFound(name)
	}
	return Unmarshal(e.data)
}

func (s *MemoryStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[name]; !ok {
		return NotFound(name)
	}
	delete(s.docs, name)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, 0, len(s.docs))
	for name, e := range s.docs {
		out = append(out, Entry{Name: name, Size: len(e.data), Modified: e.modified})
	}
	SortEntries(out)
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
