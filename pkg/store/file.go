package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Grant-Giesbrecht/graf/pkg/document"
	"github.com/Grant-Giesbrecht/graf/pkg/errors"
)

// FileExt is the extension of documents written by [FileStore].
const FileExt = ".graf"

// FileStore keeps one JSON document per file in a directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// DefaultDir returns ~/.config/graf/documents.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "get home dir")
	}
	return filepath.Join(home, ".config", "graf", "documents"), nil
}

// NewFileStore creates a file store rooted at baseDir, creating the
// directory if needed. An empty baseDir selects [DefaultDir].
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		baseDir = dir
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "create store dir")
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) docPath(name string) string {
	return filepath.Join(s.baseDir, name+FileExt)
}

func (s *FileStore) Put(ctx context.Context, name string, d document.Document) error {
	if err := CheckName(name); err != nil {
		return err
	}
	data, err := Marshal(d)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Write to a sibling file first so readers never see a torn document.
	tmp := s.docPath(name) + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", name)
	}
	if err := os.Rename(tmp, s.docPath(name)); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", name)
	}
	return nil
}

func (s *FileStore) Get(ctx context.Context, name string) (document.Document, error) {
	if err := CheckName(name); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.docPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NotFound(name)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read %s", name)
	}
	return Unmarshal(data)
}

func (s *FileStore) Delete(ctx context.Context, name string) error {
	if err := CheckName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.docPath(name)); err != nil {
		if os.IsNotExist(err) {
			return NotFound(name)
		}
		return errors.Wrap(errors.ErrCodeInternal, err, "remove %s", name)
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read store dir")
	}
	var out []Entry
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != FileExt {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, Entry{
			Name:     strings.TrimSuffix(e.Name(), FileExt),
			Size:     int(info.Size()),
			Modified: info.ModTime(),
		})
	}
	SortEntries(out)
	return out, nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the directory documents are stored in.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
