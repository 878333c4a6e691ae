// Package sqlite stores GrAF documents in a SQLite database.
//
// The driver is modernc.org/sqlite, so no cgo toolchain is needed. Use
// "file::memory:" for a private in-memory database.
package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Grant-Giesbrecht/graf/pkg/document"
	"github.com/Grant-Giesbrecht/graf/pkg/errors"
	"github.com/Grant-Giesbrecht/graf/pkg/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	name     TEXT PRIMARY KEY,
	body     BLOB NOT NULL,
	size     INTEGER NOT NULL,
	modified INTEGER NOT NULL
);
`

// Store is a SQLite-backed [store.Store].
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "open sqlite %s", path)
	}
	// One connection keeps in-memory databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "open sqlite %s", path)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create schema")
	}
	return &Store{db: db}, nil
}

func (s *Store) Put(ctx context.Context, name string, d document.Document) error {
	if err := store.CheckName(name); err != nil {
		return err
	}
	body, err := store.Marshal(d)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (name, body, size, modified)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			body=excluded.body,
			size=excluded.size,
			modified=excluded.modified
	`, name, body, len(body), time.Now().UnixNano())
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "put %s", name)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, name string) (document.Document, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx, `SELECT body FROM documents WHERE name = ?`, name).Scan(&body)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, store.NotFound(name)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "get %s", name)
	}
	return store.Unmarshal(body)
}

func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE name = ?`, name)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "delete %s", name)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "delete %s", name)
	}
	if n == 0 {
		return store.NotFound(name)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]store.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, size, modified FROM documents`)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list documents")
	}
	defer rows.Close()

	var out []store.Entry
	for rows.Next() {
		var (
			e        store.Entry
			modified int64
		)
		if err := rows.Scan(&e.Name, &e.Size, &modified); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "list documents")
		}
		e.Modified = time.Unix(0, modified)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list documents")
	}
	store.SortEntries(out)
	return out, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

var _ store.Store = (*Store)(nil)
