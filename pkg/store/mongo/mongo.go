// Package mongo stores GrAF documents in a MongoDB collection.
//
// Documents are stored as native BSON rather than as encoded bytes, so a
// stored figure can be queried with ordinary MongoDB tools:
//
//	{_id: "<name>", doc: {...}, size: <bson bytes>, modified: <date>}
package mongo

import (
	"context"
	stderrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Grant-Giesbrecht/graf/pkg/document"
	"github.com/Grant-Giesbrecht/graf/pkg/errors"
	"github.com/Grant-Giesbrecht/graf/pkg/store"
)

const (
	DefaultDatabase   = "graf"
	DefaultCollection = "documents"
)

// Config configures the MongoDB connection.
type Config struct {
	URI        string
	Database   string // defaults to DefaultDatabase
	Collection string // defaults to DefaultCollection
}

// Store is a MongoDB-backed [store.Store].
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type record struct {
	Name     string    `bson:"_id"`
	Doc      bson.M    `bson:"doc"`
	Size     int       `bson:"size"`
	Modified time.Time `bson:"modified"`
}

// NewStore connects to MongoDB and verifies the connection.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "connect to mongodb")
	}
	err = store.RetryWithBackoff(ctx, func() error {
		return store.Retryable(client.Ping(ctx, nil))
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping mongodb")
	}

	return &Store{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

func (s *Store) Put(ctx context.Context, name string, d document.Document) error {
	if err := store.CheckName(name); err != nil {
		return err
	}
	body := bson.M(d.Generic())
	raw, err := bson.Marshal(body)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidDocument, err, "encode %s", name)
	}

	rec := record{Name: name, Doc: body, Size: len(raw), Modified: time.Now().UTC()}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": name}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "put %s", name)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, name string) (document.Document, error) {
	var rec record
	err := s.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&rec)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.NotFound(name)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "get %s", name)
	}
	return Normalize(rec.Doc), nil
}

func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": name})
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "delete %s", name)
	}
	if res.DeletedCount == 0 {
		return store.NotFound(name)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]store.Entry, error) {
	opts := options.Find().SetProjection(bson.M{"doc": 0})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "list documents")
	}
	defer cur.Close(ctx)

	var out []store.Entry
	for cur.Next(ctx) {
		var rec record
		if err := cur.Decode(&rec); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "list documents")
		}
		out = append(out, store.Entry{Name: rec.Name, Size: rec.Size, Modified: rec.Modified})
	}
	if err := cur.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "list documents")
	}
	store.SortEntries(out)
	return out, nil
}

func (s *Store) Close() error {
	return s.client.Disconnect(context.Background())
}

// Normalize converts a decoded BSON tree into the primitive shape the rest of
// GrAF reads: mappings become [document.Document], arrays become []any and
// BSON integers become int.
func Normalize(m bson.M) document.Document {
	if m == nil {
		return nil
	}
	out := make(document.Document, len(m))
	for k, v := range m {
		out[k] = normalize(v)
	}
	return out
}

func normalize(v any) any {
	switch t := v.(type) {
	case bson.M:
		return Normalize(t)
	case map[string]any:
		return Normalize(bson.M(t))
	case bson.D:
		out := make(document.Document, len(t))
		for _, e := range t {
			out[e.Key] = normalize(e.Value)
		}
		return out
	case bson.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalize(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalize(e)
		}
		return out
	case int32:
		return int(t)
	case int64:
		return int(t)
	}
	return v
}

var _ store.Store = (*Store)(nil)
