// Package redis stores GrAF documents in Redis.
//
// Each document is a string value under "<prefix>doc:<name>"; a sorted set
// under "<prefix>index" tracks names by modification time so List needs no
// key scan.
package redis

import (
	"context"
	stderrors "errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Grant-Giesbrecht/graf/pkg/document"
	"github.com/Grant-Giesbrecht/graf/pkg/errors"
	"github.com/Grant-Giesbrecht/graf/pkg/store"
)

// DefaultPrefix namespaces every key written by the store.
const DefaultPrefix = "graf:"

// Config configures the Redis connection.
type Config struct {
	Addr     string
	Password string
	DB       int
	Prefix   string // defaults to DefaultPrefix
}

// Store is a Redis-backed [store.Store].
type Store struct {
	client *redis.Client
	prefix string
}

// NewStore connects to Redis and verifies the connection.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	err := store.RetryWithBackoff(ctx, func() error {
		if err := client.Ping(ctx).Err(); err != nil {
			return store.Retryable(err)
		}
		return nil
	})
	if err != nil {
		_ = client.Close()
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to redis at %s", cfg.Addr)
	}
	return New(client, cfg.Prefix), nil
}

// New wraps an existing client.
func New(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) docKey(name string) string { return s.prefix + "doc:" + name }
func (s *Store) indexKey() string          { return s.prefix + "index" }

func (s *Store) Put(ctx context.Context, name string, d document.Document) error {
	if err := store.CheckName(name); err != nil {
		return err
	}
	body, err := store.Marshal(d)
	if err != nil {
		return err
	}
	now := float64(time.Now().UnixNano())
	err = store.RetryWithBackoff(ctx, func() error {
		_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, s.docKey(name), body, 0)
			p.ZAdd(ctx, s.indexKey(), redis.Z{Score: now, Member: name})
			return nil
		})
		return retryable(err)
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "put %s", name)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, name string) (document.Document, error) {
	var body []byte
	err := store.RetryWithBackoff(ctx, func() error {
		var err error
		body, err = s.client.Get(ctx, s.docKey(name)).Bytes()
		return retryable(err)
	})
	if stderrors.Is(err, redis.Nil) {
		return nil, store.NotFound(name)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "get %s", name)
	}
	return store.Unmarshal(body)
}

func (s *Store) Delete(ctx context.Context, name string) error {
	var removed int64
	err := store.RetryWithBackoff(ctx, func() error {
		var del *redis.IntCmd
		_, err := s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
			del = p.Del(ctx, s.docKey(name))
			p.ZRem(ctx, s.indexKey(), name)
			return nil
		})
		if err == nil {
			removed = del.Val()
		}
		return retryable(err)
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "delete %s", name)
	}
	if removed == 0 {
		return store.NotFound(name)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]store.Entry, error) {
	var zs []redis.Z
	err := store.RetryWithBackoff(ctx, func() error {
		var err error
		zs, err = s.client.ZRangeWithScores(ctx, s.indexKey(), 0, -1).Result()
		return retryable(err)
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "list documents")
	}
	if len(zs) == 0 {
		return nil, nil
	}

	names := make([]string, len(zs))
	for i, z := range zs {
		names[i] = memberName(z.Member)
	}

	sizes := make([]*redis.IntCmd, len(names))
	_, err = s.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		for i, n := range names {
			sizes[i] = p.StrLen(ctx, s.docKey(n))
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "list documents")
	}

	out := make([]store.Entry, len(zs))
	for i, z := range zs {
		out[i] = store.Entry{
			Name:     names[i],
			Size:     int(sizes[i].Val()),
			Modified: time.Unix(0, int64(z.Score)),
		}
	}
	store.SortEntries(out)
	return out, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// retryable marks transport failures for retry. A missing key is an answer,
// not a failure.
func retryable(err error) error {
	if err == nil || stderrors.Is(err, redis.Nil) {
		return err
	}
	return store.Retryable(err)
}

func memberName(m any) string {
	switch v := m.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case int64:
		return strconv.FormatInt(v, 10)
	}
	return ""
}

var _ store.Store = (*Store)(nil)
