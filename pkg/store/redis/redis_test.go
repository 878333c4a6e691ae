package redis

import (
	"context"
	stderrors "errors"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Grant-Giesbrecht/graf/pkg/store"
	"github.com/Grant-Giesbrecht/graf/pkg/store/storetest"
)

func TestKeys(t *testing.T) {
	s := New(redis.NewClient(&redis.Options{Addr: "localhost:0"}), "")
	defer s.Close()
	assert.Equal(t, "graf:doc:sweep", s.docKey("sweep"))
	assert.Equal(t, "graf:index", s.indexKey())

	s = New(redis.NewClient(&redis.Options{Addr: "localhost:0"}), "lab:")
	defer s.Close()
	assert.Equal(t, "lab:doc:sweep", s.docKey("sweep"))
}

func TestRetryable(t *testing.T) {
	assert.NoError(t, retryable(nil))
	assert.Same(t, redis.Nil, retryable(redis.Nil))
	assert.True(t, store.IsRetryable(retryable(stderrors.New("connection refused"))))
}

func TestMemberName(t *testing.T) {
	assert.Equal(t, "sweep", memberName("sweep"))
	assert.Equal(t, "sweep", memberName([]byte("sweep")))
	assert.Equal(t, "42", memberName(int64(42)))
	assert.Equal(t, "", memberName(3.5))
}

// TestStore runs against a live server when GRAF_TEST_REDIS_ADDR is set.
func TestStore(t *testing.T) {
	addr := os.Getenv("GRAF_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("GRAF_TEST_REDIS_ADDR not set")
	}
	storetest.Run(t, func(t *testing.T) store.Store {
		s, err := NewStore(context.Background(), Config{
			Addr:   addr,
			Prefix: "graf-test:" + store.NewName("") + ":",
		})
		require.NoError(t, err)
		t.Cleanup(func() {
			cleanup(t, s)
			_ = s.Close()
		})
		return s
	})
}

func cleanup(t *testing.T, s *Store) {
	ctx := context.Background()
	keys, err := s.client.Keys(ctx, s.prefix+"*").Result()
	if err != nil || len(keys) == 0 {
		return
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		t.Logf("cleanup: %v", err)
	}
}
