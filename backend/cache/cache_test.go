package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"cursifynova/backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch(t *testing.T) {
	cases := []struct {
		pattern, key string
		want         bool
	}{
		{"api:/api/courses*", "api:/api/courses", true},
		{"api:/api/courses*", "api:/api/courses/12?page=2", true},
		{"api:/api/courses*", "api:/api/progress/courses", false},
		{"api:*", "api:/anything/at/all", true},
		{"h?llo", "hello", true},
		{"h?llo", "hllo", false},
		{"h[ae]llo", "hallo", true},
		{"h[ae]llo", "hillo", false},
		{"h[^e]llo", "hello", false},
		{"h[^e]llo", "hallo", true},
		{"h[a-c]llo", "hbllo", true},
		{`a\*b`, "a*b", true},
		{`a\*b`, "axb", false},
		{"*middle*", "in the middle of", true},
		{"exact", "exact", true},
		{"exact", "exactly", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Match(tc.pattern, tc.key), "%q ~ %q", tc.pattern, tc.key)
	}
}

func TestMemoryStoreTTL(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Set(ctx, "k", []byte(`{"a":1}`), time.Minute))
	raw, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(raw))

	now = now.Add(time.Minute)
	_, err = store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStoreSweepsExpiredOnSet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	for i := 0; i < 1000; i++ {
		require.NoError(t, store.Set(ctx, fmt.Sprintf("api:/api/courses?page=%d", i), []byte(`{}`), time.Second))
	}
	require.NoError(t, store.Set(ctx, "api:/api/courses", []byte(`{}`), 0))

	now = now.Add(time.Hour)
	for i := 0; i < 10; i++ {
		require.NoError(t, store.Set(ctx, fmt.Sprintf("api:/api/courses?search=%d", i), []byte(`{}`), time.Minute))
	}

	assert.Equal(t, 11, store.Len())
	assert.Len(t, store.items, 11)
}

func TestMemoryStoreCleanup(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Set(ctx, "a", []byte(`1`), time.Second))
	require.NoError(t, store.Set(ctx, "b", []byte(`2`), time.Hour))
	now = now.Add(time.Minute)
	store.Cleanup()

	assert.Len(t, store.items, 1)
	_, err := store.Get(ctx, "b")
	assert.NoError(t, err)
}

func TestMemoryStoreDelPattern(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	for _, k := range []string{"api:/api/courses", "api:/api/courses/1", "api:/api/certificates/verify/x"} {
		require.NoError(t, store.Set(ctx, k, []byte("1"), time.Minute))
	}

	n, err := store.DelPattern(ctx, "api:/api/courses*")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = store.Get(ctx, "api:/api/certificates/verify/x")
	assert.NoError(t, err)
	assert.Equal(t, 1, store.Len())
}

type failingStore struct{ MemoryStore }

var errDown = errors.New("connection refused")

func (*failingStore) Get(context.Context, string) ([]byte, error) { return nil, errDown }
func (*failingStore) Set(context.Context, string, []byte, time.Duration) error {
	return errDown
}
func (*failingStore) Del(context.Context, ...string) error { return errDown }
func (*failingStore) DelPattern(context.Context, string) (int64, error) {
	return 0, errDown
}

func TestCacheSwallowsStoreErrors(t *testing.T) {
	ctx := context.Background()
	c := New(&failingStore{}, utils.NopLogger())

	var dst map[string]int
	assert.False(t, c.Get(ctx, "k", &dst))
	assert.False(t, c.Set(ctx, "k", map[string]int{"a": 1}, time.Minute))
	assert.False(t, c.Del(ctx, "k"))
	assert.False(t, c.DelPattern(ctx, "k*"))
}

func TestCacheJSONRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemoryStore(), utils.NopLogger())

	type payload struct {
		Title string   `json:"title"`
		Tags  []string `json:"tags"`
	}
	require.True(t, c.Set(ctx, Key("/api/courses/1"), payload{Title: "Go", Tags: []string{"x"}}, time.Minute))

	var got payload
	require.True(t, c.Get(ctx, "api:/api/courses/1", &got))
	assert.Equal(t, "Go", got.Title)
	assert.Equal(t, []string{"x"}, got.Tags)

	assert.True(t, c.Del(ctx, "api:/api/courses/1"))
	assert.False(t, c.Get(ctx, "api:/api/courses/1", &got))
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()

	store, err := NewRedisStore(ctx, RedisOptions{Addr: addr, DB: 15})
	require.NoError(t, err)
	defer store.Close()

	_, err = store.DelPattern(ctx, "test:*")
	require.NoError(t, err)

	require.NoError(t, store.Set(ctx, "test:/api/courses", []byte("a"), time.Minute))
	require.NoError(t, store.Set(ctx, "test:/api/courses/2", []byte("b"), time.Minute))
	require.NoError(t, store.Set(ctx, "test:/api/progress", []byte("c"), time.Minute))

	n, err := store.DelPattern(ctx, "test:/api/courses*")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = store.Get(ctx, "test:/api/courses")
	assert.ErrorIs(t, err, ErrMiss)
	raw, err := store.Get(ctx, "test:/api/progress")
	require.NoError(t, err)
	assert.Equal(t, "c", string(raw))
}
