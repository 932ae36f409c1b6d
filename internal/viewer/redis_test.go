package viewer

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore_GetSetAdd(t *testing.T) {
	mr := miniredis.RunT(t)
	s := NewRedisStore(mr.Addr(), "", 0, time.Hour)
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()

	require.NoError(t, s.Ping(ctx))

	_, ok, err := s.Get(ctx, "v1", "viewed_authors")
	require.NoError(t, err)
	assert.False(t, ok)

	added, err := s.Add(ctx, "v1", "viewed_authors", "4")
	require.NoError(t, err)
	assert.True(t, added)
	added, err = s.Add(ctx, "v1", "viewed_authors", "4")
	require.NoError(t, err)
	assert.False(t, added)

	assert.True(t, mr.Exists("viewer:v1:viewed_authors"))
	assert.Equal(t, time.Hour, mr.TTL("viewer:v1:viewed_authors"))

	require.NoError(t, s.Set(ctx, "v1", "viewed_authors", []string{"9", "8"}))
	vals, ok, err := s.Get(ctx, "v1", "viewed_authors")
	require.NoError(t, err)
	require.True(t, ok)
	sort.Strings(vals)
	assert.Equal(t, []string{"8", "9"}, vals)

	require.NoError(t, s.Set(ctx, "v1", "viewed_authors", nil))
	assert.False(t, mr.Exists("viewer:v1:viewed_authors"))
}

func TestRedisStore_Remove(t *testing.T) {
	mr := miniredis.RunT(t)
	s := NewRedisStore(mr.Addr(), "", 0, time.Hour)
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "v1", "liked_poems", []string{"1", "2"}))
	require.NoError(t, s.Remove(ctx, "v1", "liked_poems", "1"))
	require.NoError(t, s.Remove(ctx, "v1", "liked_poems", "7"))
	require.NoError(t, s.Remove(ctx, "v2", "liked_poems", "1"))

	members, err := mr.Members("viewer:v1:liked_poems")
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, members)

	added, err := s.Add(ctx, "v1", "liked_poems", "1")
	require.NoError(t, err)
	assert.True(t, added)
}

func TestRedisStore_Expires(t *testing.T) {
	mr := miniredis.RunT(t)
	s := NewRedisStore(mr.Addr(), "", 0, time.Minute)
	ctx := context.Background()

	_, err := s.Add(ctx, "v", "liked_poems", "1")
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)

	seen, err := Contains(ctx, s, "v", "liked_poems", "1")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestRedisStore_Unavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	s := NewRedisStore(mr.Addr(), "", 0, time.Minute)
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := s.Add(ctx, "v", "k", "1")
	assert.Error(t, err)
	_, err = s.Add(ctx, "", "k", "1")
	assert.ErrorIs(t, err, ErrNoContext)
}
