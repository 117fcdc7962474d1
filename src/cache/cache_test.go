package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/mvjl000/socnet-backend/src/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RedisPostCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisPostCache(rdb, time.Minute), mr
}

func TestSetAndGet(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	post := models.NewPost(models.NewUser("alice", "hash", ""), "t", "hello", time.Now().UTC().Truncate(time.Second))

	require.NoError(t, c.Set(ctx, post))
	assert.True(t, mr.Exists(PostKey(post.Id.Hex())))

	got, err := c.Get(ctx, post.Id.Hex())
	require.NoError(t, err)
	assert.Equal(t, post.Id, got.Id)
	assert.Equal(t, "hello", got.Content)
	assert.Equal(t, "alice", got.CreatorName)
}

func TestMissAndInvalidate(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	post := models.NewPost(models.NewUser("alice", "hash", ""), "", "hello", time.Now())

	_, err := c.Get(ctx, post.Id.Hex())
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, c.Set(ctx, post))
	require.NoError(t, c.Invalidate(ctx, post.Id.Hex()))

	_, err = c.Get(ctx, post.Id.Hex())
	assert.ErrorIs(t, err, ErrMiss)
	assert.NoError(t, c.Invalidate(ctx))
}

func TestEntriesExpire(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	post := models.NewPost(models.NewUser("alice", "hash", ""), "", "hello", time.Now())

	require.NoError(t, c.Set(ctx, post))
	mr.FastForward(2 * time.Minute)

	_, err := c.Get(ctx, post.Id.Hex())
	assert.ErrorIs(t, err, ErrMiss)
}

func TestSetSkippedWhileInvalidated(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	post := models.NewPost(models.NewUser("alice", "hash", ""), "", "hello", time.Now())
	id := post.Id.Hex()

	// a read that loaded the post before the invalidation must not store it
	require.NoError(t, c.Invalidate(ctx, id))
	assert.True(t, mr.Exists(TombstoneKey(id)))
	require.NoError(t, c.Set(ctx, post))

	_, err := c.Get(ctx, id)
	assert.ErrorIs(t, err, ErrMiss)

	mr.FastForward(TombstoneTTL + time.Second)
	require.NoError(t, c.Set(ctx, post))

	got, err := c.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Content)
}
