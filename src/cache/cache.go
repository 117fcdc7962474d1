// Package cache keeps single-post reads in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mvjl000/socnet-backend/src/models"
	"github.com/redis/go-redis/v9"
)

const (
	postKey      = "post:%s"             // <postID>
	tombstoneKey = "post:%s:invalidated" // <postID>
)

// TombstoneTTL is how long an invalidation blocks Set for the same post. It
// outlives the request timeout, so a read that started before a write cannot
// put its copy back once the write has invalidated the key.
const TombstoneTTL = 15 * time.Second

// ErrMiss means the post is not cached.
var ErrMiss = errors.New("cache miss")

// PostCache is read-through storage for single posts. Set is a no-op for a
// post invalidated less than TombstoneTTL ago.
type PostCache interface {
	Get(ctx context.Context, postID string) (*models.Post, error)
	Set(ctx context.Context, post *models.Post) error
	Invalidate(ctx context.Context, postIDs ...string) error
}

func PostKey(postID string) string {
	return fmt.Sprintf(postKey, postID)
}

func TombstoneKey(postID string) string {
	return fmt.Sprintf(tombstoneKey, postID)
}

// KEYS[1] post key, KEYS[2] tombstone key, ARGV[1] value, ARGV[2] ttl in ms.
var setUnlessInvalidated = redis.NewScript(`
if redis.call("EXISTS", KEYS[2]) == 1 then
	return 0
end
redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[2])
return 1
`)

type RedisPostCache struct {
	rdb          *redis.Client
	ttl          time.Duration
	tombstoneTTL time.Duration
}

func NewRedisPostCache(rdb *redis.Client, ttl time.Duration) *RedisPostCache {
	return &RedisPostCache{rdb: rdb, ttl: ttl, tombstoneTTL: TombstoneTTL}
}

func (c *RedisPostCache) Get(ctx context.Context, postID string) (*models.Post, error) {
	value, err := c.rdb.Get(ctx, PostKey(postID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}

	var post models.Post
	if err := json.Unmarshal(value, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *RedisPostCache) Set(ctx context.Context, post *models.Post) error {
	valueJSON, err := json.Marshal(post)
	if err != nil {
		return err
	}
	id := post.Id.Hex()
	keys := []string{PostKey(id), TombstoneKey(id)}
	return setUnlessInvalidated.Run(ctx, c.rdb, keys, valueJSON, c.ttl.Milliseconds()).Err()
}

func (c *RedisPostCache) Invalidate(ctx context.Context, postIDs ...string) error {
	if len(postIDs) == 0 {
		return nil
	}
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range postIDs {
			pipe.Set(ctx, TombstoneKey(id), 1, c.tombstoneTTL)
			pipe.Del(ctx, PostKey(id))
		}
		return nil
	})
	return err
}

// Noop is used when no Redis address is configured.
type Noop struct{}

func (Noop) Get(context.Context, string) (*models.Post, error) { return nil, ErrMiss }

func (Noop) Set(context.Context, *models.Post) error { return nil }

func (Noop) Invalidate(context.Context, ...string) error { return nil }
