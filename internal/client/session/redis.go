package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBackend stores the token under <prefix>token, optionally with a TTL
// after which the session silently disappears.
type RedisBackend struct {
	rdb    redis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewRedisBackend returns a backend over rdb. A zero ttl keeps the key until
// it is deleted.
func NewRedisBackend(rdb redis.Cmdable, prefix string, ttl time.Duration) *RedisBackend {
	return &RedisBackend{rdb: rdb, prefix: prefix, ttl: ttl}
}

var _ Backend = (*RedisBackend)(nil)

func (b *RedisBackend) key() string { return b.prefix + Key }

func (b *RedisBackend) Load(ctx context.Context) (Token, bool, error) {
	v, err := b.rdb.Get(ctx, b.key()).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", b.key(), err)
	}
	return Token(v), true, nil
}

func (b *RedisBackend) Save(ctx context.Context, tok Token) error {
	if err := b.rdb.Set(ctx, b.key(), string(tok), b.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", b.key(), err)
	}
	return nil
}

func (b *RedisBackend) Delete(ctx context.Context) error {
	if err := b.rdb.Del(ctx, b.key()).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", b.key(), err)
	}
	return nil
}
