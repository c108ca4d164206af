package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/authflow/internal/client/config"
	"github.com/dmitrijs2005/authflow/internal/client/session"
	"github.com/dmitrijs2005/authflow/internal/filex"
	"github.com/redis/go-redis/v9"
)

const sqliteInMemory = ":memory:"

// openBackend builds the session backend selected in c. The returned func
// releases its resources.
func openBackend(ctx context.Context, c *config.Config) (session.Backend, func() error, error) {
	switch c.SessionBackend {
	case config.BackendMemory:
		return session.NewMemoryBackend(), func() error { return nil }, nil

	case config.BackendSQLite:
		path := c.SessionPath
		if path != sqliteInMemory {
			var err error
			if path, err = filex.EnsureParentDir(path); err != nil {
				return nil, nil, err
			}
		}
		b, db, err := session.OpenSQLiteBackend(ctx, path)
		if err != nil {
			return nil, nil, err
		}
		return b, db.Close, nil

	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{Addr: c.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("redis ping %s: %w", c.RedisAddr, err)
		}
		return session.NewRedisBackend(rdb, c.RedisPrefix, c.RedisTTL), rdb.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown session backend %q", c.SessionBackend)
	}
}
