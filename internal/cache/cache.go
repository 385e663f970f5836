package cache

import (
	"context"
	"errors"
	"log/slog"

	"github.com/graxinc/errutil"
	"github.com/redis/go-redis/v9"
)

const commandHashKey = "weathercast:command_set_hash"

// Cache remembers the hash of the last registered command set.
type Cache struct {
	c *redis.Client
	l *slog.Logger
}

func NewCache(url string, l *slog.Logger) (*Cache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, errutil.With(err)
	}
	c := redis.NewClient(opt)

	return &Cache{c, l}, nil
}

// CommandSetHash returns "" when no hash has been stored yet.
func (c *Cache) CommandSetHash(ctx context.Context, appID string) (string, error) {
	hash, err := c.c.Get(ctx, key(appID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", errutil.With(err)
	}

	return hash, nil
}

func (c *Cache) SetCommandSetHash(ctx context.Context, appID, hash string) error {
	if err := c.c.Set(ctx, key(appID), hash, 0).Err(); err != nil {
		return errutil.With(err)
	}

	c.l.Debug("stored command set hash", "app", appID, "hash", hash)
	return nil
}

func (c *Cache) Close() error {
	return c.c.Close()
}

func key(appID string) string {
	return commandHashKey + ":" + appID
}
