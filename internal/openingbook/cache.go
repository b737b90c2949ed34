package openingbook

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheKey holds the raw opening table.
const CacheKey = "dm:eco:table"

// Cache stores the raw table between process restarts.
type Cache interface {
	Get(ctx context.Context) ([]byte, bool, error)
	Set(ctx context.Context, raw []byte) error
}

type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(redisURL string, ttl time.Duration) (*RedisCache, error) {
	if strings.TrimSpace(redisURL) == "" {
		return nil, errors.New("redis url required for opening cache")
	}
	opts, err := parseRedisURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisCache{rdb: rdb, ttl: ttl}, nil
}

func (c *RedisCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func (c *RedisCache) Get(ctx context.Context) ([]byte, bool, error) {
	raw, err := c.rdb.Get(ctx, CacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read opening cache: %w", err)
	}
	return raw, true, nil
}

// Set stores raw; a zero ttl keeps it without expiry.
func (c *RedisCache) Set(ctx context.Context, raw []byte) error {
	if err := c.rdb.Set(ctx, CacheKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("write opening cache: %w", err)
	}
	return nil
}

func parseRedisURL(raw string) (*redis.Options, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "redis" && u.Scheme != "rediss" {
		return nil, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	db := 0
	if p := strings.TrimPrefix(u.Path, "/"); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			db = n
		}
	}
	pass, _ := u.User.Password()
	return &redis.Options{Addr: u.Host, Password: pass, DB: db}, nil
}
