package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

type cmdable interface {
	Ping(context.Context) *redis.StatusCmd
	Get(context.Context, string) *redis.StringCmd
	Set(context.Context, string, any, time.Duration) *redis.StatusCmd
	Del(context.Context, ...string) *redis.IntCmd
}

// RedisOptions configures NewRedisClient.
type RedisOptions struct {
	URL      string
	Addr     string
	Password string
	DB       int
}

// NewRedisClient builds a client from a URL or a plain address and pings it.
func NewRedisClient(ctx context.Context, opts RedisOptions) (*redis.Client, error) {
	var ro *redis.Options
	switch {
	case opts.URL != "":
		parsed, err := redis.ParseURL(opts.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		ro = parsed
	case opts.Addr != "":
		ro = &redis.Options{Addr: opts.Addr, Password: opts.Password, DB: opts.DB}
	default:
		return nil, errors.New("redis url or address is required")
	}
	if ro.DB == 0 {
		ro.DB = opts.DB
	}
	client := redis.NewClient(ro)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// RedisStore keeps sessions as JSON values under prefix:chatID.
type RedisStore[T any] struct {
	store  cmdable
	prefix string
	ttl    time.Duration
}

// NewRedisStore wraps client. A zero ttl keeps sessions until deleted.
func NewRedisStore[T any](client *redis.Client, prefix string, ttl time.Duration) *RedisStore[T] {
	return newRedisStore[T](client, prefix, ttl)
}

func newRedisStore[T any](c cmdable, prefix string, ttl time.Duration) *RedisStore[T] {
	if prefix == "" {
		prefix = "session"
	}
	return &RedisStore[T]{store: c, prefix: prefix, ttl: ttl}
}

// Key returns the redis key holding chatID's session.
func (r *RedisStore[T]) Key(chatID int64) string {
	return r.prefix + ":" + strconv.FormatInt(chatID, 10)
}

// Load decodes the session for chatID or returns ErrNotFound.
func (r *RedisStore[T]) Load(ctx context.Context, chatID int64) (T, error) {
	var v T
	raw, err := r.store.Get(ctx, r.Key(chatID)).Result()
	if errors.Is(err, redis.Nil) {
		return v, ErrNotFound
	}
	if err != nil {
		return v, fmt.Errorf("state: redis get: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return v, fmt.Errorf("state: decode session: %w", err)
	}
	return v, nil
}

// Save encodes v and stores it with the configured ttl.
func (r *RedisStore[T]) Save(ctx context.Context, chatID int64, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("state: encode session: %w", err)
	}
	if err := r.store.Set(ctx, r.Key(chatID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("state: redis set: %w", err)
	}
	return nil
}

// Delete removes the session for chatID.
func (r *RedisStore[T]) Delete(ctx context.Context, chatID int64) error {
	if err := r.store.Del(ctx, r.Key(chatID)).Err(); err != nil {
		return fmt.Errorf("state: redis del: %w", err)
	}
	return nil
}
