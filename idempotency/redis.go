package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// cmdable is the part of *redis.Client the store needs.
type cmdable interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

var _ Store = (*RedisStore)(nil)

type RedisStore struct {
	cli    cmdable
	prefix string
	ttl    time.Duration
}

// NewRedisClient connects and pings.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	c := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := c.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return c, nil
}

func NewRedisStore(cli cmdable, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{cli: cli, prefix: "idem:", ttl: ttl}
}

func (s *RedisStore) Begin(ctx context.Context, key string) (Entry, bool, error) {
	if key == "" {
		return Entry{}, false, ErrEmptyKey
	}
	pending, _ := json.Marshal(Entry{Pending: true})

	ok, err := s.cli.SetNX(ctx, s.prefix+key, pending, s.ttl).Result()
	if err != nil {
		return Entry{}, false, fmt.Errorf("claim idempotency key: %w", err)
	}
	if ok {
		return Entry{}, true, nil
	}

	raw, err := s.cli.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		// expired between SETNX and GET; treat as in flight, the client retries
		return Entry{Pending: true}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("read idempotency key: %w", err)
	}
	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return Entry{}, false, fmt.Errorf("decode idempotency entry: %w", err)
	}
	return e, false, nil
}

func (s *RedisStore) Complete(ctx context.Context, key string, code int, body []byte) error {
	data, err := json.Marshal(Entry{Code: code, Body: body})
	if err != nil {
		return err
	}
	return s.cli.Set(ctx, s.prefix+key, data, s.ttl).Err()
}

func (s *RedisStore) Abort(ctx context.Context, key string) error {
	return s.cli.Del(ctx, s.prefix+key).Err()
}
