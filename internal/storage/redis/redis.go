// Package redis holds a short-TTL cache of authenticated users keyed by
// email. It only shortcuts the per-request user lookup; Postgres remains the
// source of truth, so every mutation of a user must call Invalidate.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"contacts_service/internal/models"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

type UserCache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(ctx context.Context, addr, pass string, db int, ttl time.Duration) (*UserCache, error) {
	const op = "storage.redis.New"

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     pass,
		DB:           db,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &UserCache{
		client: client,
		ttl:    ttl,
	}, nil
}

func (c *UserCache) Get(ctx context.Context, email string) (models.User, error) {
	const op = "storage.redis.Get"

	data, err := c.client.Get(ctx, key(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.User{}, ErrCacheMiss
		}

		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	var u models.User
	if err := json.Unmarshal(data, &u); err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return u, nil
}

func (c *UserCache) Set(ctx context.Context, u models.User) error {
	const op = "storage.redis.Set"

	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := c.client.Set(ctx, key(u.Email), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (c *UserCache) Invalidate(ctx context.Context, email string) error {
	const op = "storage.redis.Invalidate"

	if err := c.client.Del(ctx, key(email)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (c *UserCache) Close() error {
	return c.client.Close()
}

func key(email string) string {
	return fmt.Sprintf("user:current:%s", email)
}
