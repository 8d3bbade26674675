package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/roach88/selfcare/internal/model"
)

// RedisOptions configures the Redis backend.
type RedisOptions struct {
	Address  string
	Password string
	DB       int
	// Prefix is prepended to every key, e.g. "selfcare:".
	Prefix string
}

// Redis is a Gateway backed by plain Redis string values.
type Redis struct {
	client *redis.Client
	prefix string
}

// OpenRedis connects to Redis and pings it once.
func OpenRedis(ctx context.Context, opts RedisOptions) (*Redis, error) {
	if opts.Address == "" {
		return nil, errors.New("redis address is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Address,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Address, err)
	}
	return NewRedis(client, opts.Prefix), nil
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) key(k string) string { return r.prefix + k }

// Get implements Gateway.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &model.PersistenceError{Op: "get", Key: key, Err: err}
	}
	return v, true, nil
}

// Set implements Gateway.
func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return &model.PersistenceError{Op: "set", Key: key, Err: err}
	}
	return nil
}

// Remove implements Gateway.
func (r *Redis) Remove(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return &model.PersistenceError{Op: "remove", Key: key, Err: err}
	}
	return nil
}

// Close closes the client.
func (r *Redis) Close() error { return r.client.Close() }
