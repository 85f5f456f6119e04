// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package local

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// redisClient is the subset of *redis.Client a RedisSnapshot needs.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Close() error
}

// RedisSnapshot keeps the snapshot as a string value under Key.
type RedisSnapshot struct {
	client redisClient
	addr   string
	Key    string
}

// NewRedisSnapshot connects to the server described by rawURL
// (redis://[:password@]host:port/db) and pings it.
func NewRedisSnapshot(ctx context.Context, rawURL, key string) (*RedisSnapshot, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	client := redis.NewClient(opts)
	if _, err := client.Ping(pingCtx).Result(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("error setting up new redis client: %w", err)
	}

	return newRedisSnapshot(client, opts.Addr, key), nil
}

func newRedisSnapshot(client redisClient, addr, key string) *RedisSnapshot {
	if key == "" {
		key = DefaultKey
	}
	return &RedisSnapshot{client: client, addr: addr, Key: key}
}

func (s *RedisSnapshot) Load(ctx context.Context) ([]byte, error) {
	val, err := s.client.Get(ctx, s.Key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("error getting snapshot from redis: %w", err)
	}
	return []byte(val), nil
}

func (s *RedisSnapshot) Save(ctx context.Context, data []byte) error {
	if err := s.client.Set(ctx, s.Key, string(data), 0).Err(); err != nil {
		return fmt.Errorf("error writing snapshot to redis: %w", err)
	}
	return nil
}

func (s *RedisSnapshot) Close() error {
	return s.client.Close()
}

func (s *RedisSnapshot) String() string {
	return fmt.Sprintf("redis %s key=%s", s.addr, s.Key)
}
