// Package ratelimit backs the Fiber limiter with Redis so request counts are
// shared across instances.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const opTimeout = 2 * time.Second

// RedisStorage implements fiber.Storage on a Redis client. Keys are
// namespaced with prefix.
type RedisStorage struct {
	rdb    goredis.UniversalClient
	prefix string
}

// NewRedisStorage connects to url (redis://...) and verifies the connection.
func NewRedisStorage(ctx context.Context, url, prefix string) (*RedisStorage, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.DialTimeout = 5 * time.Second

	rdb := goredis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisStorageFromClient(rdb, prefix), nil
}

func NewRedisStorageFromClient(rdb goredis.UniversalClient, prefix string) *RedisStorage {
	return &RedisStorage{rdb: rdb, prefix: prefix}
}

func (s *RedisStorage) key(k string) string {
	return s.prefix + k
}

// Get returns nil without error for a missing key.
func (s *RedisStorage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	val, err := s.rdb.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	return val, err
}

func (s *RedisStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	return s.rdb.Set(ctx, s.key(key), val, exp).Err()
}

func (s *RedisStorage) Delete(key string) error {
	if key == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	return s.rdb.Del(ctx, s.key(key)).Err()
}

// Reset removes every key under the prefix.
func (s *RedisStorage) Reset() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*opTimeout)
	defer cancel()

	iter := s.rdb.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 100 {
			if err := s.rdb.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return s.rdb.Del(ctx, batch...).Err()
	}
	return nil
}

func (s *RedisStorage) Close() error {
	return s.rdb.Close()
}
