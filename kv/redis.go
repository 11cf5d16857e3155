// ABOUTME: Redis storage backend for the key-value client
// ABOUTME: Lets several monitor hosts share one set of alert preferences

package kv

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

const defaultRedisTimeout = 3 * time.Second

// RedisBackend stores keys in redis under a namespace prefix.
type RedisBackend struct {
	client    *redis.Client
	namespace string
	timeout   time.Duration
}

// NewRedisBackend wraps a redis client. Keys are stored as namespace + key.
func NewRedisBackend(client *redis.Client, namespace string) *RedisBackend {
	return &RedisBackend{
		client:    client,
		namespace: namespace,
		timeout:   defaultRedisTimeout,
	}
}

func (r *RedisBackend) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), r.timeout)
}

func (r *RedisBackend) Get(key []byte) ([]byte, error) {
	ctx, cancel := r.ctx()
	defer cancel()

	val, err := r.client.Get(ctx, r.namespace+string(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return val, err
}

func (r *RedisBackend) Set(key, value []byte) error {
	ctx, cancel := r.ctx()
	defer cancel()

	err := r.client.Set(ctx, r.namespace+string(key), value, 0).Err()
	if err != nil && strings.HasPrefix(err.Error(), "OOM") {
		return errors.Join(ErrQuotaExceeded, err)
	}
	return err
}

func (r *RedisBackend) Delete(key []byte) error {
	ctx, cancel := r.ctx()
	defer cancel()
	return r.client.Del(ctx, r.namespace+string(key)).Err()
}

func (r *RedisBackend) Keys(prefix []byte) ([][]byte, error) {
	ctx, cancel := r.ctx()
	defer cancel()

	var keys [][]byte
	iter := r.client.Scan(ctx, 0, r.namespace+string(prefix)+"*", 100).Iterator()
	for iter.Next(ctx) {
		k := strings.TrimPrefix(iter.Val(), r.namespace)
		keys = append(keys, []byte(k))
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

func (r *RedisBackend) Reset() error {
	keys, err := r.Keys(nil)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}

	ctx, cancel := r.ctx()
	defer cancel()

	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, r.namespace+string(k))
	}
	return r.client.Del(ctx, full...).Err()
}

func (r *RedisBackend) Close() error {
	return r.client.Close()
}
