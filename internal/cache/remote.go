package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	apperrors "bookmark-manager/internal/common/errors"
)

// RemoteStore is the contract the service needs from the networked tier.
// Implementations may fail on any call; they never retry.
type RemoteStore interface {
	// Get decodes the JSON payload stored at key into dest. A missing key
	// returns (false, nil).
	Get(ctx context.Context, key string, dest any) (bool, error)
	// Set stores value as JSON. ttl <= 0 stores without expiry.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// Scan returns a paged iterator over keys starting with prefix.
	Scan(prefix string, count int64) KeyScanner
}

// KeyScanner walks a cursor-based key scan one round trip at a time.
//
//	scanner := store.Scan("user:1:", 100)
//	for scanner.Next(ctx) {
//		handle(scanner.Keys())
//	}
//	if err := scanner.Err(); err != nil { ... }
type KeyScanner interface {
	Next(ctx context.Context) bool
	Keys() []string
	Err() error
}

// RedisStore implements RemoteStore and Broadcaster on go-redis.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisStore wraps an existing client. keyPrefix namespaces every key the
// store touches and is stripped from scanned keys.
func NewRedisStore(client *redis.Client, keyPrefix string) *RedisStore {
	return &RedisStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Get retrieves and decodes a value from Redis
func (r *RedisStore) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := r.client.Get(ctx, r.keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.FromStoreError("get", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, apperrors.SerializationError("failed to decode cached value", err).
			WithOp("get").
			WithContext("key", key)
	}
	return true, nil
}

// Set stores a value in Redis
func (r *RedisStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return apperrors.SerializationError("failed to encode cached value", err).
			WithOp("set").
			WithContext("key", key)
	}

	if ttl < 0 {
		ttl = 0
	}
	if err := r.client.Set(ctx, r.keyPrefix+key, data, ttl).Err(); err != nil {
		return apperrors.FromStoreError("set", err)
	}
	return nil
}

// Delete removes keys from Redis
func (r *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.keyPrefix + k
	}

	if err := r.client.Del(ctx, full...).Err(); err != nil {
		return apperrors.FromStoreError("delete", err)
	}
	return nil
}

// Scan starts a SCAN MATCH <prefix>* COUNT <count> walk
func (r *RedisStore) Scan(prefix string, count int64) KeyScanner {
	return &redisScanner{
		client:    r.client,
		match:     escapeGlob(r.keyPrefix+prefix) + "*",
		count:     count,
		keyPrefix: r.keyPrefix,
	}
}

// Ping checks if Redis is reachable
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// redisScanner performs one SCAN round trip per Next call. The walk is not a
// snapshot: keys written during the scan may or may not be visited.
type redisScanner struct {
	client    *redis.Client
	match     string
	count     int64
	keyPrefix string

	cursor uint64
	done   bool
	page   []string
	err    error
}

func (s *redisScanner) Next(ctx context.Context) bool {
	if s.done || s.err != nil {
		return false
	}

	keys, cursor, err := s.client.Scan(ctx, s.cursor, s.match, s.count).Result()
	if err != nil {
		s.err = apperrors.FromStoreError("scan", err)
		return false
	}

	s.cursor = cursor
	if cursor == 0 {
		s.done = true
	}

	s.page = make([]string, 0, len(keys))
	for _, k := range keys {
		s.page = append(s.page, strings.TrimPrefix(k, s.keyPrefix))
	}
	return true
}

func (s *redisScanner) Keys() []string {
	return s.page
}

func (s *redisScanner) Err() error {
	return s.err
}

// escapeGlob quotes the characters SCAN MATCH treats as pattern syntax so the
// prefix is matched literally.
func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
