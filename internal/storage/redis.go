package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore marks download URLs whose judgments have already been inserted,
// so re-runs over the same page range skip work they have done before.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(addr string, ttl time.Duration) *RedisStore {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	return &RedisStore{client: rdb, ttl: ttl}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// MarkIngested records that the judgment behind url has been persisted.
func (s *RedisStore) MarkIngested(ctx context.Context, url string) error {
	return s.client.Set(ctx, ingestKey(url), "1", s.ttl).Err()
}

// IsIngested reports whether url was marked within the TTL window.
func (s *RedisStore) IsIngested(ctx context.Context, url string) (bool, error) {
	n, err := s.client.Exists(ctx, ingestKey(url)).Result()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// URLs can exceed redis key-size comfort and carry odd characters; hash them.
func ingestKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return fmt.Sprintf("ingested:%s", hex.EncodeToString(sum[:]))
}
