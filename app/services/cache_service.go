package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/efine-sl/efine-api/utils"
	"github.com/redis/go-redis/v9"
)

// JSONCache stores JSON-encodable values with a TTL
type JSONCache interface {
	// Get decodes the cached value into dst and reports whether it was present
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type redisJSONCache struct {
	client *redis.Client
}

func NewRedisJSONCache(client *redis.Client) JSONCache {
	return &redisJSONCache{client: client}
}

func (c *redisJSONCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

func (c *redisJSONCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	return c.client.Set(ctx, key, raw, ttl).Err()
}

func (c *redisJSONCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// NoopJSONCache never stores anything
type NoopJSONCache struct{}

func (NoopJSONCache) Get(context.Context, string, any) (bool, error)        { return false, nil }
func (NoopJSONCache) Set(context.Context, string, any, time.Duration) error { return nil }
func (NoopJSONCache) Delete(context.Context, string) error                  { return nil }

// PendingEnrollment is the server-side half of a registration started with init
type PendingEnrollment struct {
	SecretHash string `json:"secret_hash"`
	Role       string `json:"role"`
	CreatedAt  int64  `json:"created_at"`
}

// PendingEnrollmentStore holds registrations between init and complete, one per email
type PendingEnrollmentStore interface {
	Put(ctx context.Context, email string, p PendingEnrollment) error
	// Take returns and removes the pending record, or nil when none is live
	Take(ctx context.Context, email string) (*PendingEnrollment, error)
}

type redisPendingEnrollmentStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisPendingEnrollmentStore(client *redis.Client, ttl time.Duration) PendingEnrollmentStore {
	if ttl <= 0 {
		ttl = utils.PendingEnrollmentTTL
	}
	return &redisPendingEnrollmentStore{client: client, ttl: ttl}
}

func pendingEnrollmentKey(email string) string {
	return "efine:admin-enroll:" + HashSecret(utils.NormalizeEmail(email))
}

func (s *redisPendingEnrollmentStore) Put(ctx context.Context, email string, p PendingEnrollment) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, pendingEnrollmentKey(email), raw, s.ttl).Err()
}

// Take uses GETDEL so two concurrent completions cannot both consume the record
func (s *redisPendingEnrollmentStore) Take(ctx context.Context, email string) (*PendingEnrollment, error) {
	raw, err := s.client.GetDel(ctx, pendingEnrollmentKey(email)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read pending enrollment: %w", err)
	}
	var p PendingEnrollment
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("failed to decode pending enrollment: %w", err)
	}
	return &p, nil
}

// HashSecret returns the hex SHA-256 of s; used so raw TOTP secrets never reach the cache
func HashSecret(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
