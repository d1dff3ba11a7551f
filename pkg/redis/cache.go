package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// Cache stores collaborator lookups as JSON under a key prefix
// ⭐ SSOT: 캐시 헬퍼는 여기서만
type Cache struct {
	client *Client
	prefix string
}

// NewCache creates a new cache helper
func NewCache(client *Client, prefix string) *Cache {
	return &Cache{
		client: client,
		prefix: prefix,
	}
}

func (c *Cache) key(key string) string {
	return fmt.Sprintf("%s:cache:%s", c.prefix, key)
}

// Get retrieves a cached value. A miss or a Redis failure reports found=false;
// only a corrupt entry is an error.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !c.client.Enabled() {
		return false, nil
	}

	data, err := c.client.Redis().Get(ctx, c.key(key)).Bytes()
	if err != nil {
		// redis.Nil 또는 장애: 캐시 미스로 처리
		return false, nil
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal failed: %w", err)
	}

	return true, nil
}

// Set stores a value in cache with TTL
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.client.Enabled() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}

	return c.client.Redis().Set(ctx, c.key(key), data, ttl).Err()
}

// Delete removes a cached value
func (c *Cache) Delete(ctx context.Context, key string) error {
	if !c.client.Enabled() {
		return nil
	}
	return c.client.Redis().Del(ctx, c.key(key)).Err()
}

// GetOrLoad returns the cached value for key, or calls load and caches its result.
// Errors from load are returned and never cached.
func GetOrLoad[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var cached T
	if found, err := c.Get(ctx, key, &cached); err == nil && found {
		return cached, nil
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	// Best effort
	_ = c.Set(ctx, key, value, ttl)
	return value, nil
}

// Predefined TTLs
const (
	TTLAgreementStatus = 5 * time.Minute // 계약 상태 (서명 직후 변경 가능)
	TTLDebtFlag        = 24 * time.Hour  // 채무 조회 결과
)

// AgreementStatusKey is the cache key of an agreement status
func AgreementStatusKey(agreementID string) string {
	return fmt.Sprintf("agreement:status:%s", agreementID)
}

// DebtFlagKey is the cache key of a debt flag. The ssn is hashed so it never appears in Redis.
func DebtFlagKey(ssn string) string {
	sum := sha256.Sum256([]byte(ssn))
	return fmt.Sprintf("debt:flag:%s", hex.EncodeToString(sum[:]))
}
