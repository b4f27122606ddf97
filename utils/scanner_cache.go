package utils

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// ScannerKeyCache remembers the hash of the last verified gate-scanner key per lot.
type ScannerKeyCache struct {
	Client *redis.Client
}

func NewScannerKeyCache(client *redis.Client) *ScannerKeyCache {
	return &ScannerKeyCache{Client: client}
}

func scannerCacheKey(lotID string) string {
	return ScannerCachePrefix + lotID
}

// VerifiedKey returns the cached key hash for the lot, or "" when none is cached.
func (c *ScannerKeyCache) VerifiedKey(ctx context.Context, lotID string) (string, error) {
	hash, err := c.Client.Get(ctx, scannerCacheKey(lotID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read scanner cache: %w", err)
	}
	return hash, nil
}

func (c *ScannerKeyCache) RememberKey(ctx context.Context, lotID, keyHash string) error {
	return c.Client.Set(ctx, scannerCacheKey(lotID), keyHash, ScannerCacheTTL).Err()
}

// ForgetLot drops the lot's cached key so the next request is checked against the store.
func (c *ScannerKeyCache) ForgetLot(ctx context.Context, lotID string) error {
	if err := c.Client.Del(ctx, scannerCacheKey(lotID)).Err(); err != nil {
		return fmt.Errorf("failed to clear scanner cache: %w", err)
	}
	return nil
}
