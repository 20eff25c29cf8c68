package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireReportLock attempts to acquire the generation lock for a
// (year, owner) pair. Returns true if the lock was acquired, false if
// already held.
func (s *LockStore) AcquireReportLock(ctx context.Context, year int, ownerID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:report:%s:%d", ownerID, year)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseReportLock releases the generation lock for a (year, owner) pair.
func (s *LockStore) ReleaseReportLock(ctx context.Context, year int, ownerID string) error {
	key := fmt.Sprintf("lock:report:%s:%d", ownerID, year)

	return s.client.Del(ctx, key).Err()
}
