package redis

import (
	"context"
	"time"
)

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireReportLock(ctx context.Context, year int, ownerID string, ttl time.Duration) (bool, error)
	ReleaseReportLock(ctx context.Context, year int, ownerID string) error
}

// Ensure concrete types implement interfaces.
var _ LockStoreInterface = (*LockStore)(nil)
