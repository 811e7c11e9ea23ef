package ports

import (
	"context"
	"time"
)

// UnlockFunc is a function that releases a distributed lock.
type UnlockFunc func(ctx context.Context) error

// Locker provides mutual exclusion across processes sharing a SignatureCache.
// Trees use it so that only one replica expands a given rule at a time.
type Locker interface {
	// Lock blocks until the lock for key is acquired or ctx is canceled.
	// The lock expires after ttl even if never released.
	// Returns an UnlockFunc that MUST be called to release the lock.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
