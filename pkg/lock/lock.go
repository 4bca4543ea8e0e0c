package lock

import (
	"context"
	"time"
)

// ReleaseFunc gives up a lease.
type ReleaseFunc func(ctx context.Context) error

// Locker hands out exclusive leases.
type Locker interface {
	// Acquire takes the lease for key or fails with ErrLocked.
	Acquire(ctx context.Context, key string, ttl time.Duration) (ReleaseFunc, error)
}
