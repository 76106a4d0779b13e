package ports

import (
	"context"
	"time"
)

// AdvisoryLock is a database backed mutual exclusion primitive for singleton
// background workers. Only the connection that acquired a lock may release it.
type AdvisoryLock interface {
	// TryAcquire attempts to take the named lock, retrying until it is
	// acquired or maxWait elapses. Returns false without error when the lock
	// is held elsewhere for the whole window.
	TryAcquire(ctx context.Context, name string, maxWait time.Duration) (bool, error)

	// Release frees the named lock. Safe to call when the lock was never
	// acquired by this holder; such calls are no-ops.
	Release(ctx context.Context, name string) error
}
