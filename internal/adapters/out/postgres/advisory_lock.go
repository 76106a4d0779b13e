package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"gorm.io/gorm"
)

// acquirePollInterval is how often TryAcquire re-attempts a contended lock
// while waiting out maxWait.
const acquirePollInterval = 500 * time.Millisecond

// PgAdvisoryLock implements distributed locking on top of Postgres
// session-level advisory locks. Each acquired lock pins a dedicated
// connection for its lifetime so that release happens on the same session
// that took the lock.
type PgAdvisoryLock struct {
	db *gorm.DB

	mu    sync.Mutex
	conns map[string]*sql.Conn
}

// NewPgAdvisoryLock creates an advisory lock backed by the given database
// connection pool.
func NewPgAdvisoryLock(db *gorm.DB) *PgAdvisoryLock {
	return &PgAdvisoryLock{
		db:    db,
		conns: make(map[string]*sql.Conn),
	}
}

// TryAcquire attempts to take the named lock, retrying until maxWait elapses.
// It returns false without error when the lock is held by another session for
// the whole waiting period.
func (l *PgAdvisoryLock) TryAcquire(ctx context.Context, name string, maxWait time.Duration) (bool, error) {
	l.mu.Lock()
	if _, held := l.conns[name]; held {
		l.mu.Unlock()
		return false, fmt.Errorf("advisory lock %q is already held by this instance", name)
	}
	l.mu.Unlock()

	sqlDB, err := l.db.DB()
	if err != nil {
		return false, fmt.Errorf("get sql db: %w", err)
	}

	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return false, fmt.Errorf("acquire connection: %w", err)
	}

	key := lockKey(name)
	deadline := time.Now().Add(maxWait)

	for {
		var acquired bool
		if err := conn.QueryRowContext(ctx, "SELECT pg_try_advisory_lock($1)", key).Scan(&acquired); err != nil {
			_ = conn.Close()
			return false, fmt.Errorf("try advisory lock %q: %w", name, err)
		}

		if acquired {
			l.mu.Lock()
			l.conns[name] = conn
			l.mu.Unlock()
			return true, nil
		}

		if time.Now().After(deadline) {
			_ = conn.Close()
			return false, nil
		}

		select {
		case <-ctx.Done():
			_ = conn.Close()
			return false, ctx.Err()
		case <-time.After(acquirePollInterval):
		}
	}
}

// Release unlocks the named lock and returns its connection to the pool.
// Releasing a lock that was never acquired is a no-op.
func (l *PgAdvisoryLock) Release(ctx context.Context, name string) error {
	l.mu.Lock()
	conn, held := l.conns[name]
	delete(l.conns, name)
	l.mu.Unlock()

	if !held {
		return nil
	}

	defer conn.Close()

	var released bool
	if err := conn.QueryRowContext(ctx, "SELECT pg_advisory_unlock($1)", lockKey(name)).Scan(&released); err != nil {
		return fmt.Errorf("release advisory lock %q: %w", name, err)
	}
	if !released {
		return fmt.Errorf("advisory lock %q was not held by this session", name)
	}

	return nil
}

// lockKey maps a lock name onto the int64 key space Postgres advisory locks
// use.
func lockKey(name string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return int64(h.Sum64())
}
