package joblock

import (
	"context"
	"sync"
	"time"
)

type lease struct {
	token     uint64
	expiresAt time.Time
}

// LocalLocker is an in-process JobLocker for single-instance deployments.
type LocalLocker struct {
	mu     sync.Mutex
	leases map[string]lease
	seq    uint64
	now    func() time.Time
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{
		leases: make(map[string]lease),
		now:    time.Now,
	}
}

func (l *LocalLocker) TryLock(_ context.Context, key string, ttl time.Duration) (func(context.Context) error, bool, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if current, ok := l.leases[key]; ok && (current.expiresAt.IsZero() || current.expiresAt.After(now)) {
		return nil, false, nil
	}

	l.seq++
	held := lease{token: l.seq}
	if ttl > 0 {
		held.expiresAt = now.Add(ttl)
	}
	l.leases[key] = held

	release := func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		if current, ok := l.leases[key]; ok && current.token == held.token {
			delete(l.leases, key)
		}
		return nil
	}
	return release, true, nil
}
