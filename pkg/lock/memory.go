package lock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type lease struct {
	expiresAt time.Time
	token     string
}

// Memory is an in-process Locker.
type Memory struct {
	leases map[string]lease
	now    func() time.Time
	mu     sync.Mutex
}

// NewMemory creates an empty in-process locker.
func NewMemory() *Memory {
	return &Memory{
		leases: make(map[string]lease),
		now:    time.Now,
	}
}

func (m *Memory) Acquire(_ context.Context, key string, ttl time.Duration) (ReleaseFunc, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if l, ok := m.leases[key]; ok && m.now().Before(l.expiresAt) {
		return nil, ErrLocked
	}

	token := uuid.NewString()
	m.leases[key] = lease{token: token, expiresAt: m.now().Add(ttl)}

	return func(context.Context) error {
		m.mu.Lock()
		defer m.mu.Unlock()

		l, ok := m.leases[key]
		if !ok || l.token != token {
			return ErrNotHeld
		}
		delete(m.leases, key)
		return nil
	}, nil
}
