package auth_test

import (
	"context"
	"sync"
	"time"

	"github.com/alexa091904/semi-project/internal/auth"

	"github.com/google/uuid"
)

type memStore struct {
	mu       sync.Mutex
	admins   map[uuid.UUID]*auth.Admin
	sessions map[uuid.UUID]*auth.Session
}

func newMemStore() *memStore {
	return &memStore{
		admins:   make(map[uuid.UUID]*auth.Admin),
		sessions: make(map[uuid.UUID]*auth.Session),
	}
}

func (m *memStore) CreateAdmin(_ context.Context, admin *auth.Admin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *admin
	copied.CreatedAt = time.Now()
	copied.UpdatedAt = copied.CreatedAt
	m.admins[admin.ID] = &copied
	return nil
}

func (m *memStore) GetAdminByUsername(_ context.Context, username string) (*auth.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.admins {
		if a.Username == username {
			copied := *a
			return &copied, nil
		}
	}
	return nil, auth.ErrAdminNotFound
}

func (m *memStore) GetAdminByID(_ context.Context, id uuid.UUID) (*auth.Admin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.admins[id]
	if !ok {
		return nil, auth.ErrAdminNotFound
	}
	copied := *a
	return &copied, nil
}

func (m *memStore) UpdateProfile(_ context.Context, admin *auth.Admin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *admin
	m.admins[admin.ID] = &copied
	return nil
}

func (m *memStore) CreateSession(_ context.Context, session *auth.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *session
	m.sessions[session.ID] = &copied
	return nil
}

func (m *memStore) GetSession(_ context.Context, id uuid.UUID) (*auth.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, auth.ErrSessionNotFound
	}
	copied := *s
	if a, ok := m.admins[s.AdminID]; ok {
		admin := *a
		copied.Admin = &admin
	}
	return &copied, nil
}

func (m *memStore) TouchSession(_ context.Context, id uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		s.LastSeenAt = at
	}
	return nil
}

func (m *memStore) DeleteSession(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// ageSessions moves every session's last activity back by d.
func (m *memStore) ageSessions(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		s.LastSeenAt = s.LastSeenAt.Add(-d)
	}
}

func (m *memStore) sessionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

type countingLimiter struct {
	failures map[string]int
	locked   time.Duration
	resets   int
}

func (l *countingLimiter) LockedFor(context.Context, string) (time.Duration, error) {
	return l.locked, nil
}

func (l *countingLimiter) RecordFailure(_ context.Context, key string) error {
	if l.failures == nil {
		l.failures = make(map[string]int)
	}
	l.failures[key]++
	return nil
}

func (l *countingLimiter) Reset(context.Context, string) error {
	l.resets++
	return nil
}
