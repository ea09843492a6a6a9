package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/cohort-tools/cohort-tools/internal/shared"
)

type memoryRepo struct {
	mu        sync.Mutex
	byEmail   map[string]User
	findErr   error
	createErr error
	creates   int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{byEmail: make(map[string]User)}
}

func (m *memoryRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	u, ok := m.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &u, nil
}

func (m *memoryRepo) Create(ctx context.Context, user User) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return nil, m.createErr
	}
	key := strings.ToLower(user.Email)
	if _, ok := m.byEmail[key]; ok {
		return nil, shared.ErrConflict
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	m.byEmail[key] = user
	m.creates++
	return &user, nil
}
