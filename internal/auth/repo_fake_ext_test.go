package auth_test

import (
	"context"
	"strings"
	"sync"

	"github.com/cohort-tools/cohort-tools/internal/auth"
	"github.com/cohort-tools/cohort-tools/internal/shared"
)

type repo struct {
	mu    sync.Mutex
	users map[string]auth.User
}

func newRepo() *repo {
	return &repo{users: make(map[string]auth.User)}
}

func (r *repo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[strings.ToLower(email)]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &u, nil
}

func (r *repo) Create(ctx context.Context, user auth.User) (*auth.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(user.Email)
	if _, ok := r.users[key]; ok {
		return nil, shared.ErrConflict
	}
	r.users[key] = user
	return &user, nil
}
