package users

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cohort-tools/cohort-tools/internal/platform/db"
	"github.com/cohort-tools/cohort-tools/internal/shared"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool, timeout time.Duration) *Repository {
	return &Repository{pool: pool, timeout: timeout}
}

// GetUser loads the public columns of a user.
func (r *Repository) GetUser(ctx context.Context, id string) (*User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	ctx, cancel := db.Bound(ctx, r.timeout)
	defer cancel()

	var (
		user User
		key  uuid.UUID
	)
	err = r.pool.QueryRow(ctx, `SELECT id, name, email, created_at, updated_at FROM users WHERE id = $1`, uid).
		Scan(&key, &user.Name, &user.Email, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, db.MapError("users: get", err)
	}
	user.ID = key.String()
	return &user, nil
}
