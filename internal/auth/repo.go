package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cohort-tools/cohort-tools/internal/platform/db"
)

// Repository defines persistence operations for auth module.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, user User) (*User, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewRepository constructs a PostgreSQL repository. Each call is bounded by timeout.
func NewRepository(pool *pgxpool.Pool, timeout time.Duration) *PGRepository {
	return &PGRepository{pool: pool, timeout: timeout}
}

const userColumns = `id, name, email, password_hash, salt, created_at, updated_at`

// FindByEmail fetches a user by email, case-insensitively.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	ctx, cancel := db.Bound(ctx, r.timeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
	user, err := scanUser(row)
	if err != nil {
		return nil, db.MapError("auth: find user by email", err)
	}
	return user, nil
}

// Create inserts a user. A duplicate email surfaces as shared.ErrConflict.
func (r *PGRepository) Create(ctx context.Context, user User) (*User, error) {
	ctx, cancel := db.Bound(ctx, r.timeout)
	defer cancel()

	id, err := uuid.Parse(user.ID)
	if err != nil {
		id = uuid.New()
	}
	now := time.Now().UTC()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (id, name, email, password_hash, salt, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING `+userColumns,
		id, user.Name, user.Email, user.PasswordHash, user.Salt,
		pgtype.Timestamptz{Time: now, Valid: true},
	)
	created, err := scanUser(row)
	if err != nil {
		return nil, db.MapError("auth: create user", err)
	}
	return created, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	var (
		u                    User
		id                   uuid.UUID
		createdAt, updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(&id, &u.Name, &u.Email, &u.PasswordHash, &u.Salt, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	u.ID = id.String()
	u.CreatedAt = createdAt.Time
	u.UpdatedAt = updatedAt.Time
	return &u, nil
}

var _ Repository = (*PGRepository)(nil)
