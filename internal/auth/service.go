package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/cohort-tools/cohort-tools/internal/shared"
)

// Credentials hashes and verifies passwords.
type Credentials interface {
	Hash(password string) (string, string, error)
	Verify(password, storedHash string) bool
}

// TokenIssuer signs tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID, name string) (string, error)
}

// Service wraps authentication business rules.
type Service struct {
	repo        Repository
	credentials Credentials
	tokens      TokenIssuer

	decoyOnce sync.Once
	decoyHash string
}

// NewService constructs a new Service.
func NewService(repo Repository, credentials Credentials, tokens TokenIssuer) *Service {
	return &Service{repo: repo, credentials: credentials, tokens: tokens}
}

// Signup registers a new user. The email must not belong to another user.
func (s *Service) Signup(ctx context.Context, name, email, password string) (*User, error) {
	email = normalizeEmail(email)
	if err := CheckPolicy(password); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("check existing user: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: email already taken", shared.ErrConflict)
	}

	hash, salt, err := s.credentials.Hash(password)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.Create(ctx, User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		Salt:         salt,
	})
	if err != nil {
		if errors.Is(err, shared.ErrConflict) {
			return nil, fmt.Errorf("%w: email already taken", shared.ErrConflict)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Authenticate validates email/password credentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			// Unknown emails pay the same hashing cost as a wrong password.
			s.credentials.Verify(password, s.decoy())
			return nil, shared.ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.credentials.Verify(password, user.PasswordHash) {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates the user and issues a bearer token.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return "", err
	}
	token, err := s.tokens.Issue(user.ID, user.Name)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// decoy returns a hash produced with the live parameters. It never matches a
// submitted password because its input is random.
func (s *Service) decoy() string {
	s.decoyOnce.Do(func() {
		hash, _, err := s.credentials.Hash(uuid.NewString())
		if err == nil {
			s.decoyHash = hash
		}
	})
	return s.decoyHash
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
