package db

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/cohort-tools/cohort-tools/internal/shared"
)

const (
	uniqueViolation  = "23505"
	invalidTextInput = "22P02"
)

// MapError translates driver errors into the shared error taxonomy.
// op names the failing operation and is kept in the wrapped message.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, shared.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return fmt.Errorf("%s: %w: %s", op, shared.ErrConflict, pgErr.ConstraintName)
		case invalidTextInput:
			return fmt.Errorf("%s: %w", op, shared.ErrNotFound)
		}
	}
	return fmt.Errorf("%s: %w: %w", op, shared.ErrStore, err)
}
