package repository

import (
	"errors"

	fixture_errors "messenger-fixtures/pkg/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// mapError translates driver and gorm errors into package sentinels.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return fixture_errors.ErrAlreadyExists
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fixture_errors.ErrNotFound
	default:
		return err
	}
}
