package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// UniqueViolation - SQLSTATE нарушения уникального ограничения.
const UniqueViolation = "23505"

// IsUniqueViolation сообщает, вызвана ли ошибка нарушением уникального ограничения.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == UniqueViolation
}
