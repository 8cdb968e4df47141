package pgdb

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// postgresDuplicate сообщает о нарушении уникального ограничения.
// Если constraint не пуст, проверяется и его имя.
func postgresDuplicate(err error, constraint ...string) bool {
	return pgErrorIs(err, uniqueViolation, constraint...)
}

// postgresForeignKey сообщает о нарушении внешнего ключа.
func postgresForeignKey(err error, constraint ...string) bool {
	return pgErrorIs(err, foreignKeyViolation, constraint...)
}

func pgErrorIs(err error, code string, constraint ...string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != code {
		return false
	}

	if len(constraint) == 0 {
		return true
	}

	for _, c := range constraint {
		if pgErr.ConstraintName == c {
			return true
		}
	}

	return false
}

func noRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
