package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Ошибки хранилища, на которые опирается бизнес-логика.
var (
	// ErrNotFound запись не найдена.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken email уже занят другим участником (нарушение users_email_key).
	ErrEmailTaken = errors.New("email already taken")
	// ErrUniqueViolation прочее нарушение уникального ограничения.
	ErrUniqueViolation = errors.New("unique constraint violation")
)

const uniqueViolationCode = "23505"

// mapUniqueViolation переводит ошибку драйвера в доменную ошибку хранилища.
// Нарушение уникальности email выделяется отдельно: форма участия сообщает
// о нём собственным кодом причины.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		if pgErr.ConstraintName == "users_email_key" {
			return ErrEmailTaken
		}
		return ErrUniqueViolation
	}
	return nil
}
