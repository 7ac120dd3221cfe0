package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/radiocomunidad/radio-community/internal/models"
)

// CreateUser сохраняет нового участника в базу данных и возвращает его ID.
// Нарушение уникальности email транслируется в ErrEmailTaken.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (int64, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID int64
	query := `INSERT INTO users (name, email, password_hash, role, membership_status,
			      membership_paid_at, payment_method, voting_rights, score, level, phone)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Name, user.Email, user.PasswordHash, user.Role, user.MembershipStatus,
		user.MembershipPaidAt, user.PaymentMethod, user.VotingRights, user.Score,
		user.Level, user.Phone).Scan(&newID); err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return 0, fmt.Errorf("%s: %w", op, mapped)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUserByEmail возвращает участника по email. Мягко удалённые не учитываются.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, email, password_hash, role, membership_status,
			      membership_paid_at, payment_method, voting_rights, score, level, phone,
			      created_at, updated_at, deleted_at
			  FROM users
			  WHERE email = $1 AND deleted_at IS NULL`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, email), op)
}

// GetUser возвращает участника по его ID.
func (s *Storage) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, email, password_hash, role, membership_status,
			      membership_paid_at, payment_method, voting_rights, score, level, phone,
			      created_at, updated_at, deleted_at
			  FROM users
			  WHERE id = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, userID), op)
}

func (s *Storage) scanUser(row *sql.Row, op string) (*models.User, error) {
	u := &models.User{}
	var paidAt, deletedAt sql.NullTime
	var paymentMethod sql.NullString
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
		&u.MembershipStatus, &paidAt, &paymentMethod, &u.VotingRights, &u.Score,
		&u.Level, &u.Phone, &u.CreatedAt, &u.UpdatedAt, &deletedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if paidAt.Valid {
		u.MembershipPaidAt = &paidAt.Time
	}
	if paymentMethod.Valid {
		u.PaymentMethod = paymentMethod.String
	}
	if deletedAt.Valid {
		u.DeletedAt = &deletedAt.Time
	}
	return u, nil
}

// SoftDeleteUser помечает участника удалённым. Строка остаётся в таблице,
// агрегаты исключают её по deleted_at.
func (s *Storage) SoftDeleteUser(ctx context.Context, userID int64) error {
	const op = "storage.SoftDeleteUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET deleted_at = NOW(), updated_at = NOW()
			  WHERE id = $1 AND deleted_at IS NULL`
	_, err := s.DB.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// AddScore начисляет участнику баллы активности и возвращает новый счёт.
func (s *Storage) AddScore(ctx context.Context, userID int64, points int) (int, error) {
	const op = "storage.AddScore"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET score = score + $1, updated_at = NOW()
			  WHERE id = $2 AND deleted_at IS NULL
			  RETURNING score`
	var newScore int
	if err := s.DB.QueryRowContext(ctx, query, points, userID).Scan(&newScore); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newScore, nil
}

// UpdateLevel обновляет уровень участника.
func (s *Storage) UpdateLevel(ctx context.Context, userID int64, level string) error {
	const op = "storage.UpdateLevel"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET level = $1, updated_at = NOW()
			  WHERE id = $2`
	_, err := s.DB.ExecContext(ctx, query, level, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
