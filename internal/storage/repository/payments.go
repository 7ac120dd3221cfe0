package repository

import (
	"context"
	"fmt"

	"github.com/radiocomunidad/radio-community/internal/models"
)

// CreateMembershipPayment сохраняет запись о членском взносе и возвращает её ID.
func (s *Storage) CreateMembershipPayment(ctx context.Context, payment models.MembershipPayment) (int64, error) {
	const op = "storage.CreateMembershipPayment"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO membership_payments (user_id, amount, payment_method, payment_id, status)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID int64
	err := s.DB.QueryRowContext(ctx, query,
		payment.UserID, payment.AmountCents, payment.PaymentMethod,
		payment.PaymentID, payment.Status).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListPaymentsByUser возвращает все взносы участника.
func (s *Storage) ListPaymentsByUser(ctx context.Context, userID int64) ([]*models.MembershipPayment, error) {
	const op = "storage.ListPaymentsByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_id, amount, payment_method, payment_id, status, created_at
			  FROM membership_payments
			  WHERE user_id = $1
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.MembershipPayment
	for rows.Next() {
		var p models.MembershipPayment
		if err := rows.Scan(&p.ID, &p.UserID, &p.AmountCents, &p.PaymentMethod,
			&p.PaymentID, &p.Status, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// SumCompletedPaymentsByUser возвращает сумму подтверждённых взносов участника в центах.
func (s *Storage) SumCompletedPaymentsByUser(ctx context.Context, userID int64) (int64, error) {
	const op = "storage.SumCompletedPaymentsByUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COALESCE(SUM(amount), 0)
			  FROM membership_payments
			  WHERE user_id = $1 AND status = $2`
	var total int64
	if err := s.DB.QueryRowContext(ctx, query, userID, models.PaymentCompleted).Scan(&total); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return total, nil
}
