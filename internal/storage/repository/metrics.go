package repository

import (
	"context"
	"fmt"

	"github.com/radiocomunidad/radio-community/internal/models"
)

// CountUsers возвращает количество участников без отметки мягкого удаления.
func (s *Storage) CountUsers(ctx context.Context) (int64, error) {
	const op = "storage.CountUsers"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*)
			  FROM users
			  WHERE deleted_at IS NULL`
	var count int64
	if err := s.DB.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// CountActiveUsers возвращает количество не удалённых участников
// с активным статусом членства.
func (s *Storage) CountActiveUsers(ctx context.Context) (int64, error) {
	const op = "storage.CountActiveUsers"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*)
			  FROM users
			  WHERE deleted_at IS NULL
			    AND membership_status = $1`
	var count int64
	if err := s.DB.QueryRowContext(ctx, query, models.MembershipActive).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// SumMembershipFunds возвращает сумму подтверждённых членских взносов в центах.
func (s *Storage) SumMembershipFunds(ctx context.Context) (int64, error) {
	const op = "storage.SumMembershipFunds"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COALESCE(SUM(amount), 0)
			  FROM membership_payments
			  WHERE status = $1`
	var total int64
	if err := s.DB.QueryRowContext(ctx, query, models.PaymentCompleted).Scan(&total); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return total, nil
}

// SumContributionFunds возвращает сумму подтверждённых дополнительных взносов в центах.
func (s *Storage) SumContributionFunds(ctx context.Context) (int64, error) {
	const op = "storage.SumContributionFunds"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COALESCE(SUM(amount), 0)
			  FROM contributions
			  WHERE status = $1`
	var total int64
	if err := s.DB.QueryRowContext(ctx, query, models.PaymentCompleted).Scan(&total); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return total, nil
}

// CountActiveProposals возвращает количество предложений в статусе active.
func (s *Storage) CountActiveProposals(ctx context.Context) (int64, error) {
	const op = "storage.CountActiveProposals"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*)
			  FROM proposals
			  WHERE status = $1`
	var count int64
	if err := s.DB.QueryRowContext(ctx, query, models.ProposalActive).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// UpsertAggregate записывает значение метрики в таблицу агрегатов.
// Ровно одна строка на метрику: вставка либо обновление по имени.
func (s *Storage) UpsertAggregate(ctx context.Context, name string, value int64) error {
	const op = "storage.UpsertAggregate"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO metrics_aggregates (metric_name, metric_value)
			  VALUES ($1, $2)
			  ON CONFLICT (metric_name)
			  DO UPDATE SET metric_value = EXCLUDED.metric_value`
	_, err := s.DB.ExecContext(ctx, query, name, value)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetAggregates возвращает все сохранённые агрегаты метрик по именам.
func (s *Storage) GetAggregates(ctx context.Context) (map[string]int64, error) {
	const op = "storage.GetAggregates"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT metric_name, metric_value
			  FROM metrics_aggregates`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make(map[string]int64)
	for rows.Next() {
		var name string
		var value int64
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result[name] = value
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
