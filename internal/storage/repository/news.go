package repository

import (
	"context"
	"fmt"

	"github.com/radiocomunidad/radio-community/internal/models"
)

// ListNews возвращает опубликованные новости, свежие первыми.
func (s *Storage) ListNews(ctx context.Context, limit int) ([]*models.NewsItem, error) {
	const op = "storage.ListNews"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, title, body, published_at
			  FROM news
			  WHERE published_at <= NOW()
			  ORDER BY published_at DESC
			  LIMIT $1`
	rows, err := s.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.NewsItem
	for rows.Next() {
		var n models.NewsItem
		if err := rows.Scan(&n.ID, &n.Title, &n.Body, &n.PublishedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &n)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CreateNews сохраняет новость (используется административной загрузкой и сидами).
func (s *Storage) CreateNews(ctx context.Context, n models.NewsItem) (int64, error) {
	const op = "storage.CreateNews"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO news (title, body, published_at)
			  VALUES ($1, $2, $3)
			  RETURNING id`
	var newID int64
	if err := s.DB.QueryRowContext(ctx, query, n.Title, n.Body, n.PublishedAt).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}
