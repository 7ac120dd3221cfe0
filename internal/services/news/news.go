// Package news содержит бизнес-логику ленты новостей сообщества.
package news

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/radiocomunidad/radio-community/internal/lib/sl"
	"github.com/radiocomunidad/radio-community/internal/models"
)

const (
	listCacheKey = "news:list"
	listCacheTTL = 10 * time.Minute
	listLimit    = 20
)

// Repository определяет методы хранилища для ленты новостей.
type Repository interface {
	ListNews(ctx context.Context, limit int) ([]*models.NewsItem, error)
}

// Cache описывает методы кэширования списка новостей.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Service реализует чтение ленты новостей с кешированием.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// List возвращает опубликованные новости, используя кеш или репозиторий.
func (s *Service) List(ctx context.Context) ([]*models.NewsItem, error) {
	const op = "news.List"

	var cached []*models.NewsItem
	found, err := s.cache.Get(listCacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read news list from cache", sl.Err(err))
	}
	if found {
		return cached, nil
	}

	result, err := s.repo.ListNews(ctx, listLimit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Set(listCacheKey, result, listCacheTTL); err != nil {
		s.log.Warn("failed to cache news list", sl.Err(err))
	}
	return result, nil
}
