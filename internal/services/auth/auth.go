// Package auth содержит бизнес-логику входа и выпуска сессионных токенов.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/radiocomunidad/radio-community/internal/lib/jwt"
	"github.com/radiocomunidad/radio-community/internal/lib/password"
	"github.com/radiocomunidad/radio-community/internal/lib/sl"
	"github.com/radiocomunidad/radio-community/internal/models"
	"github.com/radiocomunidad/radio-community/internal/storage/repository"
)

// ErrInvalidCredentials неверная пара email/пароль.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Repository определяет методы хранилища, нужные аутентификации.
type Repository interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Service реализует вход участника и работу с сессионными токенами.
type Service struct {
	repo   Repository
	tokens jwt.Maker
	log    *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, tokens jwt.Maker, log *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		tokens: tokens,
		log:    log,
	}
}

// Login проверяет учётные данные и возвращает подписанный сессионный токен.
// Неизвестный email и неверный пароль неразличимы для вызывающего.
func (s *Service) Login(ctx context.Context, email, pass string) (string, *models.User, error) {
	const op = "auth.Login"

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := password.CompareHash(user.PasswordHash, pass); err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		s.log.Error("failed to generate session token", sl.Err(err))
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	return token, user, nil
}

// IssueSession выпускает сессионный токен для уже аутентифицированного
// участника (используется сразу после успешной регистрации).
func (s *Service) IssueSession(user *models.User) (string, error) {
	const op = "auth.IssueSession"
	token, err := s.tokens.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}
