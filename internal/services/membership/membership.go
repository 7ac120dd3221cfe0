// Package membership содержит бизнес-логику формы участия: симулированная
// оплата членского взноса, создание участника, запись взноса, обновление
// метрик и публикация приветственного уведомления.
package membership

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/radiocomunidad/radio-community/internal/lib/password"
	"github.com/radiocomunidad/radio-community/internal/lib/sl"
	"github.com/radiocomunidad/radio-community/internal/models"
	"github.com/radiocomunidad/radio-community/internal/paymentprovider"
	"github.com/radiocomunidad/radio-community/internal/storage/repository"
)

// Repository определяет методы хранилища, нужные потоку участия.
type Repository interface {
	CreateUser(ctx context.Context, user models.User) (int64, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateMembershipPayment(ctx context.Context, payment models.MembershipPayment) (int64, error)
}

// Provider описывает платёжного провайдера (здесь — симулированного).
type Provider interface {
	Charge(ctx context.Context, req paymentprovider.ChargeRequest) (*paymentprovider.ChargeResult, error)
}

// MetricsPipeline хуки пайплайна метрик, вызываемые после завершения оплаты.
type MetricsPipeline interface {
	InvalidateCache()
	UpdateAggregates(ctx context.Context) (*models.MetricsSnapshot, error)
}

// Notifier публикует приветственное событие в очередь уведомлений.
type Notifier interface {
	PublishWelcome(msg models.WelcomeMessage) error
}

// Service реализует поток участия.
type Service struct {
	repo     Repository
	provider Provider
	metrics  MetricsPipeline
	notifier Notifier
	feeCents int64
	log      *slog.Logger
}

// JoinResult результат успешного участия: созданный участник и временный
// пароль, который показывается один раз на странице успеха.
type JoinResult struct {
	User         *models.User
	TempPassword string
}

// New создает новый экземпляр Service.
func New(repo Repository, provider Provider, metrics MetricsPipeline, notifier Notifier,
	feeCents int64, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		provider: provider,
		metrics:  metrics,
		notifier: notifier,
		feeCents: feeCents,
		log:      log,
	}
}

// Join проводит регистрацию с оплатой взноса. Порядок шагов фиксирован:
// проверка дубликата email, списание у провайдера, создание участника,
// запись взноса, инвалидация кеша метрик, пересчёт агрегатов, уведомление.
//
// Создание участника и запись взноса выполняются как отдельные операции
// без общей транзакции: если запись взноса не удалась, участник остаётся
// без платёжной записи. Это унаследованный пробел согласованности, он
// сознательно сохранён и ограничивается предупреждением в логе.
func (s *Service) Join(ctx context.Context, req models.JoinRequest) (*JoinResult, error) {
	const op = "membership.Join"

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.repo.GetUserByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
	} else if !errors.Is(err, repository.ErrNotFound) {
		s.log.Error("failed to check existing email", sl.Err(err))
		return nil, fmt.Errorf("%s: %w: %w", op, ErrDatabase, err)
	}

	charge, err := s.provider.Charge(ctx, paymentprovider.ChargeRequest{
		AmountCents: s.feeCents,
		Method:      req.MetodoPago,
		Email:       email,
		Description: "Cuota de membresia Radio Comunidad",
	})
	if err != nil {
		s.log.Error("payment provider call failed", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, ErrPaymentRejected)
	}
	if charge.Status != models.PaymentCompleted {
		return nil, fmt.Errorf("%s: %w", op, ErrPaymentRejected)
	}

	tempPassword, err := password.GenerateTemporary(8)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrCreation)
	}
	passwordHash, err := password.GetHash(tempPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrCreation)
	}

	now := time.Now().UTC()
	user := models.User{
		Name:             strings.TrimSpace(req.Nombre) + " " + strings.TrimSpace(req.Apellido),
		Email:            email,
		PasswordHash:     passwordHash,
		Role:             "member",
		MembershipStatus: models.MembershipActive,
		MembershipPaidAt: &now,
		PaymentMethod:    req.MetodoPago,
		VotingRights:     true,
		Score:            0,
		Level:            models.LevelBronze,
		Phone:            req.CodigoPais + req.Telefono,
	}

	userID, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailTaken):
			return nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		case errors.Is(err, repository.ErrUniqueViolation):
			return nil, fmt.Errorf("%s: %w", op, ErrDuplicateData)
		default:
			s.log.Error("failed to create user", sl.Err(err))
			return nil, fmt.Errorf("%s: %w", op, ErrDatabase)
		}
	}
	user.ID = userID
	s.log.Info("member created", slog.Int64("user_id", userID), sl.Email(email))

	payment := models.MembershipPayment{
		UserID:        userID,
		AmountCents:   s.feeCents,
		PaymentMethod: req.MetodoPago,
		PaymentID:     charge.PaymentID,
		Status:        models.PaymentCompleted,
	}
	if _, err := s.repo.CreateMembershipPayment(ctx, payment); err != nil {
		// Участник уже создан и сохраняет членство без платёжной записи.
		s.log.Warn("failed to record membership payment, member left without payment row",
			slog.Int64("user_id", userID), sl.Err(err))
	}

	s.metrics.InvalidateCache()
	if _, err := s.metrics.UpdateAggregates(ctx); err != nil {
		s.log.Warn("failed to update metrics aggregates after payment", sl.Err(err))
	}

	if err := s.notifier.PublishWelcome(models.WelcomeMessage{
		Email:        email,
		Name:         user.Name,
		TempPassword: tempPassword,
	}); err != nil {
		s.log.Warn("failed to publish welcome notification", sl.Err(err))
	}

	return &JoinResult{User: &user, TempPassword: tempPassword}, nil
}
