// Package proposal содержит бизнес-логику предложений сообщества:
// создание, голосование, дополнительные взносы, комментарии и начисление
// баллов активности с пересчётом уровня участника.
package proposal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/radiocomunidad/radio-community/internal/lib/sl"
	"github.com/radiocomunidad/radio-community/internal/models"
	"github.com/radiocomunidad/radio-community/internal/storage/repository"
)

// ErrAlreadyVoted участник уже голосовал по этому предложению.
var ErrAlreadyVoted = errors.New("already voted")

const (
	listCacheKey = "proposals:list"
	listCacheTTL = 5 * time.Minute
	listLimit    = 50
)

// Repository определяет методы хранилища для работы с предложениями.
type Repository interface {
	CreateProposal(ctx context.Context, p models.Proposal) (int64, error)
	ListProposals(ctx context.Context, limit, offset int) ([]*models.Proposal, error)
	GetProposal(ctx context.Context, id int64) (*models.Proposal, error)
	CreateVote(ctx context.Context, vote models.Vote) (int64, error)
	AddVoteToCounters(ctx context.Context, proposalID int64, voteType string) error
	CreateContribution(ctx context.Context, c models.Contribution) (int64, error)
	AddToCurrentAmount(ctx context.Context, proposalID, amountCents int64) error
	CreateComment(ctx context.Context, c models.ProposalComment) (int64, error)
	ListComments(ctx context.Context, proposalID int64) ([]*models.ProposalComment, error)
	AddScore(ctx context.Context, userID int64, points int) (int, error)
	UpdateLevel(ctx context.Context, userID int64, level string) error
}

// Cache описывает методы кэширования списков (Redis).
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// MetricsPipeline хуки пайплайна метрик: подтверждённый взнос меняет фонды,
// поэтому кеш снимка сбрасывается и агрегаты пересчитываются.
type MetricsPipeline interface {
	InvalidateCache()
	UpdateAggregates(ctx context.Context) (*models.MetricsSnapshot, error)
}

// Service реализует бизнес-логику предложений сообщества.
type Service struct {
	repo    Repository
	cache   Cache
	metrics MetricsPipeline
	log     *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, cache Cache, metrics MetricsPipeline, log *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		cache:   cache,
		metrics: metrics,
		log:     log,
	}
}

// Create создает новое предложение, начисляет автору баллы
// и инвалидирует кеш списка.
func (s *Service) Create(ctx context.Context, userID int64, req models.DummyProposal) (int64, error) {
	const op = "proposal.Create"

	p := models.Proposal{
		Title:             req.Title,
		Description:       req.Description,
		CreatedBy:         userID,
		Status:            models.ProposalActive,
		TargetAmountCents: req.TargetAmountCents,
		Category:          req.Category,
	}
	id, err := s.repo.CreateProposal(ctx, p)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("proposal created", slog.Int64("id", id), slog.Int64("user_id", userID))

	s.awardPoints(ctx, userID, models.PointsCreateProposal)
	s.invalidateList()
	return id, nil
}

// List возвращает предложения, используя кеш или репозиторий.
func (s *Service) List(ctx context.Context) ([]*models.Proposal, error) {
	const op = "proposal.List"

	var cached []*models.Proposal
	found, err := s.cache.Get(listCacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read proposals list from cache", sl.Err(err))
	}
	if found {
		return cached, nil
	}

	result, err := s.repo.ListProposals(ctx, listLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Set(listCacheKey, result, listCacheTTL); err != nil {
		s.log.Warn("failed to cache proposals list", sl.Err(err))
	}
	return result, nil
}

// Read возвращает предложение вместе с комментариями.
func (s *Service) Read(ctx context.Context, id int64) (*models.Proposal, []*models.ProposalComment, error) {
	const op = "proposal.Read"

	p, err := s.repo.GetProposal(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	comments, err := s.repo.ListComments(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, comments, nil
}

// Vote сохраняет голос участника, обновляет счётчики и начисляет баллы.
// Повторный голос возвращает ErrAlreadyVoted.
func (s *Service) Vote(ctx context.Context, userID, proposalID int64, voteType string) error {
	const op = "proposal.Vote"

	if _, err := s.repo.GetProposal(ctx, proposalID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	vote := models.Vote{
		ProposalID: proposalID,
		UserID:     userID,
		VoteType:   voteType,
	}
	if _, err := s.repo.CreateVote(ctx, vote); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return fmt.Errorf("%s: %w", op, ErrAlreadyVoted)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.AddVoteToCounters(ctx, proposalID, voteType); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.awardPoints(ctx, userID, models.PointsVote)
	s.invalidateList()
	return nil
}

// Contribute записывает подтверждённый дополнительный взнос, увеличивает
// собранную сумму предложения, начисляет баллы и дергает пайплайн метрик:
// фонды изменились, снимок не должен жить дольше текущего запроса.
func (s *Service) Contribute(ctx context.Context, userID, proposalID int64, req models.DummyContribution) (int64, error) {
	const op = "proposal.Contribute"

	if _, err := s.repo.GetProposal(ctx, proposalID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	c := models.Contribution{
		ProposalID:    proposalID,
		UserID:        userID,
		AmountCents:   req.AmountCents,
		PaymentMethod: req.PaymentMethod,
		PaymentID:     "sim_" + uuid.NewString(),
		Status:        models.PaymentCompleted,
	}
	id, err := s.repo.CreateContribution(ctx, c)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.AddToCurrentAmount(ctx, proposalID, req.AmountCents); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	s.awardPoints(ctx, userID, models.PointsContribute)
	s.invalidateList()

	s.metrics.InvalidateCache()
	if _, err := s.metrics.UpdateAggregates(ctx); err != nil {
		s.log.Warn("failed to update metrics aggregates after contribution", sl.Err(err))
	}
	return id, nil
}

// Comment сохраняет комментарий и начисляет баллы автору.
func (s *Service) Comment(ctx context.Context, userID, proposalID int64, req models.DummyComment) (int64, error) {
	const op = "proposal.Comment"

	if _, err := s.repo.GetProposal(ctx, proposalID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	c := models.ProposalComment{
		ProposalID: proposalID,
		UserID:     userID,
		Comment:    req.Comment,
	}
	id, err := s.repo.CreateComment(ctx, c)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	s.awardPoints(ctx, userID, models.PointsComment)
	return id, nil
}

// awardPoints начисляет баллы и при необходимости повышает уровень.
// Ошибки начисления не прерывают основную операцию.
func (s *Service) awardPoints(ctx context.Context, userID int64, points int) {
	newScore, err := s.repo.AddScore(ctx, userID, points)
	if err != nil {
		s.log.Warn("failed to add score", slog.Int64("user_id", userID), sl.Err(err))
		return
	}
	level := models.LevelForScore(newScore)
	if err := s.repo.UpdateLevel(ctx, userID, level); err != nil {
		s.log.Warn("failed to update level", slog.Int64("user_id", userID), sl.Err(err))
	}
}

func (s *Service) invalidateList() {
	if err := s.cache.Invalidate(listCacheKey); err != nil {
		s.log.Warn("failed to invalidate proposals list cache", sl.Err(err))
	}
}
