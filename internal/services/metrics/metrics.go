// Package metrics содержит бизнес-логику пайплайна агрегированных метрик:
// пересчёт счётчиков сообщества, кеширование снимка и путь чтения с фолбэком.
package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/radiocomunidad/radio-community/internal/lib/sl"
	"github.com/radiocomunidad/radio-community/internal/models"
)

// Repository определяет запросы хранилища, нужные пайплайну метрик.
type Repository interface {
	// CountUsers количество участников без отметки удаления.
	CountUsers(ctx context.Context) (int64, error)
	// CountActiveUsers количество не удалённых участников с активным членством.
	CountActiveUsers(ctx context.Context) (int64, error)
	// SumMembershipFunds сумма подтверждённых членских взносов в центах.
	SumMembershipFunds(ctx context.Context) (int64, error)
	// SumContributionFunds сумма подтверждённых дополнительных взносов в центах.
	SumContributionFunds(ctx context.Context) (int64, error)
	// CountActiveProposals количество активных предложений.
	CountActiveProposals(ctx context.Context) (int64, error)
	// UpsertAggregate записывает значение метрики (вставка или обновление по имени).
	UpsertAggregate(ctx context.Context, name string, value int64) error
	// GetAggregates возвращает все сохранённые агрегаты по именам.
	GetAggregates(ctx context.Context) (map[string]int64, error)
}

// Cache описывает слот внутрипроцессного кеша снимка метрик.
type Cache interface {
	Read() (*models.MetricsSnapshot, int, bool)
	Write(data *models.MetricsSnapshot)
	Invalidate()
}

// Service реализует пайплайн метрик: пересчёт, чтение и инвалидацию.
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

// UpdateAggregates пересчитывает шесть метрик из сырых таблиц и записывает
// каждую отдельным upsert в фиксированном порядке. Любая ошибка запроса
// прерывает задание целиком; кросс-метрической атомарности нет — читатель
// может увидеть частично обновлённый набор, это принятое окно рассинхрона.
func (s *Service) UpdateAggregates(ctx context.Context) (*models.MetricsSnapshot, error) {
	const op = "metrics.UpdateAggregates"

	snapshot, err := s.compute(ctx, models.SourceAggregated)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	updates := []struct {
		name  string
		value int64
	}{
		{models.MetricTotalUsers, snapshot.TotalUsers},
		{models.MetricActiveUsers, snapshot.ActiveUsers},
		{models.MetricMembershipFundsCents, snapshot.MembershipFundsCents},
		{models.MetricContributionFundsCents, snapshot.ContributionFundsCents},
		{models.MetricTotalFundsCents, snapshot.TotalFundsCents},
		{models.MetricActiveProposals, snapshot.ActiveProposals},
	}
	for _, u := range updates {
		if err := s.repo.UpsertAggregate(ctx, u.name, u.value); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	s.log.Info("metrics aggregates updated",
		slog.Int64("total_users", snapshot.TotalUsers),
		slog.Int64("active_users", snapshot.ActiveUsers),
		slog.Int64("total_funds_cents", snapshot.TotalFundsCents),
		slog.Int64("active_proposals", snapshot.ActiveProposals),
	)
	return snapshot, nil
}

// Read возвращает снимок метрик. Порядок: кеш, затем таблица агрегатов,
// затем прямой пересчёт из сырых таблиц. Успешный результат любого пути
// кладётся в кеш. Второе возвращаемое значение — признак попадания в кеш,
// третье — возраст снимка в секундах.
func (s *Service) Read(ctx context.Context) (*models.MetricsSnapshot, bool, int, error) {
	const op = "metrics.Read"

	if snapshot, age, ok := s.cache.Read(); ok {
		return snapshot, true, age, nil
	}

	snapshot, err := s.readAggregated(ctx)
	if err != nil {
		s.log.Warn("aggregates unavailable, falling back to direct calculation", sl.Err(err))
		snapshot, err = s.compute(ctx, models.SourceCalculated)
		if err != nil {
			return nil, false, 0, fmt.Errorf("%s: %w", op, err)
		}
	}

	s.cache.Write(snapshot)
	return snapshot, false, 0, nil
}

// InvalidateCache очищает слот кеша. Вызывается синхронно после записи
// в таблицы платежей и взносов.
func (s *Service) InvalidateCache() {
	s.cache.Invalidate()
	s.log.Info("metrics cache invalidated")
}

// ForceRefresh очищает кеш, пересчитывает агрегаты и сразу прогревает слот.
func (s *Service) ForceRefresh(ctx context.Context) (*models.MetricsSnapshot, error) {
	const op = "metrics.ForceRefresh"

	s.cache.Invalidate()
	snapshot, err := s.UpdateAggregates(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.cache.Write(snapshot)
	return snapshot, nil
}

// compute выполняет шесть скалярных запросов в фиксированном порядке.
func (s *Service) compute(ctx context.Context, source string) (*models.MetricsSnapshot, error) {
	totalUsers, err := s.repo.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	activeUsers, err := s.repo.CountActiveUsers(ctx)
	if err != nil {
		return nil, err
	}
	membershipFunds, err := s.repo.SumMembershipFunds(ctx)
	if err != nil {
		return nil, err
	}
	contributionFunds, err := s.repo.SumContributionFunds(ctx)
	if err != nil {
		return nil, err
	}
	activeProposals, err := s.repo.CountActiveProposals(ctx)
	if err != nil {
		return nil, err
	}

	return &models.MetricsSnapshot{
		TotalUsers:             totalUsers,
		ActiveUsers:            activeUsers,
		MembershipFundsCents:   membershipFunds,
		ContributionFundsCents: contributionFunds,
		TotalFundsCents:        membershipFunds + contributionFunds,
		ActiveProposals:        activeProposals,
		Source:                 source,
		LastUpdated:            time.Now().UTC(),
	}, nil
}

// readAggregated собирает снимок из таблицы агрегатов. Отсутствие любой из
// шести метрик считается ошибкой и переводит чтение на прямой пересчёт.
func (s *Service) readAggregated(ctx context.Context) (*models.MetricsSnapshot, error) {
	values, err := s.repo.GetAggregates(ctx)
	if err != nil {
		return nil, err
	}

	names := []string{
		models.MetricTotalUsers,
		models.MetricActiveUsers,
		models.MetricMembershipFundsCents,
		models.MetricContributionFundsCents,
		models.MetricTotalFundsCents,
		models.MetricActiveProposals,
	}
	for _, name := range names {
		if _, ok := values[name]; !ok {
			return nil, fmt.Errorf("aggregate %q is missing", name)
		}
	}

	return &models.MetricsSnapshot{
		TotalUsers:             values[models.MetricTotalUsers],
		ActiveUsers:            values[models.MetricActiveUsers],
		MembershipFundsCents:   values[models.MetricMembershipFundsCents],
		ContributionFundsCents: values[models.MetricContributionFundsCents],
		TotalFundsCents:        values[models.MetricTotalFundsCents],
		ActiveProposals:        values[models.MetricActiveProposals],
		Source:                 models.SourceAggregated,
		LastUpdated:            time.Now().UTC(),
	}, nil
}
