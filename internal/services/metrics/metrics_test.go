package metrics

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/radiocomunidad/radio-community/internal/metricscache"
	"github.com/radiocomunidad/radio-community/internal/models"
)

// MockRepository реализует интерфейс metrics.Repository
type MockRepository struct {
	mock.Mock

	// upserts фиксирует порядок записей для проверки
	upserts []string
}

func (m *MockRepository) CountUsers(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) CountActiveUsers(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) SumMembershipFunds(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) SumContributionFunds(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) CountActiveProposals(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) UpsertAggregate(ctx context.Context, name string, value int64) error {
	m.upserts = append(m.upserts, name)
	args := m.Called(ctx, name, value)
	return args.Error(0)
}

func (m *MockRepository) GetAggregates(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func setupCountQueries(m *MockRepository, totalUsers, activeUsers, membership, contribution, proposals int64) {
	m.On("CountUsers", mock.Anything).Return(totalUsers, nil)
	m.On("CountActiveUsers", mock.Anything).Return(activeUsers, nil)
	m.On("SumMembershipFunds", mock.Anything).Return(membership, nil)
	m.On("SumContributionFunds", mock.Anything).Return(contribution, nil)
	m.On("CountActiveProposals", mock.Anything).Return(proposals, nil)
}

func TestUpdateAggregates(t *testing.T) {
	t.Run("успешный пересчёт пишет шесть метрик в фиксированном порядке", func(t *testing.T) {
		repo := new(MockRepository)
		setupCountQueries(repo, 3, 2, 3600, 700, 1)
		repo.On("UpsertAggregate", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		svc := New(repo, metricscache.New(0), newTestLogger())

		snapshot, err := svc.UpdateAggregates(context.Background())
		require.NoError(t, err)

		assert.Equal(t, int64(3), snapshot.TotalUsers)
		assert.Equal(t, int64(2), snapshot.ActiveUsers)
		assert.Equal(t, int64(4300), snapshot.TotalFundsCents)
		assert.Equal(t, models.SourceAggregated, snapshot.Source)

		assert.Equal(t, []string{
			models.MetricTotalUsers,
			models.MetricActiveUsers,
			models.MetricMembershipFundsCents,
			models.MetricContributionFundsCents,
			models.MetricTotalFundsCents,
			models.MetricActiveProposals,
		}, repo.upserts)
	})

	t.Run("ошибка запроса прерывает задание целиком", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("CountUsers", mock.Anything).Return(int64(0), errors.New("connection refused"))

		svc := New(repo, metricscache.New(0), newTestLogger())

		_, err := svc.UpdateAggregates(context.Background())
		require.Error(t, err)
		repo.AssertNotCalled(t, "UpsertAggregate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ошибка upsert прерывает задание", func(t *testing.T) {
		repo := new(MockRepository)
		setupCountQueries(repo, 1, 1, 1800, 0, 0)
		repo.On("UpsertAggregate", mock.Anything, models.MetricTotalUsers, int64(1)).
			Return(errors.New("deadlock detected"))

		svc := New(repo, metricscache.New(0), newTestLogger())

		_, err := svc.UpdateAggregates(context.Background())
		require.Error(t, err)
		assert.Equal(t, []string{models.MetricTotalUsers}, repo.upserts)
	})

	t.Run("повторный пересчёт идемпотентен", func(t *testing.T) {
		repo := new(MockRepository)
		setupCountQueries(repo, 2, 2, 3600, 0, 0)
		repo.On("UpsertAggregate", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		svc := New(repo, metricscache.New(0), newTestLogger())

		first, err := svc.UpdateAggregates(context.Background())
		require.NoError(t, err)
		second, err := svc.UpdateAggregates(context.Background())
		require.NoError(t, err)

		assert.Equal(t, first.TotalUsers, second.TotalUsers)
		assert.Equal(t, first.TotalFundsCents, second.TotalFundsCents)
	})
}

func TestRead(t *testing.T) {
	fullAggregates := map[string]int64{
		models.MetricTotalUsers:              4,
		models.MetricActiveUsers:             3,
		models.MetricMembershipFundsCents:    5400,
		models.MetricContributionFundsCents:  1000,
		models.MetricTotalFundsCents:         6400,
		models.MetricActiveProposals:         2,
	}

	t.Run("попадание в кеш не трогает хранилище", func(t *testing.T) {
		repo := new(MockRepository)
		slot := metricscache.New(0)
		svc := New(repo, slot, newTestLogger())

		slot.Write(&models.MetricsSnapshot{TotalUsers: 9, Source: models.SourceAggregated})

		snapshot, fromCache, _, err := svc.Read(context.Background())
		require.NoError(t, err)
		assert.True(t, fromCache)
		assert.Equal(t, int64(9), snapshot.TotalUsers)
		repo.AssertNotCalled(t, "GetAggregates", mock.Anything)
	})

	t.Run("промах кеша читает таблицу агрегатов и прогревает слот", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetAggregates", mock.Anything).Return(fullAggregates, nil)

		slot := metricscache.New(0)
		svc := New(repo, slot, newTestLogger())

		snapshot, fromCache, age, err := svc.Read(context.Background())
		require.NoError(t, err)
		assert.False(t, fromCache)
		assert.Zero(t, age)
		assert.Equal(t, int64(4), snapshot.TotalUsers)
		assert.Equal(t, int64(6400), snapshot.TotalFundsCents)
		assert.Equal(t, models.SourceAggregated, snapshot.Source)

		_, _, ok := slot.Read()
		assert.True(t, ok, "successful read should warm the cache slot")
	})

	t.Run("повторное чтение в пределах TTL отдаёт тот же снимок из кеша", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetAggregates", mock.Anything).Return(fullAggregates, nil).Once()

		svc := New(repo, metricscache.New(0), newTestLogger())

		first, fromCache, _, err := svc.Read(context.Background())
		require.NoError(t, err)
		require.False(t, fromCache)

		second, fromCache, _, err := svc.Read(context.Background())
		require.NoError(t, err)
		assert.True(t, fromCache)
		assert.Equal(t, first.TotalUsers, second.TotalUsers)
		assert.Equal(t, first.TotalFundsCents, second.TotalFundsCents)
		assert.Equal(t, first.ActiveProposals, second.ActiveProposals)
		repo.AssertNumberOfCalls(t, "GetAggregates", 1)
	})

	t.Run("недоступные агрегаты переводят чтение на прямой пересчёт", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetAggregates", mock.Anything).Return(nil, errors.New("relation does not exist"))
		setupCountQueries(repo, 2, 1, 1800, 0, 1)

		svc := New(repo, metricscache.New(0), newTestLogger())

		snapshot, fromCache, _, err := svc.Read(context.Background())
		require.NoError(t, err)
		assert.False(t, fromCache)
		assert.Equal(t, models.SourceCalculated, snapshot.Source)
		assert.Equal(t, int64(1800), snapshot.TotalFundsCents)
	})

	t.Run("неполный набор агрегатов считается промахом таблицы", func(t *testing.T) {
		partial := map[string]int64{
			models.MetricTotalUsers: 4,
		}
		repo := new(MockRepository)
		repo.On("GetAggregates", mock.Anything).Return(partial, nil)
		setupCountQueries(repo, 4, 4, 7200, 0, 0)

		svc := New(repo, metricscache.New(0), newTestLogger())

		snapshot, _, _, err := svc.Read(context.Background())
		require.NoError(t, err)
		assert.Equal(t, models.SourceCalculated, snapshot.Source)
	})

	t.Run("оба пути недоступны - ошибка", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetAggregates", mock.Anything).Return(nil, errors.New("down"))
		repo.On("CountUsers", mock.Anything).Return(int64(0), errors.New("down"))

		svc := New(repo, metricscache.New(0), newTestLogger())

		_, _, _, err := svc.Read(context.Background())
		require.Error(t, err)
	})
}

func TestForceRefresh(t *testing.T) {
	repo := new(MockRepository)
	setupCountQueries(repo, 5, 5, 9000, 0, 3)
	repo.On("UpsertAggregate", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	slot := metricscache.New(0)
	slot.Write(&models.MetricsSnapshot{TotalUsers: 1})

	svc := New(repo, slot, newTestLogger())

	snapshot, err := svc.ForceRefresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), snapshot.TotalUsers)

	cached, _, ok := slot.Read()
	require.True(t, ok)
	assert.Equal(t, int64(5), cached.TotalUsers, "slot should hold the fresh snapshot")
}

func TestInvalidateCache(t *testing.T) {
	slot := metricscache.New(0)
	slot.Write(&models.MetricsSnapshot{TotalUsers: 1})

	svc := New(new(MockRepository), slot, newTestLogger())
	svc.InvalidateCache()

	_, _, ok := slot.Read()
	assert.False(t, ok)
}
