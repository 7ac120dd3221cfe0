package membership

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/radiocomunidad/radio-community/internal/models"
	"github.com/radiocomunidad/radio-community/internal/paymentprovider"
	"github.com/radiocomunidad/radio-community/internal/storage/repository"
)

// MockRepository реализует интерфейс membership.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateUser(ctx context.Context, user models.User) (int64, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockRepository) CreateMembershipPayment(ctx context.Context, payment models.MembershipPayment) (int64, error) {
	args := m.Called(ctx, payment)
	return args.Get(0).(int64), args.Error(1)
}

// MockMetrics реализует интерфейс membership.MetricsPipeline
type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) InvalidateCache() {
	m.Called()
}

func (m *MockMetrics) UpdateAggregates(ctx context.Context) (*models.MetricsSnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MetricsSnapshot), args.Error(1)
}

// MockNotifier реализует интерфейс membership.Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) PublishWelcome(msg models.WelcomeMessage) error {
	args := m.Called(msg)
	return args.Error(0)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func validJoinRequest() models.JoinRequest {
	return models.JoinRequest{
		Nombre:     "Maria",
		Apellido:   "Gonzalez",
		Email:      "Maria.Gonzalez@Example.com",
		Telefono:   "91123456",
		CodigoPais: "+54",
		MetodoPago: models.MethodMercadoPago,
	}
}

func TestJoin(t *testing.T) {
	t.Run("успешная регистрация", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetUserByEmail", mock.Anything, "maria.gonzalez@example.com").
			Return(nil, repository.ErrNotFound)
		repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
			return u.Email == "maria.gonzalez@example.com" &&
				u.MembershipStatus == models.MembershipActive &&
				u.VotingRights &&
				u.Level == models.LevelBronze &&
				u.Role == "member"
		})).Return(int64(42), nil)
		repo.On("CreateMembershipPayment", mock.Anything, mock.MatchedBy(func(p models.MembershipPayment) bool {
			return p.UserID == 42 && p.AmountCents == 1800 && p.Status == models.PaymentCompleted
		})).Return(int64(1), nil)

		metrics := new(MockMetrics)
		metrics.On("InvalidateCache").Return()
		metrics.On("UpdateAggregates", mock.Anything).Return(&models.MetricsSnapshot{}, nil)

		notifier := new(MockNotifier)
		notifier.On("PublishWelcome", mock.MatchedBy(func(msg models.WelcomeMessage) bool {
			return msg.Email == "maria.gonzalez@example.com" && msg.TempPassword != ""
		})).Return(nil)

		svc := New(repo, paymentprovider.NewClient(0), metrics, notifier, 1800, newTestLogger())

		result, err := svc.Join(context.Background(), validJoinRequest())
		require.NoError(t, err)
		assert.Equal(t, int64(42), result.User.ID)
		assert.Equal(t, "Maria Gonzalez", result.User.Name)
		assert.Len(t, result.TempPassword, 8)

		repo.AssertExpectations(t)
		metrics.AssertExpectations(t)
		notifier.AssertExpectations(t)
	})

	t.Run("email уже зарегистрирован", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetUserByEmail", mock.Anything, mock.Anything).
			Return(&models.User{ID: 1}, nil)

		svc := New(repo, paymentprovider.NewClient(0), new(MockMetrics), new(MockNotifier), 1800, newTestLogger())

		_, err := svc.Join(context.Background(), validJoinRequest())
		require.ErrorIs(t, err, ErrEmailTaken)
		repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("сбой проверки email сохраняет исходную причину в цепочке", func(t *testing.T) {
		cause := context.Canceled
		repo := new(MockRepository)
		repo.On("GetUserByEmail", mock.Anything, mock.Anything).
			Return(nil, cause)

		svc := New(repo, paymentprovider.NewClient(0), new(MockMetrics), new(MockNotifier), 1800, newTestLogger())

		_, err := svc.Join(context.Background(), validJoinRequest())
		require.ErrorIs(t, err, ErrDatabase)
		assert.ErrorIs(t, err, cause, "underlying failure should stay in the error chain")
		repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("провайдер отклонил списание - участник не создаётся", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetUserByEmail", mock.Anything, mock.Anything).
			Return(nil, repository.ErrNotFound)

		provider := paymentprovider.NewRejectingClient(func(paymentprovider.ChargeRequest) bool { return true })
		svc := New(repo, provider, new(MockMetrics), new(MockNotifier), 1800, newTestLogger())

		_, err := svc.Join(context.Background(), validJoinRequest())
		require.ErrorIs(t, err, ErrPaymentRejected)
		repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	})

	t.Run("гонка на уникальном email при создании", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetUserByEmail", mock.Anything, mock.Anything).
			Return(nil, repository.ErrNotFound)
		repo.On("CreateUser", mock.Anything, mock.Anything).
			Return(int64(0), repository.ErrEmailTaken)

		svc := New(repo, paymentprovider.NewClient(0), new(MockMetrics), new(MockNotifier), 1800, newTestLogger())

		_, err := svc.Join(context.Background(), validJoinRequest())
		require.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("ошибка записи взноса не отменяет регистрацию", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetUserByEmail", mock.Anything, mock.Anything).
			Return(nil, repository.ErrNotFound)
		repo.On("CreateUser", mock.Anything, mock.Anything).Return(int64(7), nil)
		repo.On("CreateMembershipPayment", mock.Anything, mock.Anything).
			Return(int64(0), errors.New("disk full"))

		metrics := new(MockMetrics)
		metrics.On("InvalidateCache").Return()
		metrics.On("UpdateAggregates", mock.Anything).Return(&models.MetricsSnapshot{}, nil)

		notifier := new(MockNotifier)
		notifier.On("PublishWelcome", mock.Anything).Return(nil)

		svc := New(repo, paymentprovider.NewClient(0), metrics, notifier, 1800, newTestLogger())

		result, err := svc.Join(context.Background(), validJoinRequest())
		require.NoError(t, err)
		assert.Equal(t, int64(7), result.User.ID)
	})

	t.Run("отказ очереди уведомлений не отменяет регистрацию", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("GetUserByEmail", mock.Anything, mock.Anything).
			Return(nil, repository.ErrNotFound)
		repo.On("CreateUser", mock.Anything, mock.Anything).Return(int64(8), nil)
		repo.On("CreateMembershipPayment", mock.Anything, mock.Anything).Return(int64(2), nil)

		metrics := new(MockMetrics)
		metrics.On("InvalidateCache").Return()
		metrics.On("UpdateAggregates", mock.Anything).Return(&models.MetricsSnapshot{}, nil)

		notifier := new(MockNotifier)
		notifier.On("PublishWelcome", mock.Anything).Return(errors.New("channel closed"))

		svc := New(repo, paymentprovider.NewClient(0), metrics, notifier, 1800, newTestLogger())

		_, err := svc.Join(context.Background(), validJoinRequest())
		require.NoError(t, err)
	})
}
