package get

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/radiocomunidad/radio-community/internal/models"
)

// MockService реализует интерфейс get.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Read(ctx context.Context) (*models.MetricsSnapshot, bool, int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Int(2), args.Error(3)
	}
	return args.Get(0).(*models.MetricsSnapshot), args.Bool(1), args.Int(2), args.Error(3)
}

func TestGetMetricsHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	snapshot := &models.MetricsSnapshot{
		TotalUsers:             12,
		ActiveUsers:            10,
		MembershipFundsCents:   18000,
		ContributionFundsCents: 2500,
		TotalFundsCents:        20500,
		ActiveProposals:        3,
		Source:                 models.SourceAggregated,
		LastUpdated:            time.Now().UTC(),
	}

	tests := []struct {
		name           string
		setupMock      func(*MockService)
		expectedStatus int
		verify         func(t *testing.T, body map[string]any)
	}{
		{
			name: "снимок из кеша",
			setupMock: func(m *MockService) {
				m.On("Read", mock.Anything).Return(snapshot, true, 42, nil)
			},
			expectedStatus: http.StatusOK,
			verify: func(t *testing.T, body map[string]any) {
				require.Equal(t, true, body["success"])
				data := body["data"].(map[string]any)
				assert.Equal(t, float64(12), data["totalUsers"])
				assert.Equal(t, float64(10), data["activeUsers"])
				assert.Equal(t, float64(3), data["activeProposals"])
				// Деньги наружу отдаются в целых долларах
				assert.Equal(t, float64(205), data["totalFunds"])
				assert.Equal(t, float64(205), data["dineroTotalRecaudado"])
				assert.Equal(t, "aggregated", data["source"])
				assert.Equal(t, true, data["fromCache"])
				assert.Equal(t, float64(42), data["cacheAgeSeconds"])
			},
		},
		{
			name: "снимок после промаха кеша",
			setupMock: func(m *MockService) {
				m.On("Read", mock.Anything).Return(snapshot, false, 0, nil)
			},
			expectedStatus: http.StatusOK,
			verify: func(t *testing.T, body map[string]any) {
				data := body["data"].(map[string]any)
				assert.Equal(t, false, data["fromCache"])
				assert.Equal(t, float64(0), data["cacheAgeSeconds"])
			},
		},
		{
			name: "ошибка сервиса",
			setupMock: func(m *MockService) {
				m.On("Read", mock.Anything).Return(nil, false, 0, errors.New("database down"))
			},
			expectedStatus: http.StatusInternalServerError,
			verify: func(t *testing.T, body map[string]any) {
				require.Equal(t, false, body["success"])
				assert.Equal(t, "could not read metrics", body["error"])
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(MockService)
			tt.setupMock(mockSvc)

			handler := New(logger, mockSvc)

			req := httptest.NewRequest(http.MethodGet, "/api/metrics", nil)
			ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "req-id")
			req = req.WithContext(ctx)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			tt.verify(t, body)
			mockSvc.AssertExpectations(t)
		})
	}
}
