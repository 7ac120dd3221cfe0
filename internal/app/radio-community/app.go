// Package radiocommunity собирает основное приложение сообщества:
// хранилище, миграции, кеши, очередь уведомлений, сервисы и HTTP-сервер.
package radiocommunity

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/radiocomunidad/radio-community/internal/cache"
	"github.com/radiocomunidad/radio-community/internal/config"
	"github.com/radiocomunidad/radio-community/internal/lib/jwt"
	"github.com/radiocomunidad/radio-community/internal/metricscache"
	"github.com/radiocomunidad/radio-community/internal/migrations"
	"github.com/radiocomunidad/radio-community/internal/paymentprovider"
	"github.com/radiocomunidad/radio-community/internal/rabbitmq"
	authservice "github.com/radiocomunidad/radio-community/internal/services/auth"
	membershipservice "github.com/radiocomunidad/radio-community/internal/services/membership"
	metricsservice "github.com/radiocomunidad/radio-community/internal/services/metrics"
	newsservice "github.com/radiocomunidad/radio-community/internal/services/news"
	proposalservice "github.com/radiocomunidad/radio-community/internal/services/proposal"
	"github.com/radiocomunidad/radio-community/internal/storage/repository"
)

// App основное приложение сообщества.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New инициализирует зависимости и собирает HTTP-сервер.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}

	tokens := jwt.NewMaker(cfg.SessionSecretKey, cfg.SessionTTL)
	provider := paymentprovider.NewClient(200 * time.Millisecond)
	slot := metricscache.New(cfg.Metrics.CacheTTL)

	metricsService := metricsservice.New(db, slot, logger)
	authService := authservice.New(db, tokens, logger)
	membershipService := membershipservice.New(
		db, provider, metricsService,
		membershipservice.NewWelcomePublisher(ch),
		int64(cfg.FeeCents), logger,
	)
	proposalService := proposalservice.New(db, cacheRedis, metricsService, logger)
	newsService := newsservice.New(db, cacheRedis, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, tokens, db,
		metricsService, authService, membershipService, proposalService, newsService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

// Run запускает HTTP-сервер и дожидается сигнала на остановку.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if chErr := a.ch.Close(); chErr != nil {
			a.logger.Error("failed to close rabbitmq channel", slog.Any("err", chErr))
		}
		if connErr := a.conn.Close(); connErr != nil {
			a.logger.Error("failed to close rabbitmq connection", slog.Any("err", connErr))
		}
		a.db.DB.Close()
		return err
	}
}
