package radiocommunity

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/radiocomunidad/radio-community/internal/config"
	loginhandler "github.com/radiocomunidad/radio-community/internal/http/handlers/auth/login"
	logouthandler "github.com/radiocomunidad/radio-community/internal/http/handlers/auth/logout"
	healthhandler "github.com/radiocomunidad/radio-community/internal/http/handlers/health"
	joinhandler "github.com/radiocomunidad/radio-community/internal/http/handlers/membership/join"
	metricsforcerefresh "github.com/radiocomunidad/radio-community/internal/http/handlers/metrics/forcerefresh"
	metricsget "github.com/radiocomunidad/radio-community/internal/http/handlers/metrics/get"
	metricsinvalidate "github.com/radiocomunidad/radio-community/internal/http/handlers/metrics/invalidate"
	metricsupdate "github.com/radiocomunidad/radio-community/internal/http/handlers/metrics/update"
	newslist "github.com/radiocomunidad/radio-community/internal/http/handlers/news/list"
	proposalcomment "github.com/radiocomunidad/radio-community/internal/http/handlers/proposal/comment"
	proposalcontribute "github.com/radiocomunidad/radio-community/internal/http/handlers/proposal/contribute"
	proposalcreate "github.com/radiocomunidad/radio-community/internal/http/handlers/proposal/create"
	proposallist "github.com/radiocomunidad/radio-community/internal/http/handlers/proposal/list"
	proposalread "github.com/radiocomunidad/radio-community/internal/http/handlers/proposal/read"
	proposalvote "github.com/radiocomunidad/radio-community/internal/http/handlers/proposal/vote"
	"github.com/radiocomunidad/radio-community/internal/http/middlewarectx"
	"github.com/radiocomunidad/radio-community/internal/lib/jwt"
	authservice "github.com/radiocomunidad/radio-community/internal/services/auth"
	membershipservice "github.com/radiocomunidad/radio-community/internal/services/membership"
	metricsservice "github.com/radiocomunidad/radio-community/internal/services/metrics"
	newsservice "github.com/radiocomunidad/radio-community/internal/services/news"
	proposalservice "github.com/radiocomunidad/radio-community/internal/services/proposal"
	"github.com/radiocomunidad/radio-community/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, tokens jwt.Maker,
	db *repository.Storage,
	metricsService *metricsservice.Service,
	authService *authservice.Service,
	membershipService *membershipservice.Service,
	proposalService *proposalservice.Service,
	newsService *newsservice.Service,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)
	r.Use(middlewarectx.SessionMiddleware(tokens, cfg.Session, logger))

	generalLimiter := middlewarectx.NewRateLimiter(cfg.GeneralLimit, cfg.RateLimits.Window)
	authLimiter := middlewarectx.NewRateLimiter(cfg.AuthLimit, cfg.RateLimits.Window)
	metricsLimiter := middlewarectx.NewRateLimiter(cfg.MetricsLimit, cfg.RateLimits.Window)

	// Форма участия: отдельный жёсткий лимит, доступна только гостям
	r.Group(func(r chi.Router) {
		r.Use(authLimiter.Middleware)
		r.Use(middlewarectx.RequireGuest())
		r.Post("/participacion", joinhandler.New(logger, membershipService, authService, cfg.Session).ServeHTTP)
	})

	r.Route("/api", func(r chi.Router) {
		// Метрики сообщества: свой, более щедрый лимит
		r.Group(func(r chi.Router) {
			r.Use(metricsLimiter.Middleware)
			r.Get("/metrics", metricsget.New(logger, metricsService).ServeHTTP)
		})

		r.Group(func(r chi.Router) {
			r.Use(generalLimiter.Middleware)

			// Открытые конечные точки
			r.Post("/update-aggregates", metricsupdate.New(logger, metricsService).ServeHTTP)
			r.Post("/invalidate-cache", metricsinvalidate.New(logger, metricsService).ServeHTTP)
			r.Post("/debug/invalidate-cache", metricsforcerefresh.New(logger, metricsService).ServeHTTP)
			r.Post("/logout", logouthandler.New(logger, cfg.Session).ServeHTTP)
			r.Get("/news", newslist.New(logger, newsService).ServeHTTP)
			r.Get("/proposals", proposallist.New(logger, proposalService).ServeHTTP)
			r.Get("/proposals/{id}", proposalread.New(logger, proposalService).ServeHTTP)

			// Вход: жёсткий лимит против перебора паролей
			r.Group(func(r chi.Router) {
				r.Use(authLimiter.Middleware)
				r.Post("/login", loginhandler.New(logger, authService, cfg.Session).ServeHTTP)
			})

			// Группа для аутентифицированных участников
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireAuth(logger))
				r.Post("/proposals", proposalcreate.New(logger, proposalService).ServeHTTP)
				r.Post("/proposals/{id}/vote", proposalvote.New(logger, proposalService).ServeHTTP)
				r.Post("/proposals/{id}/contribute", proposalcontribute.New(logger, proposalService).ServeHTTP)
				r.Post("/proposals/{id}/comments", proposalcomment.New(logger, proposalService).ServeHTTP)
			})
		})
	})

	r.Get("/health", healthhandler.New(logger, db).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
