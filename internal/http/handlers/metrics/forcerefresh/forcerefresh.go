// Package forcerefresh реализует отладочный HTTP-обработчик полного обновления
// метрик: сброс кеша, пересчёт агрегатов и немедленный прогрев слота.
package forcerefresh

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/radiocomunidad/radio-community/internal/http/response"
	"github.com/radiocomunidad/radio-community/internal/lib/sl"
	"github.com/radiocomunidad/radio-community/internal/models"
)

// Handler управляет отладочными запросами полного обновления метрик.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс принудительного обновления метрик.
type Service interface {
	ForceRefresh(ctx context.Context) (*models.MetricsSnapshot, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Принудительно обновить метрики
// @Description Сбрасывает кеш, пересчитывает агрегаты и прогревает кеш свежим снимком.
// @Tags Metrics
// @Produce  json
// @Success 200 {object} map[string]any "Свежий снимок метрик"
// @Failure 500 {object} response.ErrorResponse "Ошибка пересчёта"
// @Router /debug/invalidate-cache [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.metrics.forcerefresh"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	snapshot, err := h.service.ForceRefresh(r.Context())
	if err != nil {
		log.Error("failed to force refresh metrics", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not refresh metrics"))
		return
	}

	log.Info("metrics force refreshed")
	render.JSON(w, r, response.OKWithData(map[string]any{
		"totalUsers":      snapshot.TotalUsers,
		"activeUsers":     snapshot.ActiveUsers,
		"activeProposals": snapshot.ActiveProposals,
		"totalFunds":      snapshot.TotalFunds(),
		"lastUpdated":     snapshot.LastUpdated,
	}))
}
