// Package update реализует HTTP-обработчик пересчёта агрегированных метрик.
//
// Handler запускает полный пересчёт шести метрик из сырых таблиц и запись
// результатов в таблицу агрегатов, возвращая свежие значения в JSON-формате.
package update

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

// Handler управляет HTTP-запросами на пересчёт агрегатов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики пересчёта агрегатов.
type Service interface {
	UpdateAggregates(ctx context.Context) (*models.MetricsSnapshot, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Пересчитать агрегаты метрик
// @Description Пересчитывает шесть метрик из сырых таблиц и перезаписывает таблицу агрегатов.
// @Tags Metrics
// @Produce  json
// @Success 200 {object} map[string]any "Обновлённые значения метрик"
// @Failure 500 {object} response.ErrorResponse "Ошибка пересчёта"
// @Router /update-aggregates [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.metrics.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	snapshot, err := h.service.UpdateAggregates(r.Context())
	if err != nil {
		log.Error("failed to update aggregates", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update aggregates"))
		return
	}

	log.Info("aggregates updated")
	render.JSON(w, r, response.OKWithData(map[string]any{
		"totalUsers":      snapshot.TotalUsers,
		"activeUsers":     snapshot.ActiveUsers,
		"activeProposals": snapshot.ActiveProposals,
		"totalFunds":      snapshot.TotalFunds(),
		"lastUpdated":     snapshot.LastUpdated,
	}))
}
