// Package invalidate реализует HTTP-обработчик сброса кеша метрик.
//
// Handler очищает единственный слот внутрипроцессного кеша; следующий запрос
// метрик пройдёт по пути чтения из таблицы агрегатов или прямого пересчёта.
package invalidate

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/radiocomunidad/radio-community/internal/http/response"
)

// Handler управляет HTTP-запросами на сброс кеша метрик.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс инвалидации кеша метрик.
type Service interface {
	InvalidateCache()
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Сбросить кеш метрик
// @Description Очищает внутрипроцессный кеш снимка метрик.
// @Tags Metrics
// @Produce  json
// @Success 200 {object} response.Response "Кеш сброшен"
// @Router /invalidate-cache [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.metrics.invalidate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	h.service.InvalidateCache()

	log.Info("metrics cache invalidated by request")
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "cache invalidated",
	}))
}
