// Package get реализует HTTP-обработчик чтения агрегированных метрик сообщества.
//
// Handler возвращает снимок шести метрик, полученный из кеша, таблицы агрегатов
// или прямым пересчётом — в зависимости от того, какой путь чтения сработал.
// Денежные значения отдаются в целых долларах.
package get

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

// Handler управляет HTTP-запросами на чтение метрик сообщества.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис пайплайна метрик
}

// Service описывает интерфейс бизнес-логики чтения метрик.
type Service interface {
	Read(ctx context.Context) (*models.MetricsSnapshot, bool, int, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Метрики сообщества
// @Description Возвращает агрегированные метрики: участники, активные членства, собранные фонды и активные предложения. Денежные значения — в целых долларах.
// @Tags Metrics
// @Produce  json
// @Success 200 {object} map[string]any "Снимок метрик"
// @Failure 500 {object} response.ErrorResponse "Ошибка получения метрик"
// @Router /metrics [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.metrics.get"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	snapshot, fromCache, age, err := h.service.Read(r.Context())
	if err != nil {
		log.Error("failed to read metrics", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read metrics"))
		return
	}

	log.Info("metrics served",
		slog.Bool("from_cache", fromCache),
		slog.String("source", snapshot.Source),
	)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"totalUsers":      snapshot.TotalUsers,
		"activeUsers":     snapshot.ActiveUsers,
		"activeProposals": snapshot.ActiveProposals,
		"totalFunds":      snapshot.TotalFunds(),
		// Историческое имя поля, его до сих пор читает виджет на главной.
		"dineroTotalRecaudado": snapshot.TotalFunds(),
		"source":               snapshot.Source,
		"lastUpdated":          snapshot.LastUpdated,
		"fromCache":            fromCache,
		"cacheAgeSeconds":      age,
	}))
}
