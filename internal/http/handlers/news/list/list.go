// Package list реализует HTTP-обработчик ленты новостей сообщества.
package list

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

// Handler управляет HTTP-запросами на чтение ленты новостей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики ленты новостей.
type Service interface {
	List(ctx context.Context) ([]*models.NewsItem, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Лента новостей
// @Description Возвращает последние опубликованные новости сообщества.
// @Tags News
// @Produce  json
// @Success 200 {object} map[string]any "Список новостей"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /news [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.news.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	news, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list news", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list news"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"news": news,
	}))
}
