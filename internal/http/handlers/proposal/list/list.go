// Package list реализует HTTP-обработчик списка предложений сообщества.
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

// Handler управляет HTTP-запросами на получение списка предложений.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка предложений.
type Service interface {
	List(ctx context.Context) ([]*models.Proposal, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список предложений
// @Description Возвращает предложения сообщества, отсортированные по дате создания.
// @Tags Proposals
// @Produce  json
// @Success 200 {object} map[string]any "Список предложений"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /proposals [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.proposal.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	proposals, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list proposals", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list proposals"))
		return
	}

	log.Info("proposals listed", slog.Int("count", len(proposals)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"proposals": proposals,
	}))
}
