// Package read реализует HTTP-обработчик чтения одного предложения
// вместе с его комментариями.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/radiocomunidad/radio-community/internal/http/response"
	"github.com/radiocomunidad/radio-community/internal/lib/sl"
	"github.com/radiocomunidad/radio-community/internal/models"
	"github.com/radiocomunidad/radio-community/internal/storage/repository"
)

// Handler управляет HTTP-запросами на чтение предложения.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения предложения.
type Service interface {
	Read(ctx context.Context, id int64) (*models.Proposal, []*models.ProposalComment, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Предложение с комментариями
// @Description Возвращает предложение по ID вместе с комментариями участников.
// @Tags Proposals
// @Produce  json
// @Param id path int true "ID предложения"
// @Success 200 {object} map[string]any "Предложение и комментарии"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Предложение не найдено"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /proposals/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.proposal.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("invalid proposal id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid proposal id"))
		return
	}

	proposal, comments, err := h.service.Read(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("proposal not found"))
			return
		}
		log.Error("failed to read proposal", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read proposal"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"proposal": proposal,
		"comments": comments,
	}))
}
