// Package vote реализует HTTP-обработчик голосования по предложению.
//
// Handler принимает JSON с типом голоса, валидирует его, извлекает участника
// из контекста и вызывает бизнес-логику голосования. Повторный голос по тому
// же предложению отклоняется с кодом 409.
package vote

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/radiocomunidad/radio-community/internal/http/middlewarectx"
	"github.com/radiocomunidad/radio-community/internal/http/response"
	"github.com/radiocomunidad/radio-community/internal/lib/sl"
	"github.com/radiocomunidad/radio-community/internal/models"
	"github.com/radiocomunidad/radio-community/internal/services/proposal"
	"github.com/radiocomunidad/radio-community/internal/storage/repository"
)

// Handler управляет HTTP-запросами на голосование.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики голосования.
type Service interface {
	Vote(ctx context.Context, userID, proposalID int64, voteType string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Проголосовать по предложению
// @Description Сохраняет голос текущего участника за или против предложения. Один голос на участника.
// @Tags Proposals
// @Accept  json
// @Produce  json
// @Param id path int true "ID предложения"
// @Param request body models.DummyVote true "Тип голоса"
// @Success 200 {object} response.Response "Голос принят"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 401 {object} response.ErrorResponse "Участник не авторизован"
// @Failure 404 {object} response.ErrorResponse "Предложение не найдено"
// @Failure 409 {object} response.ErrorResponse "Участник уже голосовал"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /proposals/{id}/vote [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.proposal.vote"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	proposalID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("invalid proposal id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid proposal id"))
		return
	}

	var req models.DummyVote
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	userID, ok := r.Context().Value(middlewarectx.UserID).(int64)
	if !ok {
		log.Error("user id not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.Vote(r.Context(), userID, proposalID, req.VoteType); err != nil {
		switch {
		case errors.Is(err, proposal.ErrAlreadyVoted):
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("already voted"))
		case errors.Is(err, repository.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("proposal not found"))
		default:
			log.Error("failed to register vote", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not register vote"))
		}
		return
	}

	log.Info("vote registered", slog.Int64("proposal_id", proposalID), slog.Int64("user_id", userID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "vote registered",
	}))
}
