// Package contribute реализует HTTP-обработчик дополнительного взноса
// в поддержку предложения сообщества.
package contribute

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
	"github.com/radiocomunidad/radio-community/internal/storage/repository"
)

// Handler управляет HTTP-запросами на дополнительный взнос.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики взноса.
type Service interface {
	Contribute(ctx context.Context, userID, proposalID int64, req models.DummyContribution) (int64, error)
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
// @Summary Внести взнос в предложение
// @Description Записывает дополнительный взнос текущего участника и увеличивает собранную сумму предложения.
// @Tags Proposals
// @Accept  json
// @Produce  json
// @Param id path int true "ID предложения"
// @Param request body models.DummyContribution true "Сумма и способ оплаты"
// @Success 200 {object} map[string]any "ID созданного взноса"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 401 {object} response.ErrorResponse "Участник не авторизован"
// @Failure 404 {object} response.ErrorResponse "Предложение не найдено"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /proposals/{id}/contribute [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.proposal.contribute"

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

	var req models.DummyContribution
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

	id, err := h.service.Contribute(r.Context(), userID, proposalID, req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("proposal not found"))
			return
		}
		log.Error("failed to register contribution", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not register contribution"))
		return
	}

	log.Info("contribution registered",
		slog.Int64("id", id),
		slog.Int64("proposal_id", proposalID),
		slog.Int64("amount_cents", req.AmountCents),
	)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id": id,
	}))
}
