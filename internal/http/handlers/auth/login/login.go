// Package login реализует HTTP-обработчик входа участника.
//
// Handler принимает JSON с email и паролем, валидирует его, проверяет учётные
// данные через сервис и при успехе устанавливает сессионную cookie.
package login

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/radiocomunidad/radio-community/internal/config"
	"github.com/radiocomunidad/radio-community/internal/http/middlewarectx"
	"github.com/radiocomunidad/radio-community/internal/http/response"
	"github.com/radiocomunidad/radio-community/internal/lib/sl"
	"github.com/radiocomunidad/radio-community/internal/models"
	"github.com/radiocomunidad/radio-community/internal/services/auth"
)

// Handler управляет HTTP-запросами на вход.
type Handler struct {
	log        *slog.Logger
	service    Service
	sessionCfg config.Session
	validate   *validator.Validate
}

// Service описывает интерфейс бизнес-логики входа.
type Service interface {
	Login(ctx context.Context, email, password string) (string, *models.User, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service, sessionCfg config.Session) *Handler {
	return &Handler{
		log:        log,
		service:    service,
		sessionCfg: sessionCfg,
		validate:   validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Вход участника
// @Description Проверяет email и пароль, при успехе устанавливает сессионную cookie.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body models.LoginRequest true "Учётные данные"
// @Success 200 {object} map[string]any "Успешный вход"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Неверные учётные данные"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.LoginRequest
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

	token, user, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			log.Info("invalid credentials", sl.Email(req.Email))
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("invalid email or password"))
			return
		}
		log.Error("login failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not log in"))
		return
	}

	middlewarectx.SetSessionCookie(w, h.sessionCfg, token)

	log.Info("member logged in", slog.Int64("user_id", user.ID), sl.Email(user.Email))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"name":  user.Name,
		"email": user.Email,
		"level": user.Level,
	}))
}
