// Package logout реализует HTTP-обработчик выхода участника.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/radiocomunidad/radio-community/internal/config"
	"github.com/radiocomunidad/radio-community/internal/http/middlewarectx"
	"github.com/radiocomunidad/radio-community/internal/http/response"
)

// Handler управляет HTTP-запросами на выход.
type Handler struct {
	log        *slog.Logger
	sessionCfg config.Session
}

// New создает новый Handler с переданным логгером.
func New(log *slog.Logger, sessionCfg config.Session) *Handler {
	return &Handler{
		log:        log,
		sessionCfg: sessionCfg,
	}
}

// ServeHTTP godoc
// @Summary Выход участника
// @Description Удаляет сессионную cookie.
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.Response "Успешный выход"
// @Router /logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	middlewarectx.ClearSessionCookie(w, h.sessionCfg)

	log.Info("member logged out")
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "logged out",
	}))
}
