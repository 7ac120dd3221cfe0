// Package join реализует HTTP-обработчик формы участия в сообществе.
//
// Handler принимает HTML-форму с данными участника и способом оплаты,
// валидирует её, проводит регистрацию с оплатой взноса через сервис
// и завершает запрос редиректом: на страницу успеха с временными учётными
// данными или на страницу ошибки с кодом причины в query-параметре reason.
package join

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/radiocomunidad/radio-community/internal/config"
	"github.com/radiocomunidad/radio-community/internal/http/middlewarectx"
	"github.com/radiocomunidad/radio-community/internal/lib/sl"
	"github.com/radiocomunidad/radio-community/internal/models"
	"github.com/radiocomunidad/radio-community/internal/services/membership"
)

// Коды причин ошибки, которые читает страница /participacion/error.
const (
	reasonIncomplete      = "datos-incompletos"
	reasonInvalid         = "datos-invalidos"
	reasonEmailTaken      = "email-existente"
	reasonDuplicate       = "datos-duplicados"
	reasonDatabase        = "error-base-datos"
	reasonCreation        = "error-creacion"
	reasonPaymentRejected = "pago-rechazado"
	reasonGeneral         = "error-general"
)

// Handler управляет HTTP-запросами формы участия.
type Handler struct {
	log        *slog.Logger
	service    Service
	sessions   SessionIssuer
	sessionCfg config.Session
	validate   *validator.Validate
}

// Service описывает интерфейс бизнес-логики участия.
type Service interface {
	Join(ctx context.Context, req models.JoinRequest) (*membership.JoinResult, error)
}

// SessionIssuer выпускает сессионный токен для нового участника.
type SessionIssuer interface {
	IssueSession(user *models.User) (string, error)
}

// New создает новый Handler с переданными логгером и сервисами.
func New(log *slog.Logger, service Service, sessions SessionIssuer, sessionCfg config.Session) *Handler {
	return &Handler{
		log:        log,
		service:    service,
		sessions:   sessions,
		sessionCfg: sessionCfg,
		validate:   validator.New(),
	}
}

// ServeHTTP обрабатывает отправку формы участия.
//
// Выполняет:
// - Разбор полей HTML-формы.
// - Валидацию данных (отдельные коды для неполных и некорректных данных).
// - Вызов сервиса регистрации с оплатой взноса.
// - Установку сессионной cookie и редирект 303 на страницу успеха
//   или на страницу ошибки с кодом причины.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.membership.join"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := r.ParseForm(); err != nil {
		log.Error("failed to parse form", sl.Err(err))
		h.redirectError(w, r, reasonInvalid)
		return
	}

	req := models.JoinRequest{
		Nombre:     r.PostFormValue("nombre"),
		Apellido:   r.PostFormValue("apellido"),
		Email:      r.PostFormValue("email"),
		Telefono:   r.PostFormValue("telefono"),
		CodigoPais: r.PostFormValue("codigoPais"),
		MetodoPago: r.PostFormValue("metodoPago"),
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		h.redirectError(w, r, validationReason(err))
		return
	}

	result, err := h.service.Join(r.Context(), req)
	if err != nil {
		log.Error("join failed", sl.Err(err), sl.Email(req.Email))
		h.redirectError(w, r, joinReason(err))
		return
	}

	token, err := h.sessions.IssueSession(result.User)
	if err != nil {
		log.Error("failed to issue session for new member", sl.Err(err))
	} else {
		middlewarectx.SetSessionCookie(w, h.sessionCfg, token)
	}

	log.Info("member joined", slog.Int64("user_id", result.User.ID), sl.Email(result.User.Email))

	query := url.Values{}
	query.Set("nombre", req.Nombre)
	query.Set("apellido", req.Apellido)
	query.Set("email", result.User.Email)
	query.Set("password", result.TempPassword)
	query.Set("metodo", req.MetodoPago)
	http.Redirect(w, r, "/participacion/exito?"+query.Encode(), http.StatusSeeOther)
}

func (h *Handler) redirectError(w http.ResponseWriter, r *http.Request, reason string) {
	http.Redirect(w, r, "/participacion/error?reason="+reason, http.StatusSeeOther)
}

// validationReason различает неполные данные (не заполнено обязательное поле)
// и некорректные (формат, длина, недопустимое значение).
func validationReason(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return reasonInvalid
	}
	for _, fe := range errs {
		if fe.ActualTag() == "required" {
			return reasonIncomplete
		}
	}
	return reasonInvalid
}

// joinReason переводит ошибку сервиса в код причины редиректа.
func joinReason(err error) string {
	switch {
	case errors.Is(err, membership.ErrEmailTaken):
		return reasonEmailTaken
	case errors.Is(err, membership.ErrDuplicateData):
		return reasonDuplicate
	case errors.Is(err, membership.ErrDatabase):
		return reasonDatabase
	case errors.Is(err, membership.ErrCreation):
		return reasonCreation
	case errors.Is(err, membership.ErrPaymentRejected):
		return reasonPaymentRejected
	default:
		return reasonGeneral
	}
}
