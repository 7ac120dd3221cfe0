package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"

	"github.com/radiocomunidad/radio-community/internal/config"
	"github.com/radiocomunidad/radio-community/internal/http/response"
	"github.com/radiocomunidad/radio-community/internal/lib/jwt"
	"github.com/radiocomunidad/radio-community/internal/lib/sl"
)

// SessionMiddleware читает сессионную cookie, проверяет подпись токена
// и кладёт данные участника в контекст запроса. На каждый GET с валидной
// сессией cookie перевыпускается со свежим сроком действия; битая cookie
// удаляется. Middleware не отклоняет запросы — этим занимается RequireAuth.
func SessionMiddleware(tokens jwt.Maker, cfg config.Session, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.Session"

			cookie, err := r.Cookie(cfg.CookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := tokens.ParseToken(cookie.Value)
			if err != nil {
				log.Debug("invalid session cookie", slog.String("op", op), sl.Err(err))
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.CookieName,
					Value:    "",
					Path:     "/",
					MaxAge:   -1,
					HttpOnly: true,
				})
				next.ServeHTTP(w, r)
				return
			}

			if r.Method == http.MethodGet {
				renewed, err := tokens.GenerateToken(claims.UserID, claims.Email, claims.Role)
				if err != nil {
					log.Error("failed to renew session token", slog.String("op", op), sl.Err(err))
				} else {
					SetSessionCookie(w, cfg, renewed)
				}
			}

			ctx := context.WithValue(r.Context(), UserID, claims.UserID)
			ctx = context.WithValue(ctx, UserEmail, claims.Email)
			ctx = context.WithValue(ctx, Role, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SetSessionCookie устанавливает сессионную cookie с токеном.
func SetSessionCookie(w http.ResponseWriter, cfg config.Session, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(cfg.SessionTTL),
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie удаляет сессионную cookie.
func ClearSessionCookie(w http.ResponseWriter, cfg config.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// RequireAuth пропускает только аутентифицированных участников.
// Запросы к API получают 401 с JSON-ошибкой, остальные — редирект на /sign-in.
func RequireAuth(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := r.Context().Value(UserID).(int64); !ok {
				if strings.HasPrefix(r.URL.Path, "/api/") {
					log.Debug("unauthenticated API request", slog.String("path", r.URL.Path))
					render.Status(r, http.StatusUnauthorized)
					render.JSON(w, r, response.Error("unauthorized"))
					return
				}
				http.Redirect(w, r, "/sign-in", http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireGuest уводит уже аутентифицированных участников с маршрутов
// регистрации и входа на дашборд.
func RequireGuest() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := r.Context().Value(UserID).(int64); ok {
				http.Redirect(w, r, "/dashboard", http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
