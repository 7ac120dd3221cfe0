package middlewarectx

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radiocomunidad/radio-community/internal/config"
	"github.com/radiocomunidad/radio-community/internal/lib/jwt"
)

func testSessionCfg() config.Session {
	return config.Session{
		SessionSecretKey: "test-secret",
		SessionTTL:       time.Hour,
		CookieName:       "session",
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// captureHandler запоминает значения контекста, видимые конечным обработчиком.
type captureHandler struct {
	called bool
	userID any
	email  any
}

func (c *captureHandler) ServeHTTP(_ http.ResponseWriter, r *http.Request) {
	c.called = true
	c.userID = r.Context().Value(UserID)
	c.email = r.Context().Value(UserEmail)
}

func TestSessionMiddleware(t *testing.T) {
	cfg := testSessionCfg()
	tokens := jwt.NewMaker(cfg.SessionSecretKey, cfg.SessionTTL)

	t.Run("валидная cookie кладёт участника в контекст", func(t *testing.T) {
		token, err := tokens.GenerateToken(42, "maria@example.com", "member")
		require.NoError(t, err)

		capture := &captureHandler{}
		mw := SessionMiddleware(tokens, cfg, testLogger())(capture)

		req := httptest.NewRequest(http.MethodPost, "/api/proposals", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: token})
		mw.ServeHTTP(httptest.NewRecorder(), req)

		require.True(t, capture.called)
		assert.Equal(t, int64(42), capture.userID)
		assert.Equal(t, "maria@example.com", capture.email)
	})

	t.Run("GET с валидной сессией перевыпускает cookie", func(t *testing.T) {
		token, err := tokens.GenerateToken(42, "maria@example.com", "member")
		require.NoError(t, err)

		capture := &captureHandler{}
		mw := SessionMiddleware(tokens, cfg, testLogger())(capture)

		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: token})
		w := httptest.NewRecorder()
		mw.ServeHTTP(w, req)

		cookies := w.Result().Cookies()
		require.NotEmpty(t, cookies, "GET should renew the session cookie")
		assert.Equal(t, "session", cookies[0].Name)
		assert.NotEmpty(t, cookies[0].Value)

		claims, err := tokens.ParseToken(cookies[0].Value)
		require.NoError(t, err)
		assert.Equal(t, int64(42), claims.UserID)
	})

	t.Run("битая cookie удаляется, запрос проходит как гостевой", func(t *testing.T) {
		capture := &captureHandler{}
		mw := SessionMiddleware(tokens, cfg, testLogger())(capture)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: "garbage"})
		w := httptest.NewRecorder()
		mw.ServeHTTP(w, req)

		require.True(t, capture.called)
		assert.Nil(t, capture.userID)

		cookies := w.Result().Cookies()
		require.NotEmpty(t, cookies)
		assert.Equal(t, "session", cookies[0].Name)
		assert.Less(t, cookies[0].MaxAge, 0, "invalid cookie should be deleted")
	})

	t.Run("без cookie запрос проходит как гостевой", func(t *testing.T) {
		capture := &captureHandler{}
		mw := SessionMiddleware(tokens, cfg, testLogger())(capture)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		mw.ServeHTTP(httptest.NewRecorder(), req)

		require.True(t, capture.called)
		assert.Nil(t, capture.userID)
	})

	t.Run("токен с чужой подписью отклоняется", func(t *testing.T) {
		other := jwt.NewMaker("another-secret", time.Hour)
		token, err := other.GenerateToken(7, "evil@example.com", "member")
		require.NoError(t, err)

		capture := &captureHandler{}
		mw := SessionMiddleware(tokens, cfg, testLogger())(capture)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: token})
		mw.ServeHTTP(httptest.NewRecorder(), req)

		assert.Nil(t, capture.userID)
	})
}

func TestRequireAuth(t *testing.T) {
	cfg := testSessionCfg()
	tokens := jwt.NewMaker(cfg.SessionSecretKey, cfg.SessionTTL)

	authed := func(next http.Handler) http.Handler {
		session := SessionMiddleware(tokens, cfg, testLogger())
		guard := RequireAuth(testLogger())
		return session(guard(next))
	}

	t.Run("гость на API получает 401", func(t *testing.T) {
		capture := &captureHandler{}
		h := authed(capture)

		req := httptest.NewRequest(http.MethodPost, "/api/proposals", nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"success":false,"error":"unauthorized"}`, w.Body.String())
		assert.False(t, capture.called)
	})

	t.Run("гость вне API редиректится на вход", func(t *testing.T) {
		capture := &captureHandler{}
		h := authed(capture)

		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/sign-in", w.Header().Get("Location"))
	})

	t.Run("аутентифицированный участник проходит", func(t *testing.T) {
		token, err := tokens.GenerateToken(1, "m@example.com", "member")
		require.NoError(t, err)

		capture := &captureHandler{}
		h := authed(capture)

		req := httptest.NewRequest(http.MethodPost, "/api/proposals", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: token})
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.True(t, capture.called)
	})
}

func TestRequireGuest(t *testing.T) {
	cfg := testSessionCfg()
	tokens := jwt.NewMaker(cfg.SessionSecretKey, cfg.SessionTTL)

	guarded := func(next http.Handler) http.Handler {
		session := SessionMiddleware(tokens, cfg, testLogger())
		return session(RequireGuest()(next))
	}

	t.Run("гость проходит к форме участия", func(t *testing.T) {
		capture := &captureHandler{}
		h := guarded(capture)

		req := httptest.NewRequest(http.MethodPost, "/participacion", nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.True(t, capture.called)
	})

	t.Run("участник с сессией уводится на дашборд", func(t *testing.T) {
		token, err := tokens.GenerateToken(1, "m@example.com", "member")
		require.NoError(t, err)

		capture := &captureHandler{}
		h := guarded(capture)

		req := httptest.NewRequest(http.MethodPost, "/participacion", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: token})
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/dashboard", w.Header().Get("Location"))
		assert.False(t, capture.called)
	})
}
