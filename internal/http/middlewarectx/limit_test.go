package middlewarectx

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doRequest(t *testing.T, h http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/metrics", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRateLimiter(t *testing.T) {
	t.Run("запросы сверх лимита получают 429", func(t *testing.T) {
		rl := NewRateLimiter(3, time.Minute)
		h := rl.Middleware(okHandler())

		for i := 0; i < 3; i++ {
			w := doRequest(t, h, "10.0.0.1:1234")
			require.Equal(t, http.StatusOK, w.Code, "request %d should pass", i+1)
		}

		w := doRequest(t, h, "10.0.0.1:1234")
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("заголовки лимита присутствуют на успешном ответе", func(t *testing.T) {
		rl := NewRateLimiter(5, time.Minute)
		h := rl.Middleware(okHandler())

		w := doRequest(t, h, "10.0.0.2:1234")
		require.Equal(t, http.StatusOK, w.Code)

		remaining, err := strconv.Atoi(w.Header().Get("X-RateLimit-Remaining"))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, remaining, 0)

		_, err = time.Parse(time.RFC3339, w.Header().Get("X-RateLimit-Reset"))
		assert.NoError(t, err, "X-RateLimit-Reset should be RFC3339")
	})

	t.Run("Retry-After целое неотрицательное число секунд", func(t *testing.T) {
		rl := NewRateLimiter(1, time.Minute)
		h := rl.Middleware(okHandler())

		doRequest(t, h, "10.0.0.3:1234")
		w := doRequest(t, h, "10.0.0.3:1234")
		require.Equal(t, http.StatusTooManyRequests, w.Code)

		retryAfter, err := strconv.Atoi(w.Header().Get("Retry-After"))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, retryAfter, 1)

		_, err = time.Parse(time.RFC3339, w.Header().Get("X-RateLimit-Reset"))
		assert.NoError(t, err)
	})

	t.Run("лимит считается отдельно на каждый IP", func(t *testing.T) {
		rl := NewRateLimiter(1, time.Minute)
		h := rl.Middleware(okHandler())

		w := doRequest(t, h, "10.0.0.4:1234")
		require.Equal(t, http.StatusOK, w.Code)
		w = doRequest(t, h, "10.0.0.4:1234")
		require.Equal(t, http.StatusTooManyRequests, w.Code)

		w = doRequest(t, h, "10.0.0.5:1234")
		assert.Equal(t, http.StatusOK, w.Code, "another IP should have its own bucket")
	})
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.7:5050"
	assert.Equal(t, "192.0.2.7", clientIP(req))

	req.RemoteAddr = "no-port-here"
	assert.Equal(t, "no-port-here", clientIP(req))

	req.Header.Set("X-Real-IP", "203.0.113.9")
	assert.Equal(t, "203.0.113.9", clientIP(req))

	// X-Forwarded-For имеет приоритет, берётся первый адрес в цепочке
	req.Header.Set("X-Forwarded-For", "198.51.100.1, 10.0.0.1")
	assert.Equal(t, "198.51.100.1", clientIP(req))
}
