package middlewarectx

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/render"
	"golang.org/x/time/rate"

	"github.com/radiocomunidad/radio-community/internal/http/response"
)

// RateLimiter ограничивает число запросов с одного IP в скользящем окне.
// На каждый IP заводится собственный token bucket со скоростью
// limit/window и ёмкостью limit; записи без активности вычищаются фоново.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter создает лимитер на limit запросов за window.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
	}
	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) cleanup() {
	for range time.Tick(rl.window) {
		rl.mu.Lock()
		for ip, v := range rl.visitors {
			if time.Since(v.lastSeen) > 2*rl.window {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}

func (rl *RateLimiter) visitorFor(ip string) *visitor {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{
			limiter: rate.NewLimiter(rate.Limit(float64(rl.limit)/rl.window.Seconds()), rl.limit),
		}
		rl.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v
}

// Middleware возвращает HTTP middleware, применяющий лимит к каждому запросу.
// В ответ добавляются заголовки X-RateLimit-Remaining и X-RateLimit-Reset,
// при превышении лимита — 429 с Retry-After в секундах.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		v := rl.visitorFor(ip)

		res := v.limiter.Reserve()
		delay := res.Delay()
		if delay > 0 {
			res.Cancel()

			retryAfter := int(delay.Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("X-RateLimit-Reset", time.Now().Add(delay).Format(time.RFC3339))
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			render.Status(r, http.StatusTooManyRequests)
			render.JSON(w, r, response.Error("too many requests"))
			return
		}

		remaining := int(v.limiter.Tokens())
		if remaining < 0 {
			remaining = 0
		}
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("X-RateLimit-Reset", time.Now().Add(rl.window).Format(time.RFC3339))

		next.ServeHTTP(w, r)
	})
}

// clientIP извлекает IP клиента: первый адрес из X-Forwarded-For,
// затем X-Real-IP, иначе RemoteAddr без порта.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// String описывает конфигурацию лимитера, удобно для логов при старте.
func (rl *RateLimiter) String() string {
	return fmt.Sprintf("%d requests per %s", rl.limit, rl.window)
}
