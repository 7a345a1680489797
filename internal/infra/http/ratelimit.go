package http

import (
	"crypto/subtle"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"jikonify-landing/internal/infra/metrics"
)

const visitorTTL = 10 * time.Minute

// InternalTokenHeader несёт токен запросов самого сервиса к своему API.
const InternalTokenHeader = "X-Internal-Token"

// RateLimiter ограничивает частоту запросов по IP.
type RateLimiter struct {
	mu          sync.Mutex
	visitors    map[string]*rate.Limiter
	limit       rate.Limit
	burst       int
	bypassToken []byte
}

type LimiterOption func(*RateLimiter)

// WithBypassToken пропускает без лимита запросы с этим токеном в InternalTokenHeader.
// Пустой токен ничего не меняет.
func WithBypassToken(token string) LimiterOption {
	return func(rl *RateLimiter) {
		if token != "" {
			rl.bypassToken = []byte(token)
		}
	}
}

// NewRateLimiter создаёт ограничитель с rps запросов в секунду и заданным burst.
func NewRateLimiter(rps float64, burst int, opts ...LimiterOption) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	rl := &RateLimiter{
		visitors: make(map[string]*rate.Limiter),
		limit:    rate.Limit(rps),
		burst:    burst,
	}
	for _, opt := range opts {
		opt(rl)
	}
	return rl
}

func (rl *RateLimiter) bypassed(r *http.Request) bool {
	if len(rl.bypassToken) == 0 {
		return false
	}
	got := r.Header.Get(InternalTokenHeader)
	return got != "" && subtle.ConstantTimeCompare([]byte(got), rl.bypassToken) == 1
}

func (rl *RateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if limiter, ok := rl.visitors[ip]; ok {
		return limiter
	}
	limiter := rate.NewLimiter(rl.limit, rl.burst)
	rl.visitors[ip] = limiter
	time.AfterFunc(visitorTTL, func() {
		rl.mu.Lock()
		delete(rl.visitors, ip)
		rl.mu.Unlock()
	})
	return limiter
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Limit отвечает 429, если IP превысил лимит. Ожидает RealIP выше по цепочке.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.bypassed(r) {
			next.ServeHTTP(w, r)
			return
		}
		if !rl.getLimiter(clientIP(r)).Allow() {
			metrics.RateLimitedTotal.Inc()
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"Too many requests"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
