package middleware

import (
	"net/http"

	rl "github.com/rogerio-castellano/wabot-dashboard/internal/http/rate_limiter"
)

var limiter *rl.Limiter

func SetRateLimiter(l *rl.Limiter) {
	limiter = l
}

// RateLimit applies the configured per-client limiter, if any.
func RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if limiter == nil {
			next.ServeHTTP(w, r)
			return
		}
		limiter.Middleware(next).ServeHTTP(w, r)
	})
}
