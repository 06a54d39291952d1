package middleware

import (
	"context"
	"net/http"

	"github.com/rogerio-castellano/wabot-dashboard/internal/auth"
)

type contextKey string

const claimsKey = contextKey("claims")

var authService *auth.AuthService

func SetAuthService(a *auth.AuthService) {
	authService = a
}

// Authenticate requires a valid bearer access token and stores its claims in
// the request context.
func Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr, ok := auth.BearerToken(r.Header.Get("Authorization"))
		if !ok {
			http.Error(w, "missing or invalid token", http.StatusUnauthorized)
			return
		}

		claims, err := authService.ParseToken(tokenStr)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin must run after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := GetClaims(r)
		if claims == nil {
			http.Error(w, "missing or invalid token", http.StatusUnauthorized)
			return
		}
		if !claims.IsAdmin() {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func GetClaims(r *http.Request) *auth.Claims {
	if c, ok := r.Context().Value(claimsKey).(*auth.Claims); ok {
		return c
	}
	return nil
}

func GetUsername(r *http.Request) string {
	if c := GetClaims(r); c != nil {
		return c.Username
	}
	return ""
}
