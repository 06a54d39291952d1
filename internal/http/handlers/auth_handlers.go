package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/rogerio-castellano/wabot-dashboard/internal/auth"
	rl "github.com/rogerio-castellano/wabot-dashboard/internal/http/rate_limiter"
	"github.com/rs/zerolog/log"
)

// LoginHandler godoc
// @Summary Authenticate an operator and return access and refresh tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body CredentialsRequest true "username and password"
// @Success 200 {object} auth.TokenPair
// @Failure 400 {string} string "Invalid input"
// @Failure 401 {string} string "Unauthorized"
// @Failure 429 {string} string "Too many failed attempts"
// @Router /login [post]
func LoginHandler(w http.ResponseWriter, r *http.Request) {
	ip := rl.ClientIP(r)
	if rejectBanned(w, r, ip) {
		return
	}

	var credentials CredentialsRequest
	if err := readJSON(w, r, &credentials); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if credentials.Username == "" || credentials.Password == "" {
		http.Error(w, "Missing credentials", http.StatusBadRequest)
		return
	}

	pair, err := authService.Login(r.Context(), credentials.Username, credentials.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		strike(w, r, ip, "invalid credentials")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("username", credentials.Username).Msg("login failed")
		http.Error(w, "could not generate token", http.StatusInternalServerError)
		return
	}

	if banGuard != nil {
		if err := banGuard.Reset(r.Context(), ip); err != nil {
			log.Warn().Err(err).Str("ip", ip).Msg("could not reset login strikes")
		}
	}
	log.Info().Str("username", credentials.Username).Str("ip", ip).Msg("operator logged in")
	respond(w, pair)
}

// RefreshHandler godoc
// @Summary Exchange a refresh token for a new token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RefreshRequest true "refresh token"
// @Success 200 {object} auth.TokenPair
// @Failure 400 {string} string "Invalid input"
// @Failure 401 {string} string "Invalid refresh token"
// @Failure 429 {string} string "Too many failed attempts"
// @Router /refresh [post]
func RefreshHandler(w http.ResponseWriter, r *http.Request) {
	ip := rl.ClientIP(r)
	if rejectBanned(w, r, ip) {
		return
	}

	var req RefreshRequest
	if err := readJSON(w, r, &req); err != nil || req.RefreshToken == "" {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	pair, err := authService.Refresh(r.Context(), req.RefreshToken)
	if errors.Is(err, auth.ErrInvalidRefreshToken) {
		strike(w, r, ip, "invalid refresh token")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("token refresh failed")
		http.Error(w, "could not refresh token", http.StatusInternalServerError)
		return
	}
	respond(w, pair)
}

// LogoutHandler godoc
// @Summary Revoke a refresh token
// @Tags auth
// @Accept json
// @Param body body RefreshRequest true "refresh token"
// @Success 204 "Logged out"
// @Failure 400 {string} string "Invalid input"
// @Router /logout [post]
func LogoutHandler(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := readJSON(w, r, &req); err != nil || req.RefreshToken == "" {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if err := authService.Logout(r.Context(), req.RefreshToken); err != nil {
		log.Error().Err(err).Msg("logout failed")
		http.Error(w, "could not revoke token", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func rejectBanned(w http.ResponseWriter, r *http.Request, ip string) bool {
	if banGuard == nil {
		return false
	}
	banned, err := banGuard.Banned(r.Context(), ip)
	if err != nil {
		log.Warn().Err(err).Str("ip", ip).Msg("ban lookup failed")
		return false
	}
	if banned {
		w.Header().Set("Retry-After", strconv.Itoa(int(banGuard.BanDuration().Seconds())))
		http.Error(w, "too many failed attempts, try again later", http.StatusTooManyRequests)
		return true
	}
	return false
}

func strike(w http.ResponseWriter, r *http.Request, ip, reason string) {
	if banGuard != nil {
		banned, err := banGuard.Strike(r.Context(), ip, r.URL.Path)
		if err != nil {
			log.Warn().Err(err).Str("ip", ip).Msg("could not record login strike")
		}
		if banned {
			w.Header().Set("Retry-After", strconv.Itoa(int(banGuard.BanDuration().Seconds())))
			http.Error(w, "too many failed attempts, try again later", http.StatusTooManyRequests)
			return
		}
	}
	http.Error(w, reason, http.StatusUnauthorized)
}
