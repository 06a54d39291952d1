// Package auth signs dashboard operators in and issues their tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rogerio-castellano/wabot-dashboard/internal/cache"
	"github.com/rogerio-castellano/wabot-dashboard/internal/models"
	"github.com/rogerio-castellano/wabot-dashboard/internal/repo"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	Role         string    `json:"role"`
}

type Config struct {
	Secret     string
	TokenTTL   time.Duration
	RefreshTTL time.Duration
}

type AuthService struct {
	admins   repo.AdminRepository
	refresh  refreshStore
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

func NewAuthService(admins repo.AdminRepository, store cache.Store, cfg Config) *AuthService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 15 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	return &AuthService{
		admins:   admins,
		refresh:  refreshStore{store: store, ttl: cfg.RefreshTTL},
		secret:   []byte(cfg.Secret),
		tokenTTL: cfg.TokenTTL,
		now:      time.Now,
	}
}

func (a *AuthService) Login(ctx context.Context, username, password string) (TokenPair, error) {
	user, err := a.admins.GetByUsername(username)
	if errors.Is(err, repo.ErrAdminNotFound) {
		return TokenPair{}, ErrInvalidCredentials
	}
	if err != nil {
		return TokenPair{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return TokenPair{}, ErrInvalidCredentials
	}
	return a.issue(ctx, user)
}

// Refresh exchanges a refresh token for a new pair. The old token is spent.
func (a *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	username, err := a.refresh.consume(ctx, refreshToken)
	if err != nil {
		return TokenPair{}, err
	}
	user, err := a.admins.GetByUsername(username)
	if errors.Is(err, repo.ErrAdminNotFound) {
		return TokenPair{}, ErrInvalidRefreshToken
	}
	if err != nil {
		return TokenPair{}, err
	}
	return a.issue(ctx, user)
}

func (a *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return a.refresh.revoke(ctx, refreshToken)
}

func (a *AuthService) ParseToken(token string) (*Claims, error) {
	return parseToken(a.secret, token)
}

// EnsureAdmin creates the bootstrap administrator unless it already exists.
func (a *AuthService) EnsureAdmin(username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	_, err := a.admins.GetByUsername(username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repo.ErrAdminNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if _, err := a.admins.Create(models.AdminUser{Username: username, PasswordHash: string(hash), Role: models.RoleAdmin}); err != nil {
		return err
	}
	log.Info().Str("username", username).Msg("bootstrap admin created")
	return nil
}

func (a *AuthService) issue(ctx context.Context, user models.AdminUser) (TokenPair, error) {
	now := a.now()
	access, err := generateToken(a.secret, user, a.tokenTTL, now)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign token: %w", err)
	}
	refresh, err := a.refresh.issue(ctx, user.Username)
	if err != nil {
		return TokenPair{}, fmt.Errorf("store refresh token: %w", err)
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresAt: now.Add(a.tokenTTL), Role: user.Role}, nil
}
