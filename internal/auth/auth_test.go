package auth

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rogerio-castellano/wabot-dashboard/internal/cache"
	"github.com/rogerio-castellano/wabot-dashboard/internal/models"
	"github.com/rogerio-castellano/wabot-dashboard/internal/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const secret = "test-secret-that-is-long-enough!!"

func newService(t *testing.T) (*AuthService, *repo.InMemoryAdminRepository) {
	t.Helper()
	admins := repo.NewInMemoryAdminRepository()
	svc := NewAuthService(admins, cache.NewMemoryStore(), Config{Secret: secret, TokenTTL: time.Minute, RefreshTTL: time.Hour})
	require.NoError(t, svc.EnsureAdmin("admin", "s3cret!"))
	return svc, admins
}

func TestEnsureAdmin(t *testing.T) {
	svc, admins := newService(t)

	u, err := admins.GetByUsername("admin")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret!")))

	require.NoError(t, svc.EnsureAdmin("admin", "other"))
	u2, _ := admins.GetByUsername("admin")
	assert.Equal(t, u.PasswordHash, u2.PasswordHash)

	assert.NoError(t, svc.EnsureAdmin("", ""))
}

func TestLogin(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	pair, err := svc.Login(ctx, "admin", "s3cret!")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.Len(t, pair.RefreshToken, 64)
	assert.Equal(t, models.RoleAdmin, pair.Role)

	claims, err := svc.ParseToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, "1", claims.Subject)
	assert.True(t, claims.IsAdmin())

	_, err = svc.Login(ctx, "admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody", "s3cret!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	pair, err := svc.Login(ctx, "admin", "s3cret!")
	require.NoError(t, err)

	next, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	_, err = svc.Refresh(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRefreshTokenIsSpentOnce(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	pair, err := svc.Login(ctx, "admin", "s3cret!")
	require.NoError(t, err)

	var ok atomic.Int32
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Refresh(ctx, pair.RefreshToken); err == nil {
				ok.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), ok.Load())
}

func TestLogoutRevokes(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	pair, err := svc.Login(ctx, "admin", "s3cret!")
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, pair.RefreshToken))

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestParseToken_Rejects(t *testing.T) {
	svc, _ := newService(t)
	user := models.AdminUser{ID: 1, Username: "admin", Role: models.RoleAdmin}

	expired, err := generateToken([]byte(secret), user, time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	_, err = svc.ParseToken(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	foreign, err := generateToken([]byte("another-secret"), user, time.Minute, time.Now())
	require.NoError(t, err)
	_, err = svc.ParseToken(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Username: "admin"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.ParseToken(none)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ParseToken("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestBearerToken(t *testing.T) {
	tok, ok := BearerToken("Bearer abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)

	_, ok = BearerToken("Basic abc")
	assert.False(t, ok)

	_, ok = BearerToken("Bearer ")
	assert.False(t, ok)
}
