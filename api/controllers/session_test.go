package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/stockline-backend/api/middleware"
	"github.com/angelmondragon/stockline-backend/pkg/auth"
	"github.com/angelmondragon/stockline-backend/pkg/auth/session"
	"github.com/angelmondragon/stockline-backend/pkg/config"
	"github.com/angelmondragon/stockline-backend/pkg/enums"
)

type stubSessionTokenManager struct {
	lastRevoked    string
	lastRotateOld  string
	lastRotateBody string
	rotateRespID   string
	rotateRespTok  string
	rotateErr      error
	revokeErr      error
}

func (s *stubSessionTokenManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	s.lastRotateOld = oldAccessID
	s.lastRotateBody = provided
	return s.rotateRespID, s.rotateRespTok, s.rotateErr
}

func (s *stubSessionTokenManager) Revoke(ctx context.Context, accessID string) error {
	s.lastRevoked = accessID
	return s.revokeErr
}

var testJWTConfig = config.JWTConfig{Secret: "secret", Issuer: "stockline", ExpirationMinutes: 10}

func mintTestToken(t *testing.T, now time.Time, role enums.Role, loc *enums.Location) (string, string) {
	t.Helper()
	accessID := session.NewAccessID()
	token, err := auth.MintAccessToken(testJWTConfig, now, auth.AccessTokenPayload{
		UserID:   uuid.New(),
		Role:     role,
		Location: loc,
		JTI:      accessID,
	})
	require.NoError(t, err)
	return token, accessID
}

func TestAuthLogout(t *testing.T) {
	manager := &stubSessionTokenManager{}
	handler := AuthLogout(manager, testJWTConfig, nil)

	token, jti := mintTestToken(t, time.Now(), enums.RoleOwner, nil)
	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, jti, manager.lastRevoked)
}

func TestAuthLogoutAcceptsExpiredToken(t *testing.T) {
	manager := &stubSessionTokenManager{}
	handler := AuthLogout(manager, testJWTConfig, nil)

	token, jti := mintTestToken(t, time.Now().Add(-time.Hour), enums.RoleOwner, nil)
	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, jti, manager.lastRevoked)
}

func TestAuthLogoutStoreFailure(t *testing.T) {
	manager := &stubSessionTokenManager{revokeErr: errors.New("redis down")}
	token, _ := mintTestToken(t, time.Now(), enums.RoleOwner, nil)
	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	AuthLogout(manager, testJWTConfig, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAuthRefresh(t *testing.T) {
	manager := &stubSessionTokenManager{
		rotateRespID:  "new-jti",
		rotateRespTok: "new-refresh",
	}
	handler := AuthRefresh(manager, testJWTConfig, nil)

	loc := enums.LocationMill
	token, jti := mintTestToken(t, time.Now(), enums.RoleEmployee, &loc)
	req := httptest.NewRequest(http.MethodPost, "/refresh", strings.NewReader(`{"refresh_token":"old-refresh"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, jti, manager.lastRotateOld)
	assert.Equal(t, "old-refresh", manager.lastRotateBody)

	var body refreshResponse
	decodeData(t, rec, &body)
	assert.Equal(t, "new-refresh", body.RefreshToken)
	require.NotEmpty(t, body.AccessToken)
	assert.Equal(t, body.AccessToken, rec.Header().Get(middleware.TokenHeader))

	claims, err := auth.ParseAccessToken(testJWTConfig, body.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "new-jti", claims.ID)
	assert.Equal(t, enums.RoleEmployee, claims.Role)
	require.NotNil(t, claims.Location)
	assert.Equal(t, enums.LocationMill, *claims.Location)
}

func TestAuthRefreshInvalidToken(t *testing.T) {
	manager := &stubSessionTokenManager{rotateErr: session.ErrInvalidRefreshToken}
	handler := AuthRefresh(manager, testJWTConfig, nil)

	token, _ := mintTestToken(t, time.Now(), enums.RoleOwner, nil)
	req := httptest.NewRequest(http.MethodPost, "/refresh", strings.NewReader(`{"refresh_token":"old-refresh"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRefreshMissingBearer(t *testing.T) {
	manager := &stubSessionTokenManager{}
	req := httptest.NewRequest(http.MethodPost, "/refresh", strings.NewReader(`{"refresh_token":"old-refresh"}`))
	rec := httptest.NewRecorder()
	AuthRefresh(manager, testJWTConfig, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, manager.lastRotateOld)
}
