package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/stockline-backend/api/middleware"
	"github.com/angelmondragon/stockline-backend/internal/auth"
	"github.com/angelmondragon/stockline-backend/internal/users"
	"github.com/angelmondragon/stockline-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/stockline-backend/pkg/errors"
)

type stubAuthService struct {
	resp *auth.LoginResponse
	err  error
	seen auth.LoginRequest
}

func (s *stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	s.seen = req
	return s.resp, s.err
}

func TestAuthLoginSuccess(t *testing.T) {
	svc := &stubAuthService{resp: &auth.LoginResponse{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
		User:         &users.UserDTO{ID: uuid.New(), Name: "Asha", Role: enums.RoleOwner},
	}}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"username":"asha@example.com","password":"pw"}`))
	rec := httptest.NewRecorder()
	AuthLogin(svc, testLogger()).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "access-token", rec.Header().Get(middleware.TokenHeader))
	assert.Equal(t, "asha@example.com", svc.seen.Username)

	var body auth.LoginResponse
	decodeData(t, rec, &body)
	assert.Equal(t, "refresh-token", body.RefreshToken)
	assert.Equal(t, "Asha", body.User.Name)
}

func TestAuthLoginRejects(t *testing.T) {
	svc := &stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}

	rec := httptest.NewRecorder()
	AuthLogin(svc, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"x"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	AuthLogin(svc, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"x","password":"y"}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Header().Get(middleware.TokenHeader))
}
