package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/stockline-backend/internal/users"
	pkgAuth "github.com/angelmondragon/stockline-backend/pkg/auth"
	"github.com/angelmondragon/stockline-backend/pkg/enums"
)

type stubUsersService struct {
	users.Service

	registered *users.RegisterRequest
	deletedID  uuid.UUID
	password   string
	err        error
}

func (s *stubUsersService) Me(ctx context.Context, req pkgAuth.Requester) (*users.UserDTO, error) {
	return &users.UserDTO{ID: req.UserID, Role: req.Role}, s.err
}

func (s *stubUsersService) Register(ctx context.Context, input users.RegisterRequest, req pkgAuth.Requester) (*users.UserDTO, error) {
	s.registered = &input
	return &users.UserDTO{ID: uuid.New(), Name: input.Name, Role: enums.Role(input.Role)}, s.err
}

func (s *stubUsersService) Delete(ctx context.Context, id uuid.UUID, password string, req pkgAuth.Requester) error {
	s.deletedID = id
	s.password = password
	return s.err
}

func (s *stubUsersService) DeliveryPersons(ctx context.Context) ([]users.DeliveryPersonDTO, error) {
	return []users.DeliveryPersonDTO{{ID: uuid.New(), Name: "Ravi"}}, s.err
}

func TestAuthMe(t *testing.T) {
	owner := ownerRequester()
	rec := httptest.NewRecorder()
	AuthMe(&stubUsersService{}, testLogger()).ServeHTTP(rec, newRequest(http.MethodGet, "/me", "", &owner, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body users.UserDTO
	decodeData(t, rec, &body)
	assert.Equal(t, owner.UserID, body.ID)

	rec = httptest.NewRecorder()
	AuthMe(&stubUsersService{}, testLogger()).ServeHTTP(rec, newRequest(http.MethodGet, "/me", "", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRegister(t *testing.T) {
	owner := ownerRequester()
	svc := &stubUsersService{}
	body := `{"name":"Meera","email":"meera@example.com","phoneNumber":"9800000000","password":"longpassword","role":"delivery_person"}`
	rec := httptest.NewRecorder()
	AuthRegister(svc, testLogger()).ServeHTTP(rec, newRequest(http.MethodPost, "/register", body, &owner, nil))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.NotNil(t, svc.registered)
	assert.Equal(t, "meera@example.com", svc.registered.Email)

	rec = httptest.NewRecorder()
	AuthRegister(svc, testLogger()).ServeHTTP(rec, newRequest(http.MethodPost, "/register", `{"name":"x","email":"not-an-email"}`, &owner, nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthDeleteUser(t *testing.T) {
	owner := ownerRequester()
	svc := &stubUsersService{}
	target := uuid.New()
	rec := httptest.NewRecorder()
	AuthDeleteUser(svc, testLogger()).ServeHTTP(rec, newRequest(http.MethodDelete, "/", `{"password":"secret"}`, &owner, map[string]string{"userId": target.String()}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, target, svc.deletedID)
	assert.Equal(t, "secret", svc.password)

	rec = httptest.NewRecorder()
	AuthDeleteUser(svc, testLogger()).ServeHTTP(rec, newRequest(http.MethodDelete, "/", `{}`, &owner, map[string]string{"userId": uuid.NewString()}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeliveryPersons(t *testing.T) {
	loc := enums.LocationGodown
	employee := pkgAuth.Requester{UserID: uuid.New(), Role: enums.RoleEmployee, Location: &loc}
	rec := httptest.NewRecorder()
	DeliveryPersons(&stubUsersService{}, testLogger()).ServeHTTP(rec, newRequest(http.MethodGet, "/", "", &employee, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body []users.DeliveryPersonDTO
	decodeData(t, rec, &body)
	require.Len(t, body, 1)
	assert.Equal(t, "Ravi", body[0].Name)
}
