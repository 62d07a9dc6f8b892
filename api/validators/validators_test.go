package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/stockline-backend/pkg/errors"
)

type sampleBody struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
}

func withParam(r *http.Request, key, value string) *http.Request {
	rc := chi.NewRouteContext()
	rc.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rc))
}

func TestDecodeJSONBody(t *testing.T) {
	var dest sampleBody
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Acme"}`))
	require.NoError(t, DecodeJSONBody(req, &dest))
	assert.Equal(t, "Acme", dest.Name)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"nope"}`))
	err := DecodeJSONBody(req, &dest)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	details := typed.Details().(map[string]string)
	assert.Equal(t, "is required", details["name"])
	assert.Equal(t, "must be a valid email", details["email"])

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x","extra":1}`))
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(DecodeJSONBody(req, &dest)))
}

func TestParseUUIDParam(t *testing.T) {
	id := uuid.New()
	req := withParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", id.String())
	got, err := ParseUUIDParam(req, "id", "order id")
	require.NoError(t, err)
	assert.Equal(t, id, got)

	req = withParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", "nope")
	_, err = ParseUUIDParam(req, "id", "order id")
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

func TestPathText(t *testing.T) {
	req := withParam(httptest.NewRequest(http.MethodGet, "/", nil), "partyName", "Acme%20Traders")
	got, err := PathText(req, "partyName", 200)
	require.NoError(t, err)
	assert.Equal(t, "Acme Traders", got)

	req = withParam(httptest.NewRequest(http.MethodGet, "/", nil), "partyName", "%20")
	_, err = PathText(req, "partyName", 200)
	assert.Error(t, err)
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=5", nil)
	v, err := ParseQueryInt(req, "limit", 25, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 5, v)

	req = httptest.NewRequest(http.MethodGet, "/?limit=500", nil)
	_, err = ParseQueryInt(req, "limit", 25, 1, 100)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "Acme Traders", SanitizeString("  Acme \t\n Traders  ", 0))
	assert.Equal(t, "Acme", SanitizeString("Acme Traders", 5))
	assert.Equal(t, "Acme T", SanitizeString("Acme Traders", 6))
	assert.Equal(t, "Sūrat", SanitizeString("Sūrat\x00", 10))
	assert.Equal(t, "", SanitizeString(" \t ", 10))
}

func TestQueryToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?cursor=abc123", nil)
	got, err := QueryToken(req, "cursor", 16)
	require.NoError(t, err)
	assert.Equal(t, "abc123", got)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	got, err = QueryToken(req, "cursor", 16)
	require.NoError(t, err)
	assert.Empty(t, got)

	req = httptest.NewRequest(http.MethodGet, "/?cursor="+strings.Repeat("a", 17), nil)
	_, err = QueryToken(req, "cursor", 16)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))

	req = httptest.NewRequest(http.MethodGet, "/?cursor=a%20b", nil)
	_, err = QueryToken(req, "cursor", 16)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

type accountBody struct {
	Role     string  `json:"role" validate:"required,role"`
	Location *string `json:"location" validate:"omitempty,location"`
}

func TestDecodeJSONBodyRejections(t *testing.T) {
	var dest sampleBody

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	err := DecodeJSONBody(req, &dest)
	require.Error(t, err)
	assert.Equal(t, "request body is required", pkgerrors.As(err).Message())

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a"}{"name":"b"}`))
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(DecodeJSONBody(req, &dest)))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"a","gstin":"x"}`))
	err = DecodeJSONBody(req, &dest)
	require.Error(t, err)
	assert.Equal(t, map[string]string{"gstin": "is not allowed"}, pkgerrors.As(err).Details())

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":12}`))
	err = DecodeJSONBody(req, &dest)
	require.Error(t, err)
	assert.Equal(t, map[string]string{"name": "has the wrong type"}, pkgerrors.As(err).Details())

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"`+strings.Repeat("a", maxBodyBytes)+`"}`))
	err = DecodeJSONBody(req, &dest)
	require.Error(t, err)
	assert.Equal(t, "request body too large", pkgerrors.As(err).Message())
}

func TestDecodeJSONBodyDomainTags(t *testing.T) {
	var dest accountBody
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"role":"employee","location":"Mill"}`))
	require.NoError(t, DecodeJSONBody(req, &dest))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"role":"manager","location":"Warehouse"}`))
	err := DecodeJSONBody(req, &dest)
	require.Error(t, err)
	details := pkgerrors.As(err).Details().(map[string]string)
	assert.Equal(t, "must be one of owner, employee, delivery_person", details["role"])
	assert.Equal(t, "must be one of Mill, Godown, Universal", details["location"])
}
