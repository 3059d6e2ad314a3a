package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathieu/jobcoach/internal/types"
)

func newTestAuthHandler() *AuthHandler {
	svc, _ := newTestUserService()
	return NewAuthHandler(svc, newTestJWTService())
}

func TestAuthHandler_RegisterThenLogin(t *testing.T) {
	h := newTestAuthHandler()

	body := `{"email":"marie@exemple.be","password":"motdepasse","prenom":"Marie","nom":"Dupont"}`
	rec := httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code)
	var created types.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.Token)
	assert.Equal(t, "marie@exemple.be", created.User.Email)

	rec = httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"marie@exemple.be","password":"motdepasse"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	var logged types.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &logged))
	assert.Equal(t, created.User.ID, logged.User.ID)
	assert.NotEmpty(t, logged.Token)
}

func TestAuthHandler_RegisterValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed body", `{`},
		{"missing email", `{"password":"motdepasse","prenom":"Marie","nom":"Dupont"}`},
		{"bad email", `{"email":"nope","password":"motdepasse","prenom":"Marie","nom":"Dupont"}`},
		{"short password", `{"email":"a@b.com","password":"court","prenom":"Marie","nom":"Dupont"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestAuthHandler()
			rec := httptest.NewRecorder()
			h.Register(rec, httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(tt.body)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestAuthHandler_LoginBadCredentials(t *testing.T) {
	h := newTestAuthHandler()

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"inconnue@exemple.be","password":"motdepasse"}`)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_RegisterDuplicate(t *testing.T) {
	h := newTestAuthHandler()
	body := `{"email":"marie@exemple.be","password":"motdepasse","prenom":"Marie","nom":"Dupont"}`

	rec := httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body)))
	assert.Equal(t, http.StatusConflict, rec.Code)
}
