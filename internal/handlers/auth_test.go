package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/physiotrack/physio-sync/internal/cache"
	"github.com/physiotrack/physio-sync/internal/docstore"
	"github.com/physiotrack/physio-sync/internal/identity"
	"github.com/physiotrack/physio-sync/internal/repository"
	"github.com/physiotrack/physio-sync/internal/services"
)

func newAuthHandlerFixture(t *testing.T) *AuthHandler {
	t.Helper()
	sessions := cache.NewMemoryCache()
	t.Cleanup(func() { sessions.Close() })

	provider := identity.NewLocalProvider(
		identity.NewMemoryAccountStore(), sessions, "test-key", time.Hour, time.Minute)
	profiles := repository.NewProfileRepository(docstore.NewMemoryStore())
	return NewAuthHandler(services.NewAuthService(provider, nil, profiles))
}

func postJSON(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

type fieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

func TestSignUpValidationGate(t *testing.T) {
	h := newAuthHandlerFixture(t)

	tests := []struct {
		name    string
		body    string
		field   string
		message string
	}{
		{
			"empty credentials",
			`{"email":"","password":""}`,
			"general",
			"Email and Password fields cannot be empty.",
		},
		{
			"malformed email",
			`{"email":"bad-email","password":"Passw0rd!","password_confirmation":"Passw0rd!"}`,
			"email",
			"Please enter a valid email address.",
		},
		{
			"short password",
			`{"email":"ana@example.com","password":"Aa1@","password_confirmation":"Aa1@"}`,
			"password",
			"Password should be at least 8 characters long.",
		},
		{
			"mismatched confirmation",
			`{"email":"ana@example.com","password":"Passw0rd!","password_confirmation":"Passw0rd?"}`,
			"password_confirmation",
			"Passwords do not match.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(h.SignUp, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var fe fieldError
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&fe))
			assert.Equal(t, tt.field, fe.Field)
			assert.Equal(t, tt.message, fe.Error)
		})
	}
}

func TestSignUpSuccess(t *testing.T) {
	h := newAuthHandlerFixture(t)

	rec := postJSON(h.SignUp, `{
		"email":"ana@example.com",
		"password":"Passw0rd!",
		"password_confirmation":"Passw0rd!",
		"name":"Ana",
		"surname":"Silva"
	}`)

	require.Equal(t, http.StatusCreated, rec.Code)

	var session identity.Session
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&session))
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "ana@example.com", session.Identity.Email)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	h := newAuthHandlerFixture(t)
	body := `{"email":"ana@example.com","password":"Passw0rd!","password_confirmation":"Passw0rd!","name":"Ana","surname":"Silva"}`

	rec := postJSON(h.SignUp, body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(h.SignUp, body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSignInWrongPassword(t *testing.T) {
	h := newAuthHandlerFixture(t)

	rec := postJSON(h.SignUp, `{"email":"ana@example.com","password":"Passw0rd!","password_confirmation":"Passw0rd!","name":"Ana","surname":"Silva"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(h.SignIn, `{"email":"ana@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "wrong_password", resp.Code)
	assert.Equal(t, "Incorrect password. Please try again.", resp.Error)
}

func TestSignInUnknownEmail(t *testing.T) {
	h := newAuthHandlerFixture(t)

	rec := postJSON(h.SignIn, `{"email":"nobody@example.com","password":"Passw0rd!"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "wrong_credential", resp.Code)
}

func TestResetPasswordEmptyEmailAccepted(t *testing.T) {
	h := newAuthHandlerFixture(t)

	rec := postJSON(h.ResetPassword, `{"email":""}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)
}
