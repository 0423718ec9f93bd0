package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/physiotrack/physio-sync/internal/identity"
	"github.com/physiotrack/physio-sync/internal/middleware"
	"github.com/physiotrack/physio-sync/internal/services"
	"github.com/physiotrack/physio-sync/internal/validation"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type signUpRequest struct {
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
	Name                 string `json:"name"`
	Surname              string `json:"surname"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type googleSignInRequest struct {
	IDToken     string `json:"id_token"`
	AccessToken string `json:"access_token"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type passwordRequest struct {
	Password string `json:"password"`
}

type newCredentialRequest struct {
	NewCredential string `json:"new_credential"`
}

// SignUp registers a new user. Local validation gates the remote call:
// an invalid email, weak password, or mismatched confirmation is rejected
// here without touching the identity backend.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Password == "" {
		writeFieldError(w, "general", "Email and Password fields cannot be empty.")
		return
	}
	if res := validation.EmailValid(req.Email); !res.Valid {
		writeFieldError(w, "email", res.Message)
		return
	}
	if res := validation.PasswordSecure(req.Password); !res.Valid {
		writeFieldError(w, "password", res.Message)
		return
	}
	if res := validation.PasswordsMatch(req.Password, req.PasswordConfirmation); !res.Valid {
		writeFieldError(w, "password_confirmation", res.Message)
		return
	}

	session, err := h.authService.SignUp(r.Context(), req.Email, req.Password, req.Name, req.Surname)
	if err != nil {
		log.Error().Err(err).Msg("Sign-up failed")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

// SignIn authenticates an email+password credential
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	session, err := h.authService.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		log.Warn().Err(err).Msg("Sign-in failed")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// SignInGoogle exchanges a Google token pair for a session
func (h *AuthHandler) SignInGoogle(w http.ResponseWriter, r *http.Request) {
	var req googleSignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	session, err := h.authService.SignInGoogle(r.Context(), req.IDToken, req.AccessToken)
	if err != nil {
		log.Warn().Err(err).Msg("Google sign-in failed")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// ResetPassword triggers a password reset email. An empty email returns
// without contacting the backend.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.authService.ResetPassword(r.Context(), req.Email); err != nil {
		log.Warn().Err(err).Msg("Password reset failed")
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

// SignOut revokes the current session
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.GetToken(r.Context())
	if !ok {
		writeError(w, identity.NewError(identity.CodeNoCurrentUser))
		return
	}

	if err := h.authService.SignOut(r.Context(), token); err != nil {
		log.Error().Err(err).Msg("Sign-out failed")
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Profile returns the current user's profile document
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		writeError(w, identity.NewError(identity.CodeNoCurrentUser))
		return
	}

	profile, err := h.authService.Profile(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Str("uid", id.UID).Msg("Profile fetch failed")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// UpdatePassword replaces the current account's password after local
// strength validation
func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		writeError(w, identity.NewError(identity.CodeNoCurrentUser))
		return
	}

	var req newCredentialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.NewCredential == "" {
		writeFieldError(w, "new_credential", "Empty field found.")
		return
	}
	if res := validation.PasswordSecure(req.NewCredential); !res.Valid {
		writeFieldError(w, "new_credential", res.Message)
		return
	}

	if err := h.authService.UpdatePassword(r.Context(), id, req.NewCredential); err != nil {
		log.Error().Err(err).Str("uid", id.UID).Msg("Password update failed")
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateEmail replaces the current account's email and patches the profile
func (h *AuthHandler) UpdateEmail(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		writeError(w, identity.NewError(identity.CodeNoCurrentUser))
		return
	}

	var req newCredentialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.NewCredential == "" {
		writeFieldError(w, "new_credential", "Empty field found.")
		return
	}
	if res := validation.EmailValid(req.NewCredential); !res.Valid {
		writeFieldError(w, "new_credential", res.Message)
		return
	}

	if err := h.authService.UpdateEmail(r.Context(), id, req.NewCredential); err != nil {
		log.Error().Err(err).Str("uid", id.UID).Msg("Email update failed")
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Reauthenticate re-proves the password and returns a refreshed session
func (h *AuthHandler) Reauthenticate(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.GetToken(r.Context())
	if !ok {
		writeError(w, identity.NewError(identity.CodeNoCurrentUser))
		return
	}

	var req passwordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	session, err := h.authService.Reauthenticate(r.Context(), token, req.Password)
	if err != nil {
		log.Warn().Err(err).Msg("Reauthentication failed")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// Providers lists the authentication providers attached to the account
func (h *AuthHandler) Providers(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		writeError(w, identity.NewError(identity.CodeNoCurrentUser))
		return
	}

	kinds, err := h.authService.Providers(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Str("uid", id.UID).Msg("Provider enumeration failed")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Providers []identity.ProviderKind `json:"providers"`
	}{Providers: kinds})
}

// DeleteAccount deletes the profile document and then the identity
func (h *AuthHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.GetIdentity(r.Context())
	if !ok {
		writeError(w, identity.NewError(identity.CodeNoCurrentUser))
		return
	}

	if err := h.authService.DeleteAccount(r.Context(), id); err != nil {
		log.Error().Err(err).Str("uid", id.UID).Msg("Account deletion failed")
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
