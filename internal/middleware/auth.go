package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/physiotrack/physio-sync/internal/models"
)

type contextKey string

const (
	identityKey contextKey = "identity"
	tokenKey    contextKey = "session_token"
)

// TokenVerifier resolves a bearer token to an identity
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (models.Identity, error)
}

// Authenticate extracts and verifies the bearer session token, placing the
// identity and the raw token on the request context.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			token := strings.TrimPrefix(authHeader, "Bearer ")
			if token == "" || token == authHeader {
				http.Error(w, "Authorization bearer token is required", http.StatusUnauthorized)
				return
			}

			id, err := verifier.Verify(r.Context(), token)
			if err != nil {
				log.Warn().Err(err).Str("path", r.URL.Path).Msg("Session verification failed")
				http.Error(w, "There is no currently signed-in user.", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, id)
			ctx = context.WithValue(ctx, tokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentity extracts the authenticated identity from context
func GetIdentity(ctx context.Context) (models.Identity, bool) {
	id, ok := ctx.Value(identityKey).(models.Identity)
	return id, ok
}

// GetToken extracts the raw session token from context
func GetToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey).(string)
	return token, ok
}
