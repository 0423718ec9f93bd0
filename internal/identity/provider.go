// Package identity is the boundary to the identity backend: account
// creation, credential sign-in, sessions, and provider enumeration. The
// rest of the system consumes it only through the Provider interface.
package identity

import (
	"context"
	"time"

	"github.com/physiotrack/physio-sync/internal/models"
)

// ProviderKind is a recognized authentication provider
type ProviderKind string

const (
	ProviderEmail  ProviderKind = "password"
	ProviderGoogle ProviderKind = "google.com"
)

// KindFromID maps a backend provider id onto the recognized set
func KindFromID(id string) (ProviderKind, bool) {
	switch ProviderKind(id) {
	case ProviderEmail, ProviderGoogle:
		return ProviderKind(id), true
	default:
		return "", false
	}
}

// Session is an authenticated session: the bearer token plus the identity
// it proves.
type Session struct {
	Token     string          `json:"token"`
	Identity  models.Identity `json:"identity"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// FederatedIdentity is a third-party identity already verified against its
// issuer (see GoogleVerifier).
type FederatedIdentity struct {
	ProviderID ProviderKind
	Subject    string
	Email      string
}

// Provider is the identity backend capability
type Provider interface {
	// CreateUser registers an email+password account and signs it in.
	CreateUser(ctx context.Context, email, password string) (Session, error)

	// SignIn authenticates an email+password credential.
	SignIn(ctx context.Context, email, password string) (Session, error)

	// SignInFederated signs in (creating or linking an account as needed)
	// with a verified third-party identity. The second result reports
	// whether the account was created by this call.
	SignInFederated(ctx context.Context, fid FederatedIdentity) (Session, bool, error)

	// Verify resolves a session token to its identity; fails with
	// CodeNoCurrentUser for missing, expired, or revoked tokens.
	Verify(ctx context.Context, token string) (models.Identity, error)

	// SignOut revokes the session behind the token.
	SignOut(ctx context.Context, token string) error

	// DeleteUser removes the account and revokes all its sessions.
	DeleteUser(ctx context.Context, uid string) error

	// SendPasswordReset issues a reset token for the account.
	SendPasswordReset(ctx context.Context, email string) error

	// UpdatePassword replaces the account password.
	UpdatePassword(ctx context.Context, uid, newPassword string) error

	// UpdateEmail replaces the account email.
	UpdateEmail(ctx context.Context, uid, newEmail string) error

	// Reauthenticate re-proves the password behind an active session and
	// returns a refreshed session for the same identity.
	Reauthenticate(ctx context.Context, token, password string) (Session, error)

	// Providers lists the raw provider ids attached to the account.
	Providers(ctx context.Context, uid string) ([]string, error)
}
