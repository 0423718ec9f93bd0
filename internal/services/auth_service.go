package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/physiotrack/physio-sync/internal/identity"
	"github.com/physiotrack/physio-sync/internal/models"
	"github.com/physiotrack/physio-sync/internal/repository"
)

// GoogleVerifier validates a Google sign-in token pair
type GoogleVerifier interface {
	Verify(ctx context.Context, idToken, accessToken string) (identity.GoogleClaims, error)
}

// AuthService is the identity gateway: it drives the identity provider and
// keeps the app-level profile document in step with it.
type AuthService struct {
	provider identity.Provider
	google   GoogleVerifier
	profiles *repository.ProfileRepository
}

// NewAuthService creates the identity gateway
func NewAuthService(provider identity.Provider, google GoogleVerifier, profiles *repository.ProfileRepository) *AuthService {
	return &AuthService{provider: provider, google: google, profiles: profiles}
}

// SignUp registers a new account and creates the matching profile document
func (s *AuthService) SignUp(ctx context.Context, email, password, name, surname string) (identity.Session, error) {
	session, err := s.provider.CreateUser(ctx, email, password)
	if err != nil {
		return identity.Session{}, err
	}

	profile := models.NewUserProfile(session.Identity, name, surname)
	if err := s.profiles.Create(ctx, profile); err != nil {
		return identity.Session{}, fmt.Errorf("account created but profile write failed: %w", err)
	}

	return session, nil
}

// SignIn authenticates an email+password credential
func (s *AuthService) SignIn(ctx context.Context, email, password string) (identity.Session, error) {
	return s.provider.SignIn(ctx, email, password)
}

// SignInGoogle exchanges a Google token pair for a session. First-time
// sign-ins need the verified token to carry a name and surname so the
// profile document can be created.
func (s *AuthService) SignInGoogle(ctx context.Context, idToken, accessToken string) (identity.Session, error) {
	claims, err := s.google.Verify(ctx, idToken, accessToken)
	if err != nil {
		return identity.Session{}, err
	}

	session, isNew, err := s.provider.SignInFederated(ctx, identity.FederatedIdentity{
		ProviderID: identity.ProviderGoogle,
		Subject:    claims.Subject,
		Email:      claims.Email,
	})
	if err != nil {
		return identity.Session{}, err
	}

	if isNew {
		if claims.GivenName == "" {
			return identity.Session{}, identity.NewError(identity.CodeMissingName)
		}
		if claims.FamilyName == "" {
			return identity.Session{}, identity.NewError(identity.CodeMissingSurname)
		}
		profile := models.NewUserProfile(session.Identity, claims.GivenName, claims.FamilyName)
		if err := s.profiles.Create(ctx, profile); err != nil {
			return identity.Session{}, fmt.Errorf("account created but profile write failed: %w", err)
		}
	}

	return session, nil
}

// Verify resolves a session token to its identity
func (s *AuthService) Verify(ctx context.Context, token string) (models.Identity, error) {
	return s.provider.Verify(ctx, token)
}

// SignOut revokes the session behind the token
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	return s.provider.SignOut(ctx, token)
}

// DeleteAccount removes the profile document and then the identity. The
// two deletes are sequential, not transactional: if the identity delete
// fails the account remains signed in with no profile document, and every
// later profile read will miss until the account is repaired by hand.
func (s *AuthService) DeleteAccount(ctx context.Context, id models.Identity) error {
	if err := s.profiles.Delete(ctx, id.UID); err != nil {
		return err
	}

	if err := s.provider.DeleteUser(ctx, id.UID); err != nil {
		log.Error().Err(err).Str("uid", id.UID).
			Msg("Identity delete failed after profile delete; account is live with no profile")
		return fmt.Errorf("profile deleted but identity delete failed: %w", err)
	}
	return nil
}

// ResetPassword triggers a password reset. An empty email is a local no-op:
// the backend is not contacted.
func (s *AuthService) ResetPassword(ctx context.Context, email string) error {
	if email == "" {
		log.Warn().Msg("Password reset requested with empty email; skipping")
		return nil
	}
	return s.provider.SendPasswordReset(ctx, email)
}

// UpdatePassword replaces the current account's password
func (s *AuthService) UpdatePassword(ctx context.Context, id models.Identity, newPassword string) error {
	return s.provider.UpdatePassword(ctx, id.UID, newPassword)
}

// UpdateEmail replaces the account email and patches the profile document
func (s *AuthService) UpdateEmail(ctx context.Context, id models.Identity, newEmail string) error {
	if err := s.provider.UpdateEmail(ctx, id.UID, newEmail); err != nil {
		return err
	}
	if err := s.profiles.UpdateEmail(ctx, id.UID, newEmail); err != nil {
		return fmt.Errorf("identity email updated but profile write failed: %w", err)
	}
	return nil
}

// Reauthenticate re-proves the password and returns a refreshed session
func (s *AuthService) Reauthenticate(ctx context.Context, token, password string) (identity.Session, error) {
	return s.provider.Reauthenticate(ctx, token, password)
}

// Providers enumerates the account's authentication providers, mapped onto
// the recognized kinds. A provider id outside the known set is an error,
// as is missing provider data.
func (s *AuthService) Providers(ctx context.Context, id models.Identity) ([]identity.ProviderKind, error) {
	ids, err := s.provider.Providers(ctx, id.UID)
	if err != nil {
		return nil, err
	}

	kinds := make([]identity.ProviderKind, 0, len(ids))
	for _, pid := range ids {
		kind, ok := identity.KindFromID(pid)
		if !ok {
			return nil, identity.UnknownProviderError(pid)
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

// Profile fetches the app-level profile for an identity
func (s *AuthService) Profile(ctx context.Context, id models.Identity) (*models.UserProfile, error) {
	return s.profiles.Get(ctx, id.UID)
}
