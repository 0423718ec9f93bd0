package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/physiotrack/physio-sync/internal/cache"
	"github.com/physiotrack/physio-sync/internal/models"
)

// LocalProvider implements Provider with bcrypt-hashed accounts and
// HS256 session tokens. Sessions are recorded in the cache so that sign-out
// and account deletion revoke tokens before they expire.
type LocalProvider struct {
	accounts   AccountStore
	sessions   cache.Cache
	signingKey []byte
	sessionTTL time.Duration
	resetTTL   time.Duration
}

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// NewLocalProvider builds the provider
func NewLocalProvider(accounts AccountStore, sessions cache.Cache, signingKey string, sessionTTL, resetTTL time.Duration) *LocalProvider {
	return &LocalProvider{
		accounts:   accounts,
		sessions:   sessions,
		signingKey: []byte(signingKey),
		sessionTTL: sessionTTL,
		resetTTL:   resetTTL,
	}
}

// CreateUser registers an email+password account and signs it in
func (p *LocalProvider) CreateUser(ctx context.Context, email, password string) (Session, error) {
	email = strings.TrimSpace(email)
	if !strings.Contains(email, "@") {
		return Session{}, NewError(CodeInvalidEmail)
	}

	if _, err := p.accounts.GetByEmail(ctx, email); err == nil {
		return Session{}, NewError(CodeEmailAlreadyInUse)
	} else if !errors.Is(err, ErrAccountNotFound) {
		return Session{}, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Session{}, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &Account{
		UID:          uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		ProviderIDs:  string(ProviderEmail),
	}
	if err := p.accounts.Create(ctx, account); err != nil {
		return Session{}, fmt.Errorf("failed to create account: %w", err)
	}

	return p.issueSession(ctx, account)
}

// SignIn authenticates an email+password credential
func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (Session, error) {
	account, err := p.accounts.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			// Account existence is not disclosed to the caller.
			return Session{}, NewError(CodeWrongCredential)
		}
		return Session{}, fmt.Errorf("failed to look up account: %w", err)
	}

	if account.PasswordHash == "" {
		// Federated-only account; there is no password credential to match.
		return Session{}, NewError(CodeWrongCredential)
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return Session{}, NewError(CodeWrongPassword)
	}

	return p.issueSession(ctx, account)
}

// SignInFederated signs in with a verified third-party identity, creating
// or linking the account as needed
func (p *LocalProvider) SignInFederated(ctx context.Context, fid FederatedIdentity) (Session, bool, error) {
	if fid.ProviderID != ProviderGoogle {
		return Session{}, false, UnknownProviderError(string(fid.ProviderID))
	}

	account, err := p.accounts.GetByGoogleSubject(ctx, fid.Subject)
	if err == nil {
		session, err := p.issueSession(ctx, account)
		return session, false, err
	}
	if !errors.Is(err, ErrAccountNotFound) {
		return Session{}, false, fmt.Errorf("failed to look up federated account: %w", err)
	}

	// Link to an existing email account when one exists.
	account, err = p.accounts.GetByEmail(ctx, fid.Email)
	if err == nil {
		account.GoogleSubject = fid.Subject
		account.AddProvider(ProviderGoogle)
		if err := p.accounts.Update(ctx, account); err != nil {
			return Session{}, false, fmt.Errorf("failed to link account: %w", err)
		}
		session, err := p.issueSession(ctx, account)
		return session, false, err
	}
	if !errors.Is(err, ErrAccountNotFound) {
		return Session{}, false, fmt.Errorf("failed to look up account by email: %w", err)
	}

	account = &Account{
		UID:           uuid.NewString(),
		Email:         fid.Email,
		ProviderIDs:   string(ProviderGoogle),
		GoogleSubject: fid.Subject,
	}
	if err := p.accounts.Create(ctx, account); err != nil {
		return Session{}, false, fmt.Errorf("failed to create federated account: %w", err)
	}

	session, err := p.issueSession(ctx, account)
	return session, true, err
}

// Verify resolves a session token to its identity
func (p *LocalProvider) Verify(ctx context.Context, token string) (models.Identity, error) {
	claims, err := p.parseToken(token)
	if err != nil {
		return models.Identity{}, NewError(CodeNoCurrentUser)
	}

	ok, err := p.sessions.Exists(ctx, cache.SessionKey(claims.Subject, claims.ID))
	if err != nil {
		return models.Identity{}, fmt.Errorf("failed to check session: %w", err)
	}
	if !ok {
		return models.Identity{}, NewError(CodeNoCurrentUser)
	}

	return models.Identity{UID: claims.Subject, Email: claims.Email}, nil
}

// SignOut revokes the session behind the token
func (p *LocalProvider) SignOut(ctx context.Context, token string) error {
	claims, err := p.parseToken(token)
	if err != nil {
		return NewError(CodeNoCurrentUser)
	}
	if err := p.sessions.Delete(ctx, cache.SessionKey(claims.Subject, claims.ID)); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// DeleteUser removes the account and revokes all its sessions
func (p *LocalProvider) DeleteUser(ctx context.Context, uid string) error {
	if err := p.sessions.Clear(ctx, cache.SessionPattern(uid)); err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}
	if err := p.accounts.Delete(ctx, uid); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}

// SendPasswordReset issues a reset token for the account. There is no
// mailer in this deployment; the token is logged for the operator to relay.
func (p *LocalProvider) SendPasswordReset(ctx context.Context, email string) error {
	account, err := p.accounts.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return NewError(CodeUserNotFound)
		}
		return fmt.Errorf("failed to look up account: %w", err)
	}

	token := uuid.NewString()
	if err := p.sessions.Set(ctx, cache.ResetKey(token), []byte(account.UID), p.resetTTL); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	log.Info().Str("uid", account.UID).Str("reset_token", token).Msg("Password reset token issued")
	return nil
}

// UpdatePassword replaces the account password
func (p *LocalProvider) UpdatePassword(ctx context.Context, uid, newPassword string) error {
	account, err := p.accounts.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return NewError(CodeNoCurrentUser)
		}
		return fmt.Errorf("failed to look up account: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	account.PasswordHash = string(hash)
	account.AddProvider(ProviderEmail)

	if err := p.accounts.Update(ctx, account); err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	return nil
}

// UpdateEmail replaces the account email
func (p *LocalProvider) UpdateEmail(ctx context.Context, uid, newEmail string) error {
	newEmail = strings.TrimSpace(newEmail)
	if !strings.Contains(newEmail, "@") {
		return NewError(CodeInvalidEmail)
	}

	if existing, err := p.accounts.GetByEmail(ctx, newEmail); err == nil && existing.UID != uid {
		return NewError(CodeEmailAlreadyInUse)
	} else if err != nil && !errors.Is(err, ErrAccountNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}

	account, err := p.accounts.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return NewError(CodeNoCurrentUser)
		}
		return fmt.Errorf("failed to look up account: %w", err)
	}

	account.Email = newEmail
	if err := p.accounts.Update(ctx, account); err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	return nil
}

// Reauthenticate re-proves the password behind an active session and issues
// a fresh session for the same identity. The existing session stays valid.
func (p *LocalProvider) Reauthenticate(ctx context.Context, token, password string) (Session, error) {
	id, err := p.Verify(ctx, token)
	if err != nil {
		return Session{}, err
	}

	account, err := p.accounts.GetByUID(ctx, id.UID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return Session{}, NewError(CodeNoCurrentUser)
		}
		return Session{}, fmt.Errorf("failed to look up account: %w", err)
	}

	if account.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return Session{}, NewError(CodeWrongPassword)
	}

	return p.issueSession(ctx, account)
}

// Providers lists the raw provider ids attached to the account
func (p *LocalProvider) Providers(ctx context.Context, uid string) ([]string, error) {
	account, err := p.accounts.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, NewError(CodeBadServerResponse)
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	ids := account.Providers()
	if len(ids) == 0 {
		return nil, NewError(CodeBadServerResponse)
	}
	return ids, nil
}

func (p *LocalProvider) issueSession(ctx context.Context, account *Account) (Session, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(p.sessionTTL)
	claims := sessionClaims{
		Email: account.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.UID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.signingKey)
	if err != nil {
		return Session{}, fmt.Errorf("failed to sign session token: %w", err)
	}

	if err := p.sessions.Set(ctx, cache.SessionKey(account.UID, claims.ID), []byte("active"), p.sessionTTL); err != nil {
		return Session{}, fmt.Errorf("failed to record session: %w", err)
	}

	return Session{
		Token:     token,
		Identity:  models.Identity{UID: account.UID, Email: account.Email},
		ExpiresAt: expiresAt,
	}, nil
}

func (p *LocalProvider) parseToken(token string) (*sessionClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &sessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return p.signingKey, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("invalid session token")
	}
	return claims, nil
}
