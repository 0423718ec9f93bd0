package identity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/physiotrack/physio-sync/internal/cache"
)

func newTestProvider(t *testing.T) *LocalProvider {
	t.Helper()
	sessions := cache.NewMemoryCache()
	t.Cleanup(func() { sessions.Close() })
	return NewLocalProvider(NewMemoryAccountStore(), sessions, "test-signing-key", time.Hour, 15*time.Minute)
}

func TestCreateUserAndSignIn(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t)

	session, err := p.CreateUser(ctx, "ana@example.com", "Passw0rd!")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.NotEmpty(t, session.Identity.UID)
	assert.Equal(t, "ana@example.com", session.Identity.Email)

	again, err := p.SignIn(ctx, "ana@example.com", "Passw0rd!")
	require.NoError(t, err)
	assert.Equal(t, session.Identity.UID, again.Identity.UID)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t)

	_, err := p.CreateUser(ctx, "ana@example.com", "Passw0rd!")
	require.NoError(t, err)

	_, err = p.CreateUser(ctx, "ana@example.com", "Other1Pass!")
	assert.Equal(t, CodeEmailAlreadyInUse, CodeOf(err))
}

func TestCreateUserRejectsMalformedEmail(t *testing.T) {
	_, err := newTestProvider(t).CreateUser(context.Background(), "not-an-email", "Passw0rd!")
	assert.Equal(t, CodeInvalidEmail, CodeOf(err))
}

func TestSignInFailures(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t)
	_, err := p.CreateUser(ctx, "ana@example.com", "Passw0rd!")
	require.NoError(t, err)

	// Wrong password on a known account.
	_, err = p.SignIn(ctx, "ana@example.com", "wrong")
	assert.Equal(t, CodeWrongPassword, CodeOf(err))

	// Unknown email does not disclose account existence.
	_, err = p.SignIn(ctx, "nobody@example.com", "Passw0rd!")
	assert.Equal(t, CodeWrongCredential, CodeOf(err))
}

func TestVerifyAndSignOut(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t)

	session, err := p.CreateUser(ctx, "ana@example.com", "Passw0rd!")
	require.NoError(t, err)

	id, err := p.Verify(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.Identity, id)

	require.NoError(t, p.SignOut(ctx, session.Token))

	// A signed-out token no longer verifies even though it has not expired.
	_, err = p.Verify(ctx, session.Token)
	assert.Equal(t, CodeNoCurrentUser, CodeOf(err))
}

func TestVerifyRejectsGarbageToken(t *testing.T) {
	_, err := newTestProvider(t).Verify(context.Background(), "not-a-jwt")
	assert.Equal(t, CodeNoCurrentUser, CodeOf(err))
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t)

	session, err := p.CreateUser(ctx, "ana@example.com", "Passw0rd!")
	require.NoError(t, err)

	sessions := cache.NewMemoryCache()
	t.Cleanup(func() { sessions.Close() })
	foreign := NewLocalProvider(NewMemoryAccountStore(), sessions, "another-key", time.Hour, time.Minute)

	_, err = foreign.Verify(ctx, session.Token)
	assert.Equal(t, CodeNoCurrentUser, CodeOf(err))
}

func TestDeleteUserRevokesSessions(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t)

	s1, err := p.CreateUser(ctx, "ana@example.com", "Passw0rd!")
	require.NoError(t, err)
	s2, err := p.SignIn(ctx, "ana@example.com", "Passw0rd!")
	require.NoError(t, err)

	require.NoError(t, p.DeleteUser(ctx, s1.Identity.UID))

	_, err = p.Verify(ctx, s1.Token)
	assert.Equal(t, CodeNoCurrentUser, CodeOf(err))
	_, err = p.Verify(ctx, s2.Token)
	assert.Equal(t, CodeNoCurrentUser, CodeOf(err))

	_, err = p.SignIn(ctx, "ana@example.com", "Passw0rd!")
	assert.Equal(t, CodeWrongCredential, CodeOf(err))
}

func TestSignInFederatedCreatesLinksAndReuses(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t)
	fid := FederatedIdentity{ProviderID: ProviderGoogle, Subject: "goog-123", Email: "ana@example.com"}

	session, isNew, err := p.SignInFederated(ctx, fid)
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.Equal(t, "ana@example.com", session.Identity.Email)

	again, isNew, err := p.SignInFederated(ctx, fid)
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, session.Identity.UID, again.Identity.UID)
}

func TestSignInFederatedLinksExistingEmailAccount(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t)

	created, err := p.CreateUser(ctx, "ana@example.com", "Passw0rd!")
	require.NoError(t, err)

	session, isNew, err := p.SignInFederated(ctx, FederatedIdentity{
		ProviderID: ProviderGoogle, Subject: "goog-123", Email: "ana@example.com",
	})
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, created.Identity.UID, session.Identity.UID)

	kinds, err := p.Providers(ctx, created.Identity.UID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"password", "google.com"}, kinds)
}

func TestSignInFederatedRejectsUnknownProvider(t *testing.T) {
	_, _, err := newTestProvider(t).SignInFederated(context.Background(), FederatedIdentity{
		ProviderID: "apple.com", Subject: "x", Email: "a@b.co",
	})
	assert.Equal(t, CodeUnknownProvider, CodeOf(err))
}

func TestFederatedOnlyAccountHasNoPasswordCredential(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t)

	_, _, err := p.SignInFederated(ctx, FederatedIdentity{
		ProviderID: ProviderGoogle, Subject: "goog-9", Email: "ana@example.com",
	})
	require.NoError(t, err)

	_, err = p.SignIn(ctx, "ana@example.com", "anything")
	assert.Equal(t, CodeWrongCredential, CodeOf(err))
}

func TestSendPasswordReset(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t)

	err := p.SendPasswordReset(ctx, "nobody@example.com")
	assert.Equal(t, CodeUserNotFound, CodeOf(err))

	_, err = p.CreateUser(ctx, "ana@example.com", "Passw0rd!")
	require.NoError(t, err)
	assert.NoError(t, p.SendPasswordReset(ctx, "ana@example.com"))
}

func TestUpdatePassword(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t)

	session, err := p.CreateUser(ctx, "ana@example.com", "Passw0rd!")
	require.NoError(t, err)

	require.NoError(t, p.UpdatePassword(ctx, session.Identity.UID, "NewPassw0rd!"))

	_, err = p.SignIn(ctx, "ana@example.com", "Passw0rd!")
	assert.Equal(t, CodeWrongPassword, CodeOf(err))
	_, err = p.SignIn(ctx, "ana@example.com", "NewPassw0rd!")
	assert.NoError(t, err)
}

func TestUpdateEmail(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t)

	session, err := p.CreateUser(ctx, "ana@example.com", "Passw0rd!")
	require.NoError(t, err)
	_, err = p.CreateUser(ctx, "taken@example.com", "Passw0rd!")
	require.NoError(t, err)

	err = p.UpdateEmail(ctx, session.Identity.UID, "taken@example.com")
	assert.Equal(t, CodeEmailAlreadyInUse, CodeOf(err))

	err = p.UpdateEmail(ctx, session.Identity.UID, "bad-email")
	assert.Equal(t, CodeInvalidEmail, CodeOf(err))

	require.NoError(t, p.UpdateEmail(ctx, session.Identity.UID, "new@example.com"))
	_, err = p.SignIn(ctx, "new@example.com", "Passw0rd!")
	assert.NoError(t, err)
}

func TestReauthenticate(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t)

	session, err := p.CreateUser(ctx, "ana@example.com", "Passw0rd!")
	require.NoError(t, err)

	fresh, err := p.Reauthenticate(ctx, session.Token, "Passw0rd!")
	require.NoError(t, err)
	assert.Equal(t, session.Identity.UID, fresh.Identity.UID)
	assert.NotEqual(t, session.Token, fresh.Token)

	// The original session stays valid alongside the fresh one.
	_, err = p.Verify(ctx, session.Token)
	assert.NoError(t, err)

	_, err = p.Reauthenticate(ctx, session.Token, "wrong")
	assert.Equal(t, CodeWrongPassword, CodeOf(err))
}

func TestProvidersUnknownAccount(t *testing.T) {
	_, err := newTestProvider(t).Providers(context.Background(), "no-such-uid")
	assert.Equal(t, CodeBadServerResponse, CodeOf(err))
}
