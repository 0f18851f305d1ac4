package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coachtrack/internal/apperr"
	"coachtrack/internal/events"
)

// fakeStore is a map-backed Store so refresh rotation can be exercised
// across calls.
type fakeStore struct {
	users  map[string]*User
	tokens map[string]*RefreshToken
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:  make(map[string]*User),
		tokens: make(map[string]*RefreshToken),
	}
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetUserByID(_ context.Context, id string) (*User, error) {
	return f.users[id], nil
}

func (f *fakeStore) SaveRefreshToken(_ context.Context, userID, token string, expiresAt time.Time) error {
	f.tokens[token] = &RefreshToken{Token: token, UserID: userID, ExpiresAt: expiresAt}
	return nil
}

func (f *fakeStore) GetRefreshToken(_ context.Context, token string) (*RefreshToken, error) {
	return f.tokens[token], nil
}

func (f *fakeStore) RevokeRefreshToken(_ context.Context, token string) error {
	if row, ok := f.tokens[token]; ok {
		row.Revoked = true
	}
	return nil
}

func newTestManager(t *testing.T) (*Manager, *fakeStore, *events.InMemory) {
	t.Helper()
	store := newFakeStore()
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	store.users["u1"] = &User{ID: "u1", Email: "staff@example.com", PasswordHash: hash}

	broadcaster := events.NewInMemory(8)
	mgr := NewManager(store, broadcaster, "coachtrack", "secret", 15*time.Minute, 24*time.Hour, 30*24*time.Hour)
	return mgr, store, broadcaster
}

func TestSignInOK(t *testing.T) {
	mgr, _, broadcaster := newTestManager(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := broadcaster.Subscribe(ctx)
	require.NoError(t, err)

	session, err := mgr.SignIn(ctx, "staff@example.com", "correct horse", false)
	require.NoError(t, err)
	assert.Equal(t, "u1", session.UserID)
	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)

	select {
	case evt := <-ch:
		assert.Equal(t, events.TypeSignedIn, evt.Type)
		assert.Equal(t, "staff@example.com", evt.Email)
	case <-time.After(time.Second):
		t.Fatal("no session event broadcast")
	}
}

func TestSignInWrongPassword(t *testing.T) {
	mgr, _, _ := newTestManager(t)

	_, err := mgr.SignIn(context.Background(), "staff@example.com", "wrong", false)
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
}

func TestSignInUnknownUser(t *testing.T) {
	mgr, _, _ := newTestManager(t)

	_, err := mgr.SignIn(context.Background(), "nobody@example.com", "whatever", false)
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
}

func TestSignOutRevokesRefreshToken(t *testing.T) {
	mgr, store, _ := newTestManager(t)
	ctx := context.Background()

	session, err := mgr.SignIn(ctx, "staff@example.com", "correct horse", false)
	require.NoError(t, err)

	require.NoError(t, mgr.SignOut(ctx, session.RefreshToken))
	assert.True(t, store.tokens[session.RefreshToken].Revoked)

	_, err = mgr.Refresh(ctx, session.RefreshToken)
	assert.ErrorIs(t, err, apperr.ErrSessionExpired)
}

func TestRefreshRotates(t *testing.T) {
	mgr, store, _ := newTestManager(t)
	ctx := context.Background()

	session, err := mgr.SignIn(ctx, "staff@example.com", "correct horse", false)
	require.NoError(t, err)

	renewed, err := mgr.Refresh(ctx, session.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, session.RefreshToken, renewed.RefreshToken)
	assert.True(t, store.tokens[session.RefreshToken].Revoked, "old token is revoked on rotation")

	// old token cannot be replayed
	_, err = mgr.Refresh(ctx, session.RefreshToken)
	assert.ErrorIs(t, err, apperr.ErrSessionExpired)
}

func TestRefreshUnknownToken(t *testing.T) {
	mgr, _, _ := newTestManager(t)

	_, err := mgr.Refresh(context.Background(), "never-issued")
	assert.ErrorIs(t, err, apperr.ErrSessionExpired)
}

func TestRememberExtendsRefreshExpiry(t *testing.T) {
	mgr, store, _ := newTestManager(t)
	ctx := context.Background()

	short, err := mgr.SignIn(ctx, "staff@example.com", "correct horse", false)
	require.NoError(t, err)
	long, err := mgr.SignIn(ctx, "staff@example.com", "correct horse", true)
	require.NoError(t, err)

	assert.True(t, store.tokens[long.RefreshToken].ExpiresAt.After(
		store.tokens[short.RefreshToken].ExpiresAt.Add(24*time.Hour)))
}

func TestCurrent(t *testing.T) {
	mgr, _, _ := newTestManager(t)

	session, err := mgr.SignIn(context.Background(), "staff@example.com", "correct horse", false)
	require.NoError(t, err)

	claims, err := mgr.Current(session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)

	_, err = mgr.Current("garbage")
	assert.Error(t, err)
}
