package auth

import (
	"context"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"coachtrack/internal/apperr"
	"coachtrack/internal/events"
	"coachtrack/internal/metrics"
)

// Store is the persistence surface the manager needs.
type Store interface {
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
	SaveRefreshToken(ctx context.Context, userID, token string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, token string) (*RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, token string) error
}

// Manager owns process-wide session state: sign-in, sign-out, refresh, and
// the session-change event stream. Every state change is broadcast so other
// instances (and subscribers within this one) observe it independently of
// the call that caused it.
type Manager struct {
	store       Store
	broadcaster events.Broadcaster
	issuer      string
	signingKey  string
	accessTTL   time.Duration
	refreshTTL  time.Duration
	rememberTTL time.Duration
}

// NewManager creates a session manager.
func NewManager(store Store, broadcaster events.Broadcaster, issuer, signingKey string, accessTTL, refreshTTL, rememberTTL time.Duration) *Manager {
	return &Manager{
		store:       store,
		broadcaster: broadcaster,
		issuer:      issuer,
		signingKey:  signingKey,
		accessTTL:   accessTTL,
		refreshTTL:  refreshTTL,
		rememberTTL: rememberTTL,
	}
}

// SignIn checks credentials and issues a token pair. The remember flag
// selects the long-lived refresh TTL.
func (m *Manager) SignIn(ctx context.Context, email, password string, remember bool) (Session, error) {
	user, err := m.store.GetUserByEmail(ctx, email)
	if err != nil {
		return Session{}, err
	}
	if user == nil {
		metrics.SignInsTotal.WithLabelValues("rejected").Inc()
		return Session{}, apperr.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		metrics.SignInsTotal.WithLabelValues("rejected").Inc()
		return Session{}, apperr.ErrInvalidCredentials
	}

	refreshTTL := m.refreshTTL
	if remember {
		refreshTTL = m.rememberTTL
	}
	pair, err := Issue(user.ID, user.Email, m.issuer, m.signingKey, m.accessTTL, refreshTTL)
	if err != nil {
		return Session{}, err
	}
	if err := m.store.SaveRefreshToken(ctx, user.ID, pair.RefreshToken, pair.RefreshExp); err != nil {
		return Session{}, err
	}

	metrics.SignInsTotal.WithLabelValues("ok").Inc()
	m.publish(ctx, events.TypeSignedIn, user.ID, user.Email)

	return Session{
		UserID:       user.ID,
		Email:        user.Email,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.AccessExp,
	}, nil
}

// SignOut revokes the refresh token. Revoking an unknown token is not an
// error; sign-out is idempotent.
func (m *Manager) SignOut(ctx context.Context, refreshToken string) error {
	row, err := m.store.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		return err
	}
	if err := m.store.RevokeRefreshToken(ctx, refreshToken); err != nil {
		return err
	}
	if row != nil {
		user, err := m.store.GetUserByID(ctx, row.UserID)
		if err == nil && user != nil {
			m.publish(ctx, events.TypeSignedOut, user.ID, user.Email)
		}
	}
	return nil
}

// Refresh rotates a refresh token into a fresh pair. Unknown, revoked, or
// expired tokens all surface as an expired session.
func (m *Manager) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	row, err := m.store.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		return Session{}, err
	}
	if row == nil || row.Revoked || time.Now().After(row.ExpiresAt) {
		return Session{}, apperr.ErrSessionExpired
	}
	user, err := m.store.GetUserByID(ctx, row.UserID)
	if err != nil {
		return Session{}, err
	}
	if user == nil {
		return Session{}, apperr.ErrSessionExpired
	}

	pair, err := Issue(user.ID, user.Email, m.issuer, m.signingKey, m.accessTTL, m.refreshTTL)
	if err != nil {
		return Session{}, err
	}
	if err := m.store.RevokeRefreshToken(ctx, refreshToken); err != nil {
		return Session{}, err
	}
	if err := m.store.SaveRefreshToken(ctx, user.ID, pair.RefreshToken, pair.RefreshExp); err != nil {
		return Session{}, err
	}

	m.publish(ctx, events.TypeRefreshed, user.ID, user.Email)

	return Session{
		UserID:       user.ID,
		Email:        user.Email,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.AccessExp,
	}, nil
}

// Current validates an access token and returns its claims.
func (m *Manager) Current(accessToken string) (Claims, error) {
	return Parse(accessToken, m.signingKey, m.issuer)
}

// Events subscribes to session-change notifications.
func (m *Manager) Events(ctx context.Context) (<-chan events.SessionEvent, error) {
	return m.broadcaster.Subscribe(ctx)
}

func (m *Manager) publish(ctx context.Context, eventType, userID, email string) {
	evt := events.SessionEvent{Type: eventType, UserID: userID, Email: email, At: time.Now().UTC()}
	if err := m.broadcaster.Publish(ctx, evt); err != nil {
		log.Printf("session event publish failed: %v", err)
	}
}

// HashPassword bcrypt-hashes a plaintext password for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
