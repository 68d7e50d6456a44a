// Package session owns the authentication state of the client: the persisted
// token pair and the user identity derived from decoded access-token claims.
//
// The state machine is small: Unauthenticated -> (login) -> Authenticated ->
// (logout | token invalid or expired | 401 from the boundary) ->
// Unauthenticated. Identity is never fetched from the server; it is
// recomputed from the access token every time the token pair changes.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"dnsadm/internal/client/models"
	"dnsadm/internal/logging"
)

// ErrSessionInvalid is returned when a login handed back a token the client
// cannot decode or that is already expired.
var ErrSessionInvalid = errors.New("session invalid")

// AuthClient is the slice of the boundary the session manager needs.
type AuthClient interface {
	Login(ctx context.Context, username, password string) (models.TokenPair, error)
	Register(ctx context.Context, username, password string) error
}

// Manager is the single source of truth for "who is the current user".
//
// A non-nil Current() implies the stored access token decoded successfully
// and had not expired at the time of the last recompute. Decode failure or
// expiry always runs logout-equivalent cleanup, including the persisted
// store: the two code paths of the original design disagreed on this and the
// always-clear policy won.
type Manager struct {
	mu    sync.Mutex
	store TokenStore
	auth  AuthClient
	log   logging.Logger

	tokens   *models.TokenPair
	identity *models.Identity
	onChange func()

	nowFn func() time.Time
}

func NewManager(store TokenStore, auth AuthClient, log logging.Logger) *Manager {
	return &Manager{store: store, auth: auth, log: log, nowFn: time.Now}
}

// OnChange registers a hook invoked after a login or logout changes the
// session. The view layer uses it to drop per-session state such as list
// filters and page positions. Called without the manager's lock held.
func (m *Manager) OnChange(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = fn
}

// Restore initializes the session from persisted tokens, if any. Called once
// at startup; an expired or undecodable persisted token leaves the manager
// unauthenticated and the store empty.
func (m *Manager) Restore(ctx context.Context) error {
	pair, err := m.store.Load(ctx)
	if err != nil {
		return err
	}
	if pair == nil {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens = pair
	return m.recomputeLocked(ctx)
}

// Login exchanges credentials for a token pair, persists both tokens, and
// derives the identity. api.ErrInvalidCredentials propagates to the caller
// for display; nothing is retried.
func (m *Manager) Login(ctx context.Context, username, password string) (*models.Identity, error) {
	pair, err := m.auth.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}

	if err := m.store.Save(ctx, pair); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.tokens = &pair
	err = m.recomputeLocked(ctx)
	id := m.identity
	fn := m.onChange
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if id == nil {
		return nil, ErrSessionInvalid
	}
	if fn != nil {
		fn()
	}
	return id, nil
}

// Register creates an account. It does not authenticate the new account.
func (m *Manager) Register(ctx context.Context, username, password string) error {
	return m.auth.Register(ctx, username, password)
}

// Logout drops the in-memory session and removes the persisted tokens.
// Calling it with no active session is a no-op and fires no change hook.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	had := m.identity != nil
	err := m.clearLocked(ctx)
	fn := m.onChange
	m.mu.Unlock()

	if had && fn != nil {
		fn()
	}
	return err
}

// Invalidate is the forced-logout hook for a 401 from the boundary. Errors
// clearing the store are logged, not returned: the caller is mid-request and
// the in-memory session is gone either way.
func (m *Manager) Invalidate() {
	ctx := context.Background()
	m.log.Warn(ctx, "session rejected by server, logging out")
	if err := m.Logout(ctx); err != nil {
		m.log.Error(ctx, "clearing persisted tokens", "err", err)
	}
}

// Current returns the derived identity, or nil when unauthenticated.
func (m *Manager) Current() *models.Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.identity
}

// AccessToken feeds the transport's bearer interceptor. Empty when there is
// no session.
func (m *Manager) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tokens == nil {
		return ""
	}
	return m.tokens.AccessToken
}

// recomputeLocked re-derives the identity from the current access token.
// Undecodable or expired tokens clear the whole session, store included.
func (m *Manager) recomputeLocked(ctx context.Context) error {
	if m.tokens == nil {
		m.identity = nil
		return nil
	}

	claims := &models.AccessClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(m.tokens.AccessToken, claims); err != nil {
		m.log.Warn(ctx, "access token undecodable, clearing session", "err", err)
		return m.clearLocked(ctx)
	}

	// A token without an expiry claim counts as expired.
	if claims.ExpiresAt == nil || !claims.ExpiresAt.Time.After(m.nowFn()) {
		m.log.Info(ctx, "access token expired, clearing session", "sub", claims.Subject)
		return m.clearLocked(ctx)
	}

	m.identity = &models.Identity{
		ID:       claims.UserID,
		Username: claims.Subject,
		Role:     claims.Role,
		// The token carries no enabled flag; a disabled account would not
		// have been issued one.
		Enabled: true,
	}
	return nil
}

func (m *Manager) clearLocked(ctx context.Context) error {
	m.tokens = nil
	m.identity = nil
	return m.store.Clear(ctx)
}
