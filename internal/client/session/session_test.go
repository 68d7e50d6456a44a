package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dnsadm/internal/client/api"
	"dnsadm/internal/client/models"
	"dnsadm/internal/logging"
)

// ---- fakes ----

type memStore struct {
	pair     *models.TokenPair
	saveErr  error
	clearLog int
}

func (m *memStore) Load(context.Context) (*models.TokenPair, error) {
	return m.pair, nil
}

func (m *memStore) Save(_ context.Context, pair models.TokenPair) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.pair = &pair
	return nil
}

func (m *memStore) Clear(context.Context) error {
	m.clearLog++
	m.pair = nil
	return nil
}

type fakeAuth struct {
	loginPair models.TokenPair
	loginErr  error

	lastUser string
	lastPass string

	regErr    error
	regCalled bool
}

func (f *fakeAuth) Login(_ context.Context, username, password string) (models.TokenPair, error) {
	f.lastUser, f.lastPass = username, password
	return f.loginPair, f.loginErr
}

func (f *fakeAuth) Register(_ context.Context, username, password string) error {
	f.regCalled = true
	f.lastUser, f.lastPass = username, password
	return f.regErr
}

// ---- helpers ----

func testLog() logging.Logger {
	return logging.NewTextLogger(io.Discard, slog.LevelError)
}

func mintToken(t *testing.T, username string, userID int64, role models.Role, expiresAt time.Time) string {
	t.Helper()
	claims := &models.AccessClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(expiresAt.Add(-time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestManager(store TokenStore, auth AuthClient) *Manager {
	m := NewManager(store, auth, testLog())
	m.nowFn = func() time.Time { return testNow }
	return m
}

// ---- tests ----

func TestLogin_PersistsBothTokensAndDerivesIdentity(t *testing.T) {
	access := mintToken(t, "testuser", 42, models.RoleUser, testNow.Add(time.Hour))
	store := &memStore{}
	auth := &fakeAuth{loginPair: models.TokenPair{AccessToken: access, RefreshToken: "fake-refresh-token"}}
	m := newTestManager(store, auth)

	id, err := m.Login(context.Background(), "testuser", "password")
	require.NoError(t, err)

	require.NotNil(t, store.pair, "both tokens must be persisted")
	assert.Equal(t, access, store.pair.AccessToken)
	assert.Equal(t, "fake-refresh-token", store.pair.RefreshToken)

	require.NotNil(t, id)
	assert.Equal(t, "testuser", id.Username)
	assert.Equal(t, int64(42), id.ID)
	assert.Equal(t, models.RoleUser, id.Role)
	assert.True(t, id.Enabled, "enabled is assumed true, the token has no flag")
	assert.Equal(t, access, m.AccessToken())
}

func TestLogin_InvalidCredentialsPropagate(t *testing.T) {
	store := &memStore{}
	auth := &fakeAuth{loginErr: api.ErrInvalidCredentials}
	m := newTestManager(store, auth)

	_, err := m.Login(context.Background(), "testuser", "wrong")
	require.ErrorIs(t, err, api.ErrInvalidCredentials)
	assert.Nil(t, m.Current())
	assert.Nil(t, store.pair, "nothing may be persisted on a failed login")
}

func TestLogin_ExpiredTokenFromServerClearsSession(t *testing.T) {
	access := mintToken(t, "testuser", 42, models.RoleUser, testNow.Add(-time.Minute))
	store := &memStore{}
	m := newTestManager(store, &fakeAuth{loginPair: models.TokenPair{AccessToken: access, RefreshToken: "r"}})

	_, err := m.Login(context.Background(), "testuser", "password")
	require.ErrorIs(t, err, ErrSessionInvalid)
	assert.Nil(t, m.Current())
	assert.Nil(t, store.pair)
}

func TestRestore_ValidPersistedSession(t *testing.T) {
	access := mintToken(t, "alice", 7, models.RoleAdmin, testNow.Add(time.Hour))
	store := &memStore{pair: &models.TokenPair{AccessToken: access, RefreshToken: "r"}}
	m := newTestManager(store, &fakeAuth{})

	require.NoError(t, m.Restore(context.Background()))
	id := m.Current()
	require.NotNil(t, id)
	assert.Equal(t, "alice", id.Username)
	assert.True(t, id.IsAdmin())
}

func TestRestore_ExpiredTokenClearsStore(t *testing.T) {
	access := mintToken(t, "alice", 7, models.RoleUser, testNow.Add(-time.Hour))
	store := &memStore{pair: &models.TokenPair{AccessToken: access, RefreshToken: "r"}}
	m := newTestManager(store, &fakeAuth{})

	require.NoError(t, m.Restore(context.Background()))
	assert.Nil(t, m.Current())
	assert.Nil(t, store.pair, "expired persisted tokens must be cleared")
	assert.Empty(t, m.AccessToken())
}

func TestRestore_UndecodableTokenClearsStore(t *testing.T) {
	store := &memStore{pair: &models.TokenPair{AccessToken: "not-a-jwt", RefreshToken: "r"}}
	m := newTestManager(store, &fakeAuth{})

	require.NoError(t, m.Restore(context.Background()))
	assert.Nil(t, m.Current())
	assert.Nil(t, store.pair, "undecodable tokens must be cleared, not preserved")
}

func TestRestore_TokenWithoutExpiryCountsAsExpired(t *testing.T) {
	claims := &models.AccessClaims{
		UserID:           1,
		Role:             models.RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "noexp"},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	store := &memStore{pair: &models.TokenPair{AccessToken: signed, RefreshToken: "r"}}
	m := newTestManager(store, &fakeAuth{})

	require.NoError(t, m.Restore(context.Background()))
	assert.Nil(t, m.Current())
}

func TestLogout_Idempotent(t *testing.T) {
	access := mintToken(t, "testuser", 42, models.RoleUser, testNow.Add(time.Hour))
	store := &memStore{}
	m := newTestManager(store, &fakeAuth{loginPair: models.TokenPair{AccessToken: access, RefreshToken: "r"}})

	_, err := m.Login(context.Background(), "testuser", "password")
	require.NoError(t, err)

	require.NoError(t, m.Logout(context.Background()))
	assert.Nil(t, m.Current())
	assert.Nil(t, store.pair)

	// Second logout with no active session: still fine, still empty.
	require.NoError(t, m.Logout(context.Background()))
	assert.Nil(t, m.Current())
	assert.Nil(t, store.pair)
}

func TestInvalidate_ForcesLogout(t *testing.T) {
	access := mintToken(t, "testuser", 42, models.RoleUser, testNow.Add(time.Hour))
	store := &memStore{}
	m := newTestManager(store, &fakeAuth{loginPair: models.TokenPair{AccessToken: access, RefreshToken: "r"}})

	_, err := m.Login(context.Background(), "testuser", "password")
	require.NoError(t, err)

	m.Invalidate()
	assert.Nil(t, m.Current())
	assert.Empty(t, m.AccessToken())
	assert.Nil(t, store.pair)
}

func TestRegister_DoesNotAuthenticate(t *testing.T) {
	store := &memStore{}
	auth := &fakeAuth{}
	m := newTestManager(store, auth)

	require.NoError(t, m.Register(context.Background(), "newuser", "password"))
	assert.True(t, auth.regCalled)
	assert.Nil(t, m.Current(), "register must not create a session")
	assert.Nil(t, store.pair)
}

func TestRegister_ConflictPropagates(t *testing.T) {
	m := newTestManager(&memStore{}, &fakeAuth{regErr: api.ErrConflict})
	err := m.Register(context.Background(), "taken", "password")
	require.ErrorIs(t, err, api.ErrConflict)
}

func TestLogin_StoreFailureSurfaces(t *testing.T) {
	access := mintToken(t, "testuser", 42, models.RoleUser, testNow.Add(time.Hour))
	store := &memStore{saveErr: errors.New("disk full")}
	m := newTestManager(store, &fakeAuth{loginPair: models.TokenPair{AccessToken: access, RefreshToken: "r"}})

	_, err := m.Login(context.Background(), "testuser", "password")
	require.Error(t, err)
	assert.Nil(t, m.Current())
}

func TestOnChange_FiresOnLoginAndLogout(t *testing.T) {
	access := mintToken(t, "testuser", 42, models.RoleUser, testNow.Add(time.Hour))
	auth := &fakeAuth{loginPair: models.TokenPair{AccessToken: access, RefreshToken: "fake-refresh-token"}}
	m := newTestManager(&memStore{}, auth)

	var changes int
	m.OnChange(func() { changes++ })

	_, err := m.Login(context.Background(), "testuser", "password")
	require.NoError(t, err)
	assert.Equal(t, 1, changes, "login is a session change")

	require.NoError(t, m.Logout(context.Background()))
	assert.Equal(t, 2, changes, "logout is a session change")

	require.NoError(t, m.Logout(context.Background()))
	assert.Equal(t, 2, changes, "logging out while logged out changes nothing")
}

func TestOnChange_FiresOnInvalidate(t *testing.T) {
	access := mintToken(t, "testuser", 42, models.RoleUser, testNow.Add(time.Hour))
	auth := &fakeAuth{loginPair: models.TokenPair{AccessToken: access, RefreshToken: "fake-refresh-token"}}
	m := newTestManager(&memStore{}, auth)

	var changes int
	m.OnChange(func() { changes++ })

	_, err := m.Login(context.Background(), "testuser", "password")
	require.NoError(t, err)

	m.Invalidate()
	assert.Equal(t, 2, changes)
	assert.Nil(t, m.Current())
}
