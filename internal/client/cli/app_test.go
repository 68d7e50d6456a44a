package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"dnsadm/internal/client/api"
	"dnsadm/internal/client/config"
	"dnsadm/internal/client/listview"
	"dnsadm/internal/client/models"
	"dnsadm/internal/client/session"
	"dnsadm/internal/logging"
)

// ---- fakes ----

type memTokenStore struct {
	pair *models.TokenPair
}

func (m *memTokenStore) Load(context.Context) (*models.TokenPair, error) { return m.pair, nil }
func (m *memTokenStore) Save(_ context.Context, pair models.TokenPair) error {
	m.pair = &pair
	return nil
}
func (m *memTokenStore) Clear(context.Context) error {
	m.pair = nil
	return nil
}

type statusCall struct {
	id      int64
	enabled bool
}

type updateCall struct {
	id  int64
	req models.UpdateDNSRecordRequest
}

// fakeAPI implements api.Client for command tests and doubles as the session
// manager's auth client.
type fakeAPI struct {
	loginPair models.TokenPair
	loginErr  error
	regErr    error

	records   []models.DNSRecord
	total     int
	listErr   error
	listCalls []api.ListQuery

	getRec models.DNSRecord
	getErr error

	created   []models.CreateDNSRecordRequest
	createErr error

	updates   []updateCall
	updateErr error

	deleted []int64

	userList      []models.ManagedUser
	userListCalls int
	statusCalls   []statusCall
	statusErr     error
}

func (f *fakeAPI) Login(_ context.Context, username, password string) (models.TokenPair, error) {
	return f.loginPair, f.loginErr
}

func (f *fakeAPI) Register(context.Context, string, string) error { return f.regErr }

func (f *fakeAPI) ListDNSRecords(_ context.Context, q api.ListQuery) ([]models.DNSRecord, int, error) {
	f.listCalls = append(f.listCalls, q)
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	return f.records, f.total, nil
}

func (f *fakeAPI) GetDNSRecord(context.Context, int64) (models.DNSRecord, error) {
	return f.getRec, f.getErr
}

func (f *fakeAPI) CreateDNSRecord(_ context.Context, req models.CreateDNSRecordRequest) (models.DNSRecord, error) {
	if f.createErr != nil {
		return models.DNSRecord{}, f.createErr
	}
	f.created = append(f.created, req)
	return models.DNSRecord{ID: 99, DomainName: req.DomainName, Type: req.Type, Value: req.Value}, nil
}

func (f *fakeAPI) UpdateDNSRecord(_ context.Context, id int64, req models.UpdateDNSRecordRequest) (models.DNSRecord, error) {
	if f.updateErr != nil {
		return models.DNSRecord{}, f.updateErr
	}
	f.updates = append(f.updates, updateCall{id: id, req: req})
	return models.DNSRecord{ID: id}, nil
}

func (f *fakeAPI) DeleteDNSRecord(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeAPI) ListUsers(context.Context) ([]models.ManagedUser, error) {
	f.userListCalls++
	return f.userList, nil
}

func (f *fakeAPI) SetUserStatus(_ context.Context, id int64, enabled bool) (models.ManagedUser, error) {
	if f.statusErr != nil {
		return models.ManagedUser{}, f.statusErr
	}
	f.statusCalls = append(f.statusCalls, statusCall{id: id, enabled: enabled})
	return models.ManagedUser{ID: id, IsEnabled: enabled}, nil
}

var _ api.Client = (*fakeAPI)(nil)

// ---- helpers ----

func testLogger() logging.Logger {
	return logging.NewTextLogger(io.Discard, slog.LevelError)
}

func mintToken(t *testing.T, username string, userID int64, role models.Role) string {
	t.Helper()
	claims := &models.AccessClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

// newTestApp wires an App around the fake boundary. When role is non-empty
// the app starts with a restored session for "testuser".
func newTestApp(t *testing.T, f *fakeAPI, role models.Role) (*App, *memTokenStore, *bytes.Buffer) {
	t.Helper()

	out := &bytes.Buffer{}
	store := &memTokenStore{}
	sess := session.NewManager(store, f, testLogger())

	if role != "" {
		store.pair = &models.TokenPair{
			AccessToken:  mintToken(t, "testuser", 42, role),
			RefreshToken: "fake-refresh-token",
		}
		require.NoError(t, sess.Restore(context.Background()))
		require.NotNil(t, sess.Current())
	}

	records := listview.NewController(func(ctx context.Context, q listview.Query) (listview.Page[models.DNSRecord], error) {
		items, total, err := f.ListDNSRecords(ctx, api.ListQuery{Page: q.Page, PageSize: q.PageSize, Search: q.Search})
		return listview.Page[models.DNSRecord]{Items: items, TotalCount: total}, err
	})

	users := listview.NewController(func(ctx context.Context, q listview.Query) (listview.Page[models.ManagedUser], error) {
		items, err := f.ListUsers(ctx)
		return listview.Page[models.ManagedUser]{Items: items, TotalCount: len(items)}, err
	})

	sess.OnChange(func() {
		records.Reset()
		users.Reset()
	})

	cfg := &config.Config{}
	cfg.LoadDefaults()

	return &App{
		config:  cfg,
		session: sess,
		api:     f,
		records: records,
		users:   users,
		log:     testLogger(),
		reader:  bufio.NewReader(strings.NewReader("")),
		out:     out,
	}, store, out
}

// script feeds the app's interactive prompts with canned lines.
func script(a *App, lines ...string) {
	a.reader = bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := getPassword
	getPassword = func(io.Writer) (string, error) { return pw, nil }
	t.Cleanup(func() { getPassword = orig })
}
