package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"dnsadm/internal/client/models"
	"dnsadm/internal/logging"
)

// totalCountHeader carries the server-reported collection size on listings.
const totalCountHeader = "x-total-count"

// HTTPClient talks JSON over HTTP to the backend under /api/v1.
//
// Two underlying http.Clients mirror the backend's route split: a public one
// for /auth, and a private one whose transport attaches the bearer token.
// A 401 on the private client invokes the registered unauthorized hook
// (forced logout) before the error is returned.
type HTTPClient struct {
	baseURL string
	public  *http.Client
	private *http.Client
	log     logging.Logger

	onUnauthorized func()
}

var _ Client = (*HTTPClient)(nil)

// transport decorates every outgoing request with a correlation id and, when
// a token source is present and yields a token, the Authorization header.
type transport struct {
	base  http.RoundTripper
	token func() string
}

func (t *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set("X-Request-Id", uuid.NewString())
	r.Header.Set("Content-Type", "application/json")
	if t.token != nil {
		if tok := t.token(); tok != "" {
			r.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	return t.base.RoundTrip(r)
}

// NewHTTPClient builds a client for the API rooted at baseURL (scheme://host,
// without the /api/v1 suffix). tokenFn supplies the current access token and
// may return "" when no session exists.
func NewHTTPClient(baseURL string, timeout time.Duration, tokenFn func() string, log logging.Logger) *HTTPClient {
	base := http.DefaultTransport
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/") + "/api/v1",
		public: &http.Client{
			Timeout:   timeout,
			Transport: &transport{base: base},
		},
		private: &http.Client{
			Timeout:   timeout,
			Transport: &transport{base: base, token: tokenFn},
		},
		log: log,
	}
}

// OnUnauthorized registers the hook invoked when an authenticated call comes
// back 401. The session manager uses it to force a logout.
func (c *HTTPClient) OnUnauthorized(fn func()) {
	c.onUnauthorized = fn
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (models.TokenPair, error) {
	var pair models.TokenPair
	req := models.LoginRequest{Username: username, Password: password}
	_, err := c.do(ctx, c.public, http.MethodPost, "/auth/login", nil, req, &pair)
	if err != nil {
		if apiErr := asAPIError(err); apiErr != nil && apiErr.StatusCode == http.StatusUnauthorized {
			return models.TokenPair{}, ErrInvalidCredentials
		}
		return models.TokenPair{}, err
	}
	return pair, nil
}

func (c *HTTPClient) Register(ctx context.Context, username, password string) error {
	req := models.RegisterRequest{Username: username, Password: password}
	_, err := c.do(ctx, c.public, http.MethodPost, "/auth/register", nil, req, nil)
	return err
}

func (c *HTTPClient) ListDNSRecords(ctx context.Context, q ListQuery) ([]models.DNSRecord, int, error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(q.Page))
	query.Set("pageSize", strconv.Itoa(q.PageSize))
	if q.Search != "" {
		query.Set("search", q.Search)
	}

	var records []models.DNSRecord
	header, err := c.do(ctx, c.private, http.MethodGet, "/dns-records", query, nil, &records)
	if err != nil {
		return nil, 0, err
	}

	// The total is server-reported and independent of the slice length.
	// A missing or malformed header counts as zero, never as a guess
	// derived from the page.
	total, err := strconv.Atoi(header.Get(totalCountHeader))
	if err != nil {
		total = 0
	}
	return records, total, nil
}

func (c *HTTPClient) GetDNSRecord(ctx context.Context, id int64) (models.DNSRecord, error) {
	var rec models.DNSRecord
	_, err := c.do(ctx, c.private, http.MethodGet, "/dns-records/"+strconv.FormatInt(id, 10), nil, nil, &rec)
	return rec, err
}

func (c *HTTPClient) CreateDNSRecord(ctx context.Context, req models.CreateDNSRecordRequest) (models.DNSRecord, error) {
	var rec models.DNSRecord
	_, err := c.do(ctx, c.private, http.MethodPost, "/dns-records", nil, req, &rec)
	return rec, err
}

func (c *HTTPClient) UpdateDNSRecord(ctx context.Context, id int64, req models.UpdateDNSRecordRequest) (models.DNSRecord, error) {
	var rec models.DNSRecord
	_, err := c.do(ctx, c.private, http.MethodPut, "/dns-records/"+strconv.FormatInt(id, 10), nil, req, &rec)
	return rec, err
}

func (c *HTTPClient) DeleteDNSRecord(ctx context.Context, id int64) error {
	_, err := c.do(ctx, c.private, http.MethodDelete, "/dns-records/"+strconv.FormatInt(id, 10), nil, nil, nil)
	return err
}

func (c *HTTPClient) ListUsers(ctx context.Context) ([]models.ManagedUser, error) {
	var users []models.ManagedUser
	_, err := c.do(ctx, c.private, http.MethodGet, "/admin/users", nil, nil, &users)
	return users, err
}

func (c *HTTPClient) SetUserStatus(ctx context.Context, id int64, enabled bool) (models.ManagedUser, error) {
	var user models.ManagedUser
	body := struct {
		IsEnabled bool `json:"isEnabled"`
	}{IsEnabled: enabled}
	path := "/admin/users/" + strconv.FormatInt(id, 10) + "/status"
	_, err := c.do(ctx, c.private, http.MethodPut, path, nil, body, &user)
	return user, err
}

// do issues one JSON request and decodes a 2xx body into out (when non-nil).
// Non-2xx responses are mapped to the package's error taxonomy.
func (c *HTTPClient) do(ctx context.Context, hc *http.Client, method, path string, query url.Values, in, out any) (http.Header, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		c.log.Warn(ctx, "request failed", "method", method, "path", path, "err", err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	c.log.Debug(ctx, "request done",
		"method", method, "path", path, "status", resp.StatusCode, "took", time.Since(start))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out != nil && len(data) > 0 {
			if err := json.Unmarshal(data, out); err != nil {
				return nil, fmt.Errorf("decoding response: %w", err)
			}
		}
		return resp.Header, nil
	}

	if resp.StatusCode == http.StatusUnauthorized && hc == c.private {
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return nil, ErrUnauthorized
	}

	return nil, &APIError{StatusCode: resp.StatusCode, Message: serverMessage(data)}
}

// serverMessage pulls the human-readable message out of an error body. The
// backend answers with {"error": "..."}; older handlers used "message".
func serverMessage(data []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	if body.Error != "" {
		return body.Error
	}
	return body.Message
}

func asAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return nil
}
