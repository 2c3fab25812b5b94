package auth

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
	autherrors "github.com/jrsteele09/homecare-session/internal/errors"
	"github.com/jrsteele09/homecare-session/internal/metrics"
	"github.com/jrsteele09/homecare-session/sessions"
	"github.com/jrsteele09/homecare-session/token"
	"github.com/jrsteele09/homecare-session/users"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

const (
	RequestIDHeader = "X-Request-ID"
	maxBodyBytes    = 4 << 20
)

// Client is the Session Client. It logs in against a role scoped endpoint, attaches the
// session's bearer token to every request and recovers from a 401 with at most one
// refresh and one retry. Concurrent 401s share a single in-flight refresh.
type Client struct {
	baseURL        string
	origin         *url.URL
	store          sessions.Store
	httpClient     *http.Client
	endpoints      Endpoints
	logger         zerolog.Logger
	metrics        *metrics.ClientMetrics
	refreshTimeout time.Duration
	nowFunc        func() time.Time
	refreshGroup   singleflight.Group
}

// NewClient creates a Session Client for the API rooted at baseURL, keeping its session in store.
func NewClient(baseURL string, store sessions.Store, options ...ClientOption) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, autherrors.Wrapf(err, "[NewClient] invalid base URL %q", baseURL)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("[NewClient] base URL %q must be absolute", baseURL)
	}
	if store == nil {
		return nil, errors.New("[NewClient] session store is required")
	}

	c := &Client{
		baseURL:        baseURL,
		origin:         &url.URL{Scheme: u.Scheme, Host: u.Host},
		store:          store,
		httpClient:     &http.Client{Timeout: defaultRequestTimeout},
		endpoints:      DefaultEndpoints(),
		logger:         zerolog.Nop(),
		refreshTimeout: defaultRefreshTimeout,
		nowFunc:        time.Now,
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the API base URL without a trailing slash
func (c *Client) BaseURL() string {
	return c.baseURL
}

// URL resolves path against the base URL. Absolute URLs are returned unchanged.
func (c *Client) URL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// Login authenticates against the role's login endpoint and persists the resulting session,
// replacing any existing one.
func (c *Client) Login(ctx context.Context, role users.Role, userID, password string) (*sessions.Session, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("[Login] %w: %q", ErrUnknownRole, role)
	}

	body, err := json.Marshal(token.LoginRequest{UserID: userID, Password: password})
	if err != nil {
		return nil, autherrors.Wrapf(err, "[Login] encode request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(c.endpoints.LoginPath(role)), bytes.NewReader(body))
	if err != nil {
		return nil, autherrors.Wrapf(err, "[Login] build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, uuid.NewString())

	status, data, err := c.roundTrip(req)
	if err != nil {
		c.metrics.ObserveLogin(role.String(), "error")
		return nil, err
	}

	if !isSuccess(status) {
		c.metrics.ObserveLogin(role.String(), "rejected")
		c.logger.Info().Str("role", role.String()).Int("status", status).Msg("login rejected")
		return nil, &AuthError{
			Kind:       KindInvalidCredentials,
			Role:       role,
			StatusCode: status,
			Message:    loginFailureMessage(role, data),
		}
	}

	loginResp, pair, err := token.ParseLoginResponse(data)
	if err != nil {
		c.metrics.ObserveLogin(role.String(), "malformed")
		return nil, &AuthError{
			Kind:       KindInvalidCredentials,
			Role:       role,
			StatusCode: status,
			Message:    "Login succeeded but missing token",
			Err:        err,
		}
	}

	profile := users.Profile{UserID: userID, Role: role}
	if loginResp.User != nil {
		profile = *loginResp.User
		if profile.Role == "" {
			profile.Role = role
		}
	}

	session := &sessions.Session{
		AccessToken:  pair.Access,
		RefreshToken: pair.Refresh,
		User:         profile,
		Role:         role,
		CreatedAt:    c.nowFunc(),
	}
	if err := c.store.Save(ctx, session); err != nil {
		c.metrics.ObserveLogin(role.String(), "error")
		return nil, autherrors.Wrapf(err, "[Login] save session")
	}

	c.metrics.ObserveLogin(role.String(), "success")
	c.logger.Info().
		Str("role", role.String()).
		Str("user_id", profile.ID.String()).
		Bool("refreshable", session.CanRefresh()).
		Msg("logged in")
	return session, nil
}

// Do sends req with the session's bearer token. A 401 triggers one refresh (shared with any
// concurrent callers) and one retry whose response is returned whatever its status. Any other
// response is returned unchanged. Without a session Do fails before touching the network, and
// requests addressed to any origin other than the base URL's are refused so the token stays with the API.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	if !c.sameOrigin(req.URL) {
		return nil, fmt.Errorf("[Do] %w: %s", ErrForeignOrigin, req.URL.Redacted())
	}

	session, err := c.store.Load(ctx)
	if err != nil && !errors.Is(err, ErrNotAuthenticated) {
		return nil, autherrors.Wrapf(err, "[Do] load session")
	}
	if !session.Authenticated() {
		return nil, &AuthError{Kind: KindNotAuthenticated, Message: "not authenticated"}
	}

	body, err := snapshotBody(req)
	if err != nil {
		return nil, err
	}
	requestID := req.Header.Get(RequestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	resp, err := c.send(req, body, session.AccessToken, requestID)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}

	detail := drainDetail(resp)
	access, err := c.refresh(ctx, session)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.metrics.ObserveSessionExpired()
		c.logger.Warn().Err(err).
			Str("method", req.Method).
			Str("url", req.URL.Redacted()).
			Str("request_id", requestID).
			Msg("session expired")
		if detail == "" {
			detail = "Session expired. Please log in again."
		}
		return nil, &AuthError{
			Kind:       KindSessionExpired,
			Role:       session.Role,
			StatusCode: http.StatusUnauthorized,
			Message:    detail,
			Err:        err,
		}
	}

	c.metrics.ObserveRetry()
	c.logger.Debug().Str("method", req.Method).Str("request_id", requestID).Msg("retrying with renewed access token")
	return c.send(req, body, access, requestID)
}

// DoJSON sends in (if non-nil) as JSON to path and decodes a 2xx body into out (if non-nil).
// Non-2xx responses become *APIError.
func (c *Client) DoJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return autherrors.Wrapf(err, "[DoJSON] encode %s %s", method, path)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.URL(path), body)
	if err != nil {
		return autherrors.Wrapf(err, "[DoJSON] build request")
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &NetworkError{Method: method, URL: req.URL.Redacted(), Err: err}
	}
	if !isSuccess(resp.StatusCode) {
		return NewAPIError(resp.StatusCode, data)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrMalformedResponse, method, path, err)
	}
	return nil
}

// Refresh exchanges the stored refresh token for a new access token. Any failure clears the
// session and reports false.
func (c *Client) Refresh(ctx context.Context) bool {
	session, err := c.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrNotAuthenticated) {
			c.clear(ctx, "session could not be loaded")
		}
		return false
	}
	if !session.CanRefresh() {
		c.clear(ctx, "no refresh token")
		return false
	}
	_, err = c.refresh(ctx, session)
	return err == nil
}

// Logout drops the session. It is safe to call without one.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.store.Clear(context.WithoutCancel(ctx)); err != nil {
		return autherrors.Wrapf(err, "[Logout] clear session")
	}
	c.logger.Info().Msg("logged out")
	return nil
}

// Current returns the stored session or a KindNotAuthenticated error
func (c *Client) Current(ctx context.Context) (*sessions.Session, error) {
	session, err := c.store.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrNotAuthenticated) {
			return nil, &AuthError{Kind: KindNotAuthenticated, Message: "not authenticated"}
		}
		return nil, autherrors.Wrapf(err, "[Current] load session")
	}
	if !session.Authenticated() {
		return nil, &AuthError{Kind: KindNotAuthenticated, Role: session.Role, Message: "not authenticated"}
	}
	return session, nil
}

// LoginPath returns the console route to send a user of role to when they must log in again
func LoginPath(role users.Role) string {
	return role.LoginPath()
}

// refresh returns an access token to retry with after stale's access token was rejected.
// Callers holding the same refresh token share one flight. Inside the flight the store is
// checked first, so a caller arriving after another refresh already landed reuses its result.
func (c *Client) refresh(ctx context.Context, stale *sessions.Session) (string, error) {
	ch := c.refreshGroup.DoChan(stale.RefreshToken, func() (any, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.refreshTimeout)
		defer cancel()

		current, err := c.store.Load(rctx)
		if err != nil {
			return "", autherrors.Wrapf(err, "[refresh] load session")
		}
		if current.RefreshToken != stale.RefreshToken {
			return "", fmt.Errorf("[refresh] %w", autherrors.ErrSessionReplaced)
		}
		if current.AccessToken != "" && current.AccessToken != stale.AccessToken {
			return current.AccessToken, nil
		}
		if !current.CanRefresh() {
			c.clear(rctx, "no refresh token")
			return "", fmt.Errorf("%w: no refresh token", ErrSessionExpired)
		}
		return c.exchange(rctx, current.RefreshToken)
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// exchange calls the refresh endpoint and stores the new access token
func (c *Client) exchange(ctx context.Context, refreshToken string) (string, error) {
	fail := func(reason string, err error) (string, error) {
		c.metrics.ObserveRefresh("failure")
		c.clear(ctx, reason)
		return "", err
	}

	body, err := json.Marshal(token.RefreshRequest{Refresh: refreshToken})
	if err != nil {
		return fail("encode refresh request", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(c.endpoints.RefreshPath()), bytes.NewReader(body))
	if err != nil {
		return fail("build refresh request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, uuid.NewString())

	status, data, err := c.roundTrip(req)
	if err != nil {
		return fail("refresh request failed", err)
	}
	if !isSuccess(status) {
		return fail("refresh rejected", fmt.Errorf("%w: refresh rejected with status %d", ErrSessionExpired, status))
	}
	access, err := token.ParseRefreshResponse(data)
	if err != nil {
		return fail("malformed refresh response", err)
	}

	if err := c.store.ReplaceAccessToken(ctx, refreshToken, access); err != nil {
		c.metrics.ObserveRefresh("failure")
		if errors.Is(err, autherrors.ErrSessionReplaced) {
			c.logger.Info().Msg("session replaced during refresh; keeping the new session")
			return "", err
		}
		c.clear(ctx, "store refreshed token")
		return "", autherrors.Wrapf(err, "[refresh] store access token")
	}

	c.metrics.ObserveRefresh("success")
	event := c.logger.Debug()
	if exp, ok := token.ExpiresAt(access); ok {
		event = event.Time("expires_at", exp)
	}
	event.Msg("access token refreshed")
	return access, nil
}

// send issues one attempt of req carrying exactly one bearer header
func (c *Client) send(orig *http.Request, body []byte, accessToken, requestID string) (*http.Response, error) {
	req := orig.Clone(orig.Context())
	if body != nil {
		req.Body = io.NopCloser(bytes.NewReader(body))
		req.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		}
		req.ContentLength = int64(len(body))
	}
	(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}).SetAuthHeader(req)
	req.Header.Set(RequestIDHeader, requestID)

	start := c.nowFunc()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Method: req.Method, URL: req.URL.Redacted(), Err: err}
	}
	c.metrics.ObserveRequest(req.Method, strconv.Itoa(resp.StatusCode), c.nowFunc().Sub(start).Seconds())
	return resp, nil
}

// roundTrip sends an unauthenticated request and reads the whole body
func (c *Client) roundTrip(req *http.Request) (int, []byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, &NetworkError{Method: req.Method, URL: req.URL.Redacted(), Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, &NetworkError{Method: req.Method, URL: req.URL.Redacted(), Err: err}
	}
	return resp.StatusCode, data, nil
}

func (c *Client) clear(ctx context.Context, reason string) {
	if err := c.store.Clear(context.WithoutCancel(ctx)); err != nil {
		c.logger.Error().Err(err).Str("reason", reason).Msg("failed to clear session")
		return
	}
	c.logger.Info().Str("reason", reason).Msg("session cleared")
}

// snapshotBody reads the request body so it can be sent twice
func snapshotBody(req *http.Request) ([]byte, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}
	rc := req.Body
	if req.GetBody != nil {
		fresh, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", autherrors.ErrRequestNotReplayable, err)
		}
		rc = fresh
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", autherrors.ErrRequestNotReplayable, err)
	}
	if data == nil {
		data = []byte{}
	}
	return data, nil
}

// drainDetail consumes a 401 response and returns its detail message, if any
func drainDetail(resp *http.Response) string {
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return ""
	}
	return NewAPIError(resp.StatusCode, data).Detail
}

// sameOrigin reports whether u has the base URL's scheme and host
func (c *Client) sameOrigin(u *url.URL) bool {
	return u != nil && strings.EqualFold(u.Scheme, c.origin.Scheme) && strings.EqualFold(u.Host, c.origin.Host)
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
