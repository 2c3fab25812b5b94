package auth_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jrsteele09/homecare-session/auth"
	"github.com/jrsteele09/homecare-session/sessions"
	"github.com/jrsteele09/homecare-session/sessions/memstore"
	"github.com/jrsteele09/homecare-session/users"
	"github.com/stretchr/testify/require"
)

const (
	nestedAdminLogin = `{"tokens":{"access":"a1","refresh":"r1"},"user":{"id":7,"full_name":"Ada Admin","role":"admin"}}`
	invalidTokenBody = `{"detail":"Given token not valid for any token type","code":"token_not_valid"}`
)

// fakeAPI records every call so tests can assert exact counts
type fakeAPI struct {
	loginStatus   int
	loginBody     string
	refreshStatus int
	refreshBody   string
	refreshDelay  time.Duration
	onRefresh     func()
	onResource    func()
	acceptToken   string

	loginCalls    atomic.Int32
	refreshCalls  atomic.Int32
	resourceCalls atomic.Int32

	mu          sync.Mutex
	authHeaders [][]string
	bodies      []string
}

func newFakeAPI(t *testing.T) (*fakeAPI, *httptest.Server) {
	t.Helper()
	api := &fakeAPI{
		loginStatus:   http.StatusOK,
		loginBody:     nestedAdminLogin,
		refreshStatus: http.StatusOK,
		refreshBody:   `{"access":"a2"}`,
		acceptToken:   "a1",
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login/{role}/", func(w http.ResponseWriter, r *http.Request) {
		api.loginCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(api.loginStatus)
		_, _ = io.WriteString(w, api.loginBody)
	})
	mux.HandleFunc("POST /api/auth/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		api.refreshCalls.Add(1)
		if api.refreshDelay > 0 {
			time.Sleep(api.refreshDelay)
		}
		if api.onRefresh != nil {
			api.onRefresh()
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(api.refreshStatus)
		_, _ = io.WriteString(w, api.refreshBody)
	})
	mux.HandleFunc("/api/appointments/", func(w http.ResponseWriter, r *http.Request) {
		api.resourceCalls.Add(1)
		body, _ := io.ReadAll(r.Body)
		api.mu.Lock()
		api.authHeaders = append(api.authHeaders, r.Header.Values("Authorization"))
		api.bodies = append(api.bodies, string(body))
		api.mu.Unlock()
		if api.onResource != nil {
			api.onResource()
		}

		w.Header().Set("Content-Type", "application/json")
		if r.Header.Get("Authorization") != "Bearer "+api.acceptToken {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, invalidTokenBody)
			return
		}
		_, _ = fmt.Fprintf(w, `{"id":1,"echo":%q}`, string(body))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return api, server
}

func (api *fakeAPI) recordedHeaders() [][]string {
	api.mu.Lock()
	defer api.mu.Unlock()
	return append([][]string(nil), api.authHeaders...)
}

func (api *fakeAPI) recordedBodies() []string {
	api.mu.Lock()
	defer api.mu.Unlock()
	return append([]string(nil), api.bodies...)
}

func setupClient(t *testing.T) (*auth.Client, *fakeAPI, sessions.Store) {
	t.Helper()
	api, server := newFakeAPI(t)
	store := memstore.New()
	client, err := auth.NewClient(server.URL+"/api//", store)
	require.NoError(t, err)
	return client, api, store
}

func login(t *testing.T, client *auth.Client) *sessions.Session {
	t.Helper()
	session, err := client.Login(context.Background(), users.RoleAdmin, "u1", "p1")
	require.NoError(t, err)
	return session
}

func getAppointments(t *testing.T, client *auth.Client) (*http.Response, error) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, client.URL("/appointments/"), nil)
	require.NoError(t, err)
	return client.Do(req)
}

func TestNewClient(t *testing.T) {
	store := memstore.New()

	client, err := auth.NewClient("http://127.0.0.1:8000/api///", store)
	require.NoError(t, err)
	require.Equal(t, "http://127.0.0.1:8000/api", client.BaseURL())
	require.Equal(t, "http://127.0.0.1:8000/api/nurses/3/", client.URL("nurses/3/"))
	require.Equal(t, "http://127.0.0.1:8000/api/nurses/3/", client.URL("/nurses/3/"))

	_, err = auth.NewClient("not a url", store)
	require.Error(t, err)

	_, err = auth.NewClient("http://127.0.0.1:8000/api", nil)
	require.Error(t, err)
}

func TestClient_Login_NestedShape(t *testing.T) {
	client, api, store := setupClient(t)

	session := login(t, client)
	require.Equal(t, "a1", session.AccessToken)
	require.Equal(t, "r1", session.RefreshToken)
	require.Equal(t, users.ID("7"), session.User.ID)
	require.Equal(t, "Ada Admin", session.User.FullName)
	require.Equal(t, users.RoleAdmin, session.Role)

	stored, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, "a1", stored.AccessToken)
	require.Equal(t, "r1", stored.RefreshToken)

	resp, err := getAppointments(t, client)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.Equal(t, [][]string{{"Bearer a1"}}, api.recordedHeaders())
	require.EqualValues(t, 1, api.loginCalls.Load())
	require.EqualValues(t, 0, api.refreshCalls.Load())
}

func TestClient_Login_FlatShapeWithoutUser(t *testing.T) {
	client, api, _ := setupClient(t)
	api.loginBody = `{"access":"a1","refresh":"r1"}`

	session, err := client.Login(context.Background(), users.RoleNurse, "N-100", "secret")
	require.NoError(t, err)
	require.Equal(t, "a1", session.AccessToken)
	require.Equal(t, "r1", session.RefreshToken)
	require.Equal(t, "N-100", session.User.UserID)
	require.Equal(t, users.RoleNurse, session.User.Role)
}

func TestClient_Login_ProfileWithoutRoleGetsLoginRole(t *testing.T) {
	client, api, _ := setupClient(t)
	api.loginBody = `{"access":"a1","refresh":"r1","user":{"id":"p-9","full_name":"Pat"}}`

	session, err := client.Login(context.Background(), users.RolePatient, "p-9", "secret")
	require.NoError(t, err)
	require.Equal(t, users.RolePatient, session.User.Role)
	require.Equal(t, users.ID("p-9"), session.User.ID)
}

func TestClient_Login_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		role    users.Role
		body    string
		message string
	}{
		{name: "detail", role: users.RoleAdmin, body: `{"detail":"No active account found"}`, message: "No active account found"},
		{name: "error", role: users.RolePatient, body: `{"error":"Invalid patient ID"}`, message: "Invalid patient ID"},
		{name: "user_id list", role: users.RoleNurse, body: `{"user_id":["This field is required."]}`, message: "This field is required."},
		{name: "password", role: users.RoleAdmin, body: `{"password":["Too short.","Too common."]}`, message: "Too short., Too common."},
		{name: "detail wins", role: users.RoleAdmin, body: `{"password":["x"],"detail":"Locked"}`, message: "Locked"},
		{name: "no message", role: users.RoleAdmin, body: `{}`, message: "Admin login failed"},
		{name: "not json", role: users.RoleNurse, body: `<html>502</html>`, message: "Nurse login failed"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client, api, store := setupClient(t)
			api.loginStatus = http.StatusUnauthorized
			api.loginBody = tc.body

			session, err := client.Login(context.Background(), tc.role, "u1", "bad")
			require.Nil(t, session)
			require.ErrorIs(t, err, auth.ErrInvalidCredentials)

			var authErr *auth.AuthError
			require.ErrorAs(t, err, &authErr)
			require.Equal(t, auth.KindInvalidCredentials, authErr.Kind)
			require.Equal(t, http.StatusUnauthorized, authErr.StatusCode)
			require.Equal(t, tc.message, authErr.Error())

			_, err = store.Load(context.Background())
			require.ErrorIs(t, err, auth.ErrNotAuthenticated)
		})
	}
}

func TestClient_Login_MissingToken(t *testing.T) {
	client, api, store := setupClient(t)
	api.loginBody = `{"user":{"id":1,"role":"admin"}}`

	_, err := client.Login(context.Background(), users.RoleAdmin, "u1", "p1")
	require.ErrorIs(t, err, auth.ErrInvalidCredentials)
	require.ErrorIs(t, err, auth.ErrMalformedResponse)

	_, err = store.Load(context.Background())
	require.ErrorIs(t, err, auth.ErrNotAuthenticated)
}

func TestClient_Login_UnknownRole(t *testing.T) {
	client, api, _ := setupClient(t)

	_, err := client.Login(context.Background(), users.Role("doctor"), "u1", "p1")
	require.ErrorIs(t, err, auth.ErrUnknownRole)
	require.EqualValues(t, 0, api.loginCalls.Load())
}

func TestClient_Login_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	client, err := auth.NewClient(server.URL, memstore.New())
	require.NoError(t, err)

	_, err = client.Login(context.Background(), users.RoleAdmin, "u1", "p1")
	require.ErrorIs(t, err, auth.ErrNetwork)

	var netErr *auth.NetworkError
	require.ErrorAs(t, err, &netErr)
	require.Equal(t, http.MethodPost, netErr.Method)
}

func TestClient_Login_ReplacesExistingSession(t *testing.T) {
	client, api, store := setupClient(t)
	login(t, client)

	api.loginBody = `{"access":"b1","refresh":"s1","user":{"id":2,"role":"nurse"}}`
	_, err := client.Login(context.Background(), users.RoleNurse, "n1", "p1")
	require.NoError(t, err)

	stored, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, "b1", stored.AccessToken)
	require.Equal(t, "s1", stored.RefreshToken)
	require.Equal(t, users.RoleNurse, stored.Role)
}

func TestClient_Do_NotAuthenticated(t *testing.T) {
	client, api, _ := setupClient(t)

	resp, err := getAppointments(t, client)
	require.Nil(t, resp)
	require.ErrorIs(t, err, auth.ErrNotAuthenticated)

	var authErr *auth.AuthError
	require.ErrorAs(t, err, &authErr)
	require.Equal(t, auth.KindNotAuthenticated, authErr.Kind)
	require.Equal(t, "/login/admin", authErr.LoginPath())

	require.EqualValues(t, 0, api.resourceCalls.Load())
	require.EqualValues(t, 0, api.refreshCalls.Load())
}

func TestClient_Logout(t *testing.T) {
	client, api, store := setupClient(t)
	login(t, client)

	require.NoError(t, client.Logout(context.Background()))
	require.NoError(t, client.Logout(context.Background()))

	_, err := store.Load(context.Background())
	require.ErrorIs(t, err, auth.ErrNotAuthenticated)

	_, err = getAppointments(t, client)
	require.ErrorIs(t, err, auth.ErrNotAuthenticated)
	require.EqualValues(t, 0, api.resourceCalls.Load())
	require.EqualValues(t, 0, api.refreshCalls.Load())

	_, err = client.Current(context.Background())
	require.ErrorIs(t, err, auth.ErrNotAuthenticated)
}

func TestClient_Do_RefreshesAndRetriesOnce(t *testing.T) {
	client, api, store := setupClient(t)
	login(t, client)
	api.acceptToken = "a2"

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, client.URL("appointments/"), strings.NewReader(`{"service":"wound care"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.EqualValues(t, 1, api.refreshCalls.Load())
	require.EqualValues(t, 2, api.resourceCalls.Load())
	require.Equal(t, [][]string{{"Bearer a1"}, {"Bearer a2"}}, api.recordedHeaders())
	require.Equal(t, []string{`{"service":"wound care"}`, `{"service":"wound care"}`}, api.recordedBodies())

	stored, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, "a2", stored.AccessToken)
	require.Equal(t, "r1", stored.RefreshToken)
}

func TestClient_Do_RefreshFailureClearsSession(t *testing.T) {
	client, api, store := setupClient(t)
	login(t, client)
	api.acceptToken = "a2"
	api.refreshStatus = http.StatusUnauthorized
	api.refreshBody = `{"detail":"Token is invalid or expired","code":"token_not_valid"}`

	resp, err := getAppointments(t, client)
	require.Nil(t, resp)
	require.ErrorIs(t, err, auth.ErrSessionExpired)

	var authErr *auth.AuthError
	require.ErrorAs(t, err, &authErr)
	require.Equal(t, auth.KindSessionExpired, authErr.Kind)
	require.Equal(t, http.StatusUnauthorized, authErr.StatusCode)
	require.Equal(t, "Given token not valid for any token type", authErr.Message)
	require.Equal(t, "/login/admin", authErr.LoginPath())

	require.EqualValues(t, 1, api.refreshCalls.Load())
	require.EqualValues(t, 1, api.resourceCalls.Load())

	_, err = store.Load(context.Background())
	require.ErrorIs(t, err, auth.ErrNotAuthenticated)
}

func TestClient_Do_MalformedRefreshClearsSession(t *testing.T) {
	client, api, store := setupClient(t)
	login(t, client)
	api.acceptToken = "a2"
	api.refreshBody = `{"token":"a2"}`

	_, err := getAppointments(t, client)
	require.ErrorIs(t, err, auth.ErrSessionExpired)
	require.ErrorIs(t, err, auth.ErrMalformedResponse)
	require.EqualValues(t, 1, api.resourceCalls.Load())

	_, err = store.Load(context.Background())
	require.ErrorIs(t, err, auth.ErrNotAuthenticated)
}

func TestClient_Do_WithoutRefreshToken(t *testing.T) {
	client, api, store := setupClient(t)
	api.loginBody = `{"access":"a1","user":{"id":3,"role":"patient"}}`
	_, err := client.Login(context.Background(), users.RolePatient, "p1", "pw")
	require.NoError(t, err)
	api.acceptToken = "a2"

	_, err = getAppointments(t, client)
	require.ErrorIs(t, err, auth.ErrSessionExpired)

	var authErr *auth.AuthError
	require.ErrorAs(t, err, &authErr)
	require.Equal(t, "/login/patient", authErr.LoginPath())

	require.EqualValues(t, 0, api.refreshCalls.Load())
	require.EqualValues(t, 1, api.resourceCalls.Load())

	_, err = store.Load(context.Background())
	require.ErrorIs(t, err, auth.ErrNotAuthenticated)
}

func TestClient_Do_RetryResponseReturnedAsIs(t *testing.T) {
	client, api, _ := setupClient(t)
	login(t, client)
	api.acceptToken = "never"

	resp, err := getAppointments(t, client)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	require.EqualValues(t, 1, api.refreshCalls.Load())
	require.EqualValues(t, 2, api.resourceCalls.Load())
}

func TestClient_Do_ConcurrentUnauthorizedShareOneRefresh(t *testing.T) {
	client, api, _ := setupClient(t)
	login(t, client)
	api.acceptToken = "a2"
	api.refreshDelay = 50 * time.Millisecond

	const callers = 20
	var wg sync.WaitGroup
	statuses := make([]int, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, client.URL("appointments/"), nil)
			if err != nil {
				errs[i] = err
				return
			}
			resp, err := client.Do(req)
			if err != nil {
				errs[i] = err
				return
			}
			statuses[i] = resp.StatusCode
			resp.Body.Close()
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		require.Equal(t, http.StatusOK, statuses[i])
	}
	require.EqualValues(t, 1, api.refreshCalls.Load())
}

func TestClient_Do_CallerCancelDoesNotAbortSharedRefresh(t *testing.T) {
	client, api, store := setupClient(t)
	login(t, client)
	api.acceptToken = "a2"
	api.refreshDelay = 100 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, client.URL("appointments/"), nil)
	require.NoError(t, err)

	_, err = client.Do(req)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	require.Eventually(t, func() bool {
		stored, err := store.Load(context.Background())
		return err == nil && stored.AccessToken == "a2"
	}, time.Second, 10*time.Millisecond)
	require.EqualValues(t, 1, api.refreshCalls.Load())
}

func TestClient_Refresh(t *testing.T) {
	t.Run("success keeps refresh token", func(t *testing.T) {
		client, api, store := setupClient(t)
		login(t, client)

		require.True(t, client.Refresh(context.Background()))
		require.EqualValues(t, 1, api.refreshCalls.Load())

		stored, err := store.Load(context.Background())
		require.NoError(t, err)
		require.Equal(t, "a2", stored.AccessToken)
		require.Equal(t, "r1", stored.RefreshToken)
	})

	t.Run("rejected clears both tokens", func(t *testing.T) {
		client, api, store := setupClient(t)
		login(t, client)
		api.refreshStatus = http.StatusUnauthorized
		api.refreshBody = `{"detail":"Token is blacklisted","code":"token_not_valid"}`

		require.False(t, client.Refresh(context.Background()))
		_, err := store.Load(context.Background())
		require.ErrorIs(t, err, auth.ErrNotAuthenticated)
	})

	t.Run("empty access clears both tokens", func(t *testing.T) {
		client, api, store := setupClient(t)
		login(t, client)
		api.refreshBody = `{"access":""}`

		require.False(t, client.Refresh(context.Background()))
		_, err := store.Load(context.Background())
		require.ErrorIs(t, err, auth.ErrNotAuthenticated)
	})

	t.Run("no refresh token", func(t *testing.T) {
		client, api, store := setupClient(t)
		api.loginBody = `{"access":"a1"}`
		login(t, client)

		require.False(t, client.Refresh(context.Background()))
		require.EqualValues(t, 0, api.refreshCalls.Load())
		_, err := store.Load(context.Background())
		require.ErrorIs(t, err, auth.ErrNotAuthenticated)
	})

	t.Run("no session", func(t *testing.T) {
		client, api, _ := setupClient(t)
		require.False(t, client.Refresh(context.Background()))
		require.EqualValues(t, 0, api.refreshCalls.Load())
	})

	t.Run("new login during refresh is kept", func(t *testing.T) {
		client, api, store := setupClient(t)
		login(t, client)
		api.onRefresh = func() {
			_ = store.Save(context.Background(), &sessions.Session{AccessToken: "b1", RefreshToken: "s1", Role: users.RoleNurse})
		}

		require.False(t, client.Refresh(context.Background()))
		stored, err := store.Load(context.Background())
		require.NoError(t, err)
		require.Equal(t, "b1", stored.AccessToken)
		require.Equal(t, "s1", stored.RefreshToken)
	})
}

func TestClient_DoJSON(t *testing.T) {
	client, api, _ := setupClient(t)
	login(t, client)

	var out struct {
		ID   int    `json:"id"`
		Echo string `json:"echo"`
	}
	err := client.DoJSON(context.Background(), http.MethodPost, "appointments/", map[string]string{"service": "physio"}, &out)
	require.NoError(t, err)
	require.Equal(t, 1, out.ID)
	require.JSONEq(t, `{"service":"physio"}`, out.Echo)

	api.acceptToken = "never"
	err = client.DoJSON(context.Background(), http.MethodGet, "appointments/", nil, &out)
	var apiErr *auth.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	require.Equal(t, "Given token not valid for any token type", apiErr.Error())
}

func TestClient_TokenSource(t *testing.T) {
	client, _, _ := setupClient(t)

	_, err := client.TokenSource(context.Background()).Token()
	require.ErrorIs(t, err, auth.ErrNotAuthenticated)

	login(t, client)
	tok, err := client.TokenSource(context.Background()).Token()
	require.NoError(t, err)
	require.Equal(t, "a1", tok.AccessToken)
	require.Equal(t, "Bearer", tok.Type())

	require.True(t, client.Refresh(context.Background()))
	tok, err = client.TokenSource(context.Background()).Token()
	require.NoError(t, err)
	require.Equal(t, "a2", tok.AccessToken)
}

func TestClient_Current(t *testing.T) {
	client, _, _ := setupClient(t)
	login(t, client)

	session, err := client.Current(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Ada Admin", session.User.FullName)
	require.Equal(t, "/login/admin", auth.LoginPath(session.Role))
}

func TestAPIError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{name: "detail", status: http.StatusNotFound, body: `{"detail":"Not found."}`, message: "Not found."},
		{name: "fields sorted", status: http.StatusBadRequest, body: `{"title":["This field is required."],"content":["Too long.","Invalid."]}`, message: "content: Too long., Invalid.\ntitle: This field is required."},
		{name: "not json", status: http.StatusBadGateway, body: `bad gateway`, message: "request failed with status 502 Bad Gateway"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := auth.NewAPIError(tc.status, []byte(tc.body))
			require.Equal(t, tc.message, err.Error())
			require.False(t, errors.Is(err, auth.ErrSessionExpired))
		})
	}
}

func TestClient_Do_SessionReplacedWhileInFlight(t *testing.T) {
	client, api, store := setupClient(t)
	login(t, client)
	api.acceptToken = "b1"

	var once sync.Once
	api.onResource = func() {
		once.Do(func() {
			_ = store.Save(context.Background(), &sessions.Session{
				AccessToken:  "b1",
				RefreshToken: "rb",
				Role:         users.RoleNurse,
			})
		})
	}

	_, err := getAppointments(t, client)
	require.ErrorIs(t, err, auth.ErrSessionExpired)
	require.ErrorIs(t, err, auth.ErrSessionReplaced)
	require.Equal(t, int32(1), api.resourceCalls.Load())
	require.Equal(t, int32(0), api.refreshCalls.Load())
	require.Equal(t, [][]string{{"Bearer a1"}}, api.recordedHeaders())

	current, err := client.Current(context.Background())
	require.NoError(t, err)
	require.Equal(t, "b1", current.AccessToken)
	require.Equal(t, "rb", current.RefreshToken)
}

func TestClient_Do_RefusesOtherOrigins(t *testing.T) {
	client, api, _ := setupClient(t)
	login(t, client)

	var foreignCalls atomic.Int32
	foreign := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		foreignCalls.Add(1)
	}))
	t.Cleanup(foreign.Close)

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, foreign.URL+"/appointments/", nil)
	require.NoError(t, err)
	_, err = client.Do(req)
	require.ErrorIs(t, err, auth.ErrForeignOrigin)
	require.Equal(t, int32(0), foreignCalls.Load())
	require.Equal(t, int32(0), api.resourceCalls.Load())

	resp, err := getAppointments(t, client)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
