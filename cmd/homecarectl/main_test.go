package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/jrsteele09/homecare-session/internal/config"
	"github.com/jrsteele09/homecare-session/resources"
	"github.com/jrsteele09/homecare-session/server"
	refreshrepofake "github.com/jrsteele09/homecare-session/token/refresh/repofake"
	fakeuserrepo "github.com/jrsteele09/homecare-session/users/repofake"
	"github.com/stretchr/testify/require"
)

type cli struct {
	t       *testing.T
	cfg     config.Config
	baseURL string
	redis   *miniredis.Miniredis
}

func setupCLI(t *testing.T) *cli {
	t.Helper()
	mr := miniredis.RunT(t)
	t.Setenv("ENV", "TEST")
	t.Setenv("REDIS_ADDR", mr.Addr())
	t.Setenv("SESSION_KEY", "homecare:session:test")
	t.Setenv("HOMECARE_PASSWORD", "")

	cfg := config.New()
	srv, err := server.New(cfg, server.Repos{
		Users:         fakeuserrepo.NewFakeUserRepo(),
		RefreshTokens: refreshrepofake.NewFakeRefreshTokenRepo(),
	})
	require.NoError(t, err)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	return &cli{t: t, cfg: cfg, baseURL: ts.URL, redis: mr}
}

func (c *cli) run(args ...string) (int, string, string) {
	c.t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), c.cfg, append([]string{"-api", c.baseURL}, args...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestCLI_SessionSurvivesAcrossRuns(t *testing.T) {
	c := setupCLI(t)

	code, out, _ := c.run("-role", "nurse", "-user", "N-001", "-password", "nurse123", "login")
	require.Equal(t, exitOK, code)
	require.Equal(t, "logged in as Grace Nurse (nurse)\n", out)
	require.True(t, c.redis.Exists("homecare:session:test"))

	code, out, _ = c.run("whoami")
	require.Equal(t, exitOK, code)
	require.Contains(t, out, "Grace Nurse")
	require.Contains(t, out, "user id: N-001")

	code, out, _ = c.run("list", "patients")
	require.Equal(t, exitOK, code)
	var patients []resources.Patient
	require.NoError(t, json.Unmarshal([]byte(out), &patients))
	require.Len(t, patients, 1)
	require.Equal(t, "Peter Patient", patients[0].FullName)

	code, out, _ = c.run("refresh")
	require.Equal(t, exitOK, code)
	require.Equal(t, "access token refreshed\n", out)

	code, _, _ = c.run("logout")
	require.Equal(t, exitOK, code)
	require.False(t, c.redis.Exists("homecare:session:test"))

	code, _, errOut := c.run("whoami")
	require.Equal(t, exitSession, code)
	require.Contains(t, errOut, "/login/admin")
}

func TestCLI_AutoLoginAndAdminCommands(t *testing.T) {
	c := setupCLI(t)
	t.Setenv("HOMECARE_PASSWORD", "admin123")

	code, out, errOut := c.run("-user", "admin", "list", "billings")
	require.Equal(t, exitOK, code, errOut)
	require.Equal(t, "[]\n", out)
	require.Contains(t, errOut, "logged in as Console Admin (admin)")

	// the stored session is reused, so no second login notice
	code, out, errOut = c.run("-user", "admin", "list", "nurses")
	require.Equal(t, exitOK, code, errOut)
	require.NotContains(t, errOut, "logged in as")
	var nurses []resources.Nurse
	require.NoError(t, json.Unmarshal([]byte(out), &nurses))
	require.Len(t, nurses, 1)

	code, out, _ = c.run("get", "nurses", "1")
	require.Equal(t, exitOK, code)
	var nurse resources.Nurse
	require.NoError(t, json.Unmarshal([]byte(out), &nurse))
	require.Equal(t, "N-001", nurse.UserID)

	code, out, _ = c.run("delete", "patients", "1")
	require.Equal(t, exitOK, code)
	require.Equal(t, "deleted patients 1\n", out)

	code, _, errOut = c.run("get", "patients", "1")
	require.Equal(t, exitError, code)
	require.Contains(t, errOut, "Not found.")
}

func TestCLI_Errors(t *testing.T) {
	c := setupCLI(t)

	tests := []struct {
		name string
		args []string
		code int
		want string
	}{
		{name: "no command", args: nil, code: exitUsage, want: "usage: homecarectl"},
		{name: "unknown command", args: []string{"dance"}, code: exitUsage, want: `unknown command "dance"`},
		{name: "unknown collection", args: []string{"list", "invoices"}, code: exitUsage, want: `unknown collection "invoices"`},
		{name: "bad id", args: []string{"get", "nurses", "x"}, code: exitUsage, want: `invalid id "x"`},
		{name: "login without password", args: []string{"-user", "admin", "login"}, code: exitUsage, want: "login needs -user and -password"},
		{name: "unknown role", args: []string{"-role", "doctor", "-user", "x", "-password", "y", "login"}, code: exitUsage, want: `unknown role "doctor"`},
		{name: "bad credentials", args: []string{"-user", "admin", "-password", "wrong", "login"}, code: exitError, want: "No active account found with the given credentials"},
		{name: "not logged in", args: []string{"list", "nurses"}, code: exitSession, want: "log in again"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, _, errOut := c.run(tc.args...)
			require.Equal(t, tc.code, code)
			require.Contains(t, errOut, tc.want)
		})
	}
}

func TestCLI_PrintsMetrics(t *testing.T) {
	c := setupCLI(t)

	code, _, errOut := c.run("-metrics", "-role", "patient", "-user", "P-001", "-password", "patient123", "login")
	require.Equal(t, exitOK, code)
	require.Contains(t, errOut, `homecare_client_logins_total{result="success",role="patient"} 1`)
}
