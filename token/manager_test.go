package token_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/homecare-session/internal/config"
	autherrors "github.com/jrsteele09/homecare-session/internal/errors"
	"github.com/jrsteele09/homecare-session/token"
	"github.com/jrsteele09/homecare-session/token/jwt"
	"github.com/jrsteele09/homecare-session/token/refresh"
	refreshrepofake "github.com/jrsteele09/homecare-session/token/refresh/repofake"
	"github.com/jrsteele09/homecare-session/users"
	fakeuserrepo "github.com/jrsteele09/homecare-session/users/repofake"
	"github.com/stretchr/testify/require"
)

// testClock pins the token packages to a controllable time
func testClock(t *testing.T) *time.Time {
	t.Helper()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	prevJWT, prevRefresh := jwt.NowTimeFunc, refresh.NowTimeFunc
	jwt.NowTimeFunc = func() time.Time { return now }
	refresh.NowTimeFunc = func() time.Time { return now }
	t.Cleanup(func() {
		jwt.NowTimeFunc = prevJWT
		refresh.NowTimeFunc = prevRefresh
	})
	return &now
}

func setupManager(t *testing.T) (*token.Manager, users.UserRepo, *users.User) {
	t.Helper()
	ur := fakeuserrepo.NewFakeUserRepo()
	u := &users.User{UserID: "u1", FullName: "Ada Admin", Role: users.RoleAdmin}
	require.NoError(t, ur.Upsert(u))
	return token.NewManager(config.Token{}, ur, refreshrepofake.NewFakeRefreshTokenRepo()), ur, u
}

func TestManager_IssueAndVerify(t *testing.T) {
	now := testClock(t)
	m, _, u := setupManager(t)

	pair, err := m.Issue(u)
	require.NoError(t, err)
	require.NotEmpty(t, pair.Access)
	require.Len(t, pair.Refresh, 64)

	claims, err := m.Verify(pair.Access)
	require.NoError(t, err)
	require.Equal(t, "u1", claims.UserID)
	require.Equal(t, users.RoleAdmin, claims.Role)
	require.Equal(t, u.ID.String(), claims.Subject)

	exp, ok := token.ExpiresAt(pair.Access)
	require.True(t, ok)
	require.Equal(t, now.Add(config.Token{}.GetAccessTokenExpiry()).Unix(), exp.Unix())

	t.Run("expired access token", func(t *testing.T) {
		*now = now.Add(config.Token{}.GetAccessTokenExpiry() + time.Second)
		_, err := m.Verify(pair.Access)
		require.ErrorIs(t, err, autherrors.ErrTokenExpired)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Verify("not-a-jwt")
		require.ErrorIs(t, err, autherrors.ErrInvalidToken)

		_, err = m.Verify("")
		require.ErrorIs(t, err, autherrors.ErrInvalidToken)
	})
}

func TestManager_Verify_RejectsForeignSignature(t *testing.T) {
	testClock(t)
	m, _, u := setupManager(t)

	foreign, err := jwt.NewCreator(config.Token{}, jwt.NewHMACSigner("someone-else")).CreateAccessToken(u)
	require.NoError(t, err)

	_, err = m.Verify(foreign)
	require.ErrorIs(t, err, autherrors.ErrInvalidToken)
}

func TestManager_Refresh(t *testing.T) {
	now := testClock(t)
	m, ur, u := setupManager(t)

	pair, err := m.Issue(u)
	require.NoError(t, err)

	t.Run("refresh does not rotate", func(t *testing.T) {
		*now = now.Add(time.Minute)
		access, err := m.Refresh(pair.Refresh)
		require.NoError(t, err)
		require.NotEqual(t, pair.Access, access)

		again, err := m.Refresh(pair.Refresh)
		require.NoError(t, err)
		require.NotEmpty(t, again)
	})

	t.Run("unknown token", func(t *testing.T) {
		_, err := m.Refresh("deadbeef")
		require.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
	})

	t.Run("new login invalidates previous refresh token", func(t *testing.T) {
		second, err := m.Issue(u)
		require.NoError(t, err)

		_, err = m.Refresh(pair.Refresh)
		require.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
		pair = second
	})

	t.Run("blocked user", func(t *testing.T) {
		require.NoError(t, ur.SetBlocked(u.ID, true))
		_, err := m.Refresh(pair.Refresh)
		require.ErrorIs(t, err, autherrors.ErrUserBlocked)

		require.NoError(t, ur.SetBlocked(u.ID, false))
		_, err = m.Refresh(pair.Refresh)
		require.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
	})

	t.Run("expired refresh token", func(t *testing.T) {
		fresh, err := m.Issue(u)
		require.NoError(t, err)

		*now = now.Add(config.Token{}.GetRefreshTokenExpiry() + time.Second)
		_, err = m.Refresh(fresh.Refresh)
		require.ErrorIs(t, err, autherrors.ErrRefreshTokenExpired)

		_, err = m.Refresh(fresh.Refresh)
		require.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
	})

	t.Run("invalidate", func(t *testing.T) {
		fresh, err := m.Issue(u)
		require.NoError(t, err)
		m.InvalidateRefreshToken(fresh.Refresh)

		_, err = m.Refresh(fresh.Refresh)
		require.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
	})
}

func TestExpiresAt_OpaqueToken(t *testing.T) {
	_, ok := token.ExpiresAt("opaque")
	require.False(t, ok)
}
