package sessions

import "context"

// Store owns the lifecycle of the one session of a console context.
// Implementations must be safe for concurrent use.
type Store interface {
	// Load returns the current session or autherrors.ErrNotAuthenticated when there is none
	Load(ctx context.Context) (*Session, error)

	// Save replaces any existing session
	Save(ctx context.Context, session *Session) error

	// ReplaceAccessToken swaps in a new access token, keeping the refresh token, but only
	// while the stored refresh token is still refreshToken. Otherwise it returns
	// autherrors.ErrSessionReplaced and leaves the store untouched.
	ReplaceAccessToken(ctx context.Context, refreshToken, accessToken string) error

	// Clear drops both tokens and the cached profile. Clearing an empty store is not an error.
	Clear(ctx context.Context) error
}
