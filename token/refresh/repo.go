package refresh

import (
	"time"

	"github.com/jrsteele09/homecare-session/users"
)

// StoredRefreshToken represents the server-side storage of refresh token metadata.
// The client only receives the Token field (a random string).
type StoredRefreshToken struct {
	Token  string     // The actual random token string (sent to client)
	UserID users.ID   // Server-side metadata
	Role   users.Role // Server-side metadata
	Iat    time.Time  // Server-side metadata (issued at time)
}

// Repo manages server-side storage of refresh token metadata keyed by the token string.
type Repo interface {
	Upsert(refreshToken *StoredRefreshToken) error
	Delete(token string) error
	Get(token string) (*StoredRefreshToken, error)
	GetByUserID(userID users.ID) (*StoredRefreshToken, error)
}
