package sessions

import (
	"time"

	"github.com/jrsteele09/homecare-session/token"
	"github.com/jrsteele09/homecare-session/users"
	"golang.org/x/oauth2"
)

// Session pairs the tokens of one authenticated console context with the cached user identity.
// It is created by a login, has its access token replaced by refreshes and is destroyed by
// logout or an unrecoverable refresh failure.
type Session struct {
	AccessToken  string        `json:"access"`            // Short-lived bearer credential
	RefreshToken string        `json:"refresh,omitempty"` // Used only to mint new access tokens
	User         users.Profile `json:"user"`              // Cached profile from the login response
	Role         users.Role    `json:"role"`              // Role of the login endpoint that created the session
	CreatedAt    time.Time     `json:"created_at"`
}

// Authenticated reports whether the session can authorize a request
func (s *Session) Authenticated() bool {
	return s != nil && s.AccessToken != ""
}

// CanRefresh reports whether a refresh may be attempted
func (s *Session) CanRefresh() bool {
	return s != nil && s.RefreshToken != ""
}

// OAuth2Token renders the session as an oauth2 bearer token. Expiry comes from the
// access token's exp claim when it is a JWT and is left zero otherwise.
func (s *Session) OAuth2Token() *oauth2.Token {
	t := &oauth2.Token{
		AccessToken:  s.AccessToken,
		TokenType:    "Bearer",
		RefreshToken: s.RefreshToken,
	}
	if exp, ok := token.ExpiresAt(s.AccessToken); ok {
		t.Expiry = exp
	}
	return t
}
