package auth

import (
	"context"

	"github.com/jrsteele09/homecare-session/sessions"
	"golang.org/x/oauth2"
)

// TokenSource exposes the stored access token as an oauth2.TokenSource. The token is read from
// the store on every call, so refreshes done by the Client are picked up.
func (c *Client) TokenSource(ctx context.Context) oauth2.TokenSource {
	return &storeTokenSource{ctx: ctx, store: c.store}
}

type storeTokenSource struct {
	ctx   context.Context
	store sessions.Store
}

func (s *storeTokenSource) Token() (*oauth2.Token, error) {
	session, err := s.store.Load(s.ctx)
	if err != nil || !session.Authenticated() {
		return nil, &AuthError{Kind: KindNotAuthenticated, Message: "not authenticated", Err: err}
	}
	return session.OAuth2Token(), nil
}
