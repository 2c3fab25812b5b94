package token

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// ExpiresAt reads the exp claim of an access token without verifying it.
// The client cannot verify the API's signature; the value is only a hint for
// logging and oauth2.Token interop. ok is false for opaque or exp-less tokens.
func ExpiresAt(accessToken string) (exp time.Time, ok bool) {
	claims := jwtlib.RegisteredClaims{}
	if _, _, err := jwtlib.NewParser().ParseUnverified(accessToken, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
