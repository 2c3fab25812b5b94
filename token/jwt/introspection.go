package jwt

import (
	"fmt"
	"strings"

	jwtlib "github.com/golang-jwt/jwt/v5"
	autherrors "github.com/jrsteele09/homecare-session/internal/errors"
)

// Inspector validates access tokens presented to the API
type Inspector struct {
	signer Signer
	issuer string
}

// NewInspector creates a new JWT inspector
func NewInspector(signer Signer, issuer string) *Inspector {
	return &Inspector{
		signer: signer,
		issuer: issuer,
	}
}

// Introspect verifies the signature, expiry, issuer and token type of rawToken
func (i *Inspector) Introspect(rawToken string) (*Claims, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, autherrors.ErrInvalidToken
	}

	claims := &Claims{}
	token, err := jwtlib.ParseWithClaims(rawToken, claims, i.signer.GetVerificationKey,
		jwtlib.WithValidMethods([]string{i.signer.GetSigningMethod().Alg()}),
		jwtlib.WithIssuer(i.issuer),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithTimeFunc(NowTimeFunc),
	)
	if err != nil {
		if autherrors.Is(err, jwtlib.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", autherrors.ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %w", autherrors.ErrInvalidToken, err)
	}
	if !token.Valid || claims.TokenType != accessTokenType {
		return nil, autherrors.ErrInvalidToken
	}
	return claims, nil
}
