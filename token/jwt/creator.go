package jwt

import (
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/homecare-session/internal/config"
	"github.com/jrsteele09/homecare-session/users"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

const accessTokenType = "access"

// Claims carried by an access token. Role and UserID let the API scope data to the caller
// without a user lookup.
type Claims struct {
	TokenType string     `json:"token_type"`
	UserID    string     `json:"user_id"`
	FullName  string     `json:"full_name,omitempty"`
	Role      users.Role `json:"role"`
	jwtlib.RegisteredClaims
}

// Creator handles access token creation
type Creator struct {
	config config.TokenConfig
	signer Signer
}

// NewCreator creates a new JWT creator
func NewCreator(cfg config.TokenConfig, signer Signer) *Creator {
	return &Creator{
		config: cfg,
		signer: signer,
	}
}

// CreateAccessToken creates a short-lived bearer token for user
func (c *Creator) CreateAccessToken(user *users.User) (string, error) {
	now := NowTimeFunc()
	claims := Claims{
		TokenType: accessTokenType,
		UserID:    user.UserID,
		FullName:  user.FullName,
		Role:      user.Role,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Issuer:    c.config.GetIssuer(),
			Subject:   user.ID.String(),
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(c.config.GetAccessTokenExpiry())),
			ID:        uuid.New().String(), // Unique token ID
		},
	}

	signed, err := c.signer.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("failed to sign JWT token: %w", err)
	}
	return signed, nil
}
