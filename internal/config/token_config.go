package config

import "time"

type TokenConfig interface {
	GetSigningSecret() string
	GetIssuer() string
	GetRefreshTokenLength() int
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
}

type Token struct{}

var _ TokenConfig = Token{}

func (Token) GetSigningSecret() string {
	return GetEnv("TOKEN_SIGNING_SECRET", "dev-only-signing-secret")
}

func (Token) GetIssuer() string {
	return GetEnv("TOKEN_ISSUER", "homecare-devapi")
}

func (Token) GetRefreshTokenLength() int {
	return 32 // 32 bytes = 256 bits
}

func (Token) GetAccessTokenExpiry() time.Duration {
	return GetDuration("ACCESS_TOKEN_EXPIRY", 5*time.Minute)
}

func (Token) GetRefreshTokenExpiry() time.Duration {
	return GetDuration("REFRESH_TOKEN_EXPIRY", 24*time.Hour)
}
