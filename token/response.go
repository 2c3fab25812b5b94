package token

import (
	"encoding/json"
	"fmt"
	"strings"

	autherrors "github.com/jrsteele09/homecare-session/internal/errors"
	"github.com/jrsteele09/homecare-session/users"
)

// Pair is an access/refresh token pair
type Pair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// LoginRequest is the body sent to a role login endpoint
type LoginRequest struct {
	UserID   string `json:"user_id"`
	Password string `json:"password"`
}

// LoginResponse covers both shapes the login endpoints return:
// nested {"tokens": {"access", "refresh"}, "user"} and flat {"access", "refresh", "user"}.
type LoginResponse struct {
	Tokens  *Pair          `json:"tokens,omitempty"`
	Access  string         `json:"access,omitempty"`
	Refresh string         `json:"refresh,omitempty"`
	User    *users.Profile `json:"user,omitempty"`
}

// Shape selects how a login response is laid out
type Shape int

const (
	ShapeNested Shape = iota
	ShapeFlat
)

// NewLoginResponse lays out pair and profile in the requested shape
func NewLoginResponse(shape Shape, pair Pair, profile users.Profile) LoginResponse {
	if shape == ShapeFlat {
		return LoginResponse{Access: pair.Access, Refresh: pair.Refresh, User: &profile}
	}
	return LoginResponse{Tokens: &pair, User: &profile}
}

// Pair returns the tokens, preferring the nested object and falling back per field to the flat keys
func (r LoginResponse) Pair() Pair {
	p := Pair{Access: r.Access, Refresh: r.Refresh}
	if r.Tokens != nil {
		if r.Tokens.Access != "" {
			p.Access = r.Tokens.Access
		}
		if r.Tokens.Refresh != "" {
			p.Refresh = r.Tokens.Refresh
		}
	}
	return p
}

// ParseLoginResponse decodes a successful login body. An access token is required.
func ParseLoginResponse(data []byte) (*LoginResponse, Pair, error) {
	var resp LoginResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, Pair{}, fmt.Errorf("%w: login body: %w", autherrors.ErrMalformedResponse, err)
	}
	pair := resp.Pair()
	if strings.TrimSpace(pair.Access) == "" {
		return nil, Pair{}, fmt.Errorf("%w: login succeeded but missing token", autherrors.ErrMalformedResponse)
	}
	return &resp, pair, nil
}

// RefreshRequest is the body sent to the refresh endpoint
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// RefreshResponse carries the newly minted access token
type RefreshResponse struct {
	Access string `json:"access"`
}

// ParseRefreshResponse decodes a successful refresh body. An access token is required.
func ParseRefreshResponse(data []byte) (string, error) {
	var resp RefreshResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("%w: refresh body: %w", autherrors.ErrMalformedResponse, err)
	}
	if strings.TrimSpace(resp.Access) == "" {
		return "", fmt.Errorf("%w: refresh response has no access token", autherrors.ErrMalformedResponse)
	}
	return resp.Access, nil
}

// ErrorResponse is the API's error body
type ErrorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code,omitempty"`
}
