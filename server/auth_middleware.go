package server

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/jrsteele09/homecare-session/token/jwt"
	"github.com/jrsteele09/homecare-session/users"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeyClaims stores parsed token claims
const ContextKeyClaims ContextKey = "claims"

const (
	invalidTokenDetail = "Given token not valid for any token type"
	tokenNotValidCode  = "token_not_valid"
)

// RequireAuth is middleware that validates a Bearer access token
func (s *Server) RequireAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeJSONError(w, http.StatusUnauthorized, "Authentication credentials were not provided.", "not_authenticated")
				return
			}

			scheme, bearer, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(bearer) == "" {
				writeJSONError(w, http.StatusUnauthorized, invalidTokenDetail, tokenNotValidCode)
				return
			}

			claims, err := s.tokens.Verify(strings.TrimSpace(bearer))
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, invalidTokenDetail, tokenNotValidCode)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyClaims, claims)
			next(w, r.WithContext(ctx))
		}
	}
}

// RequireRole rejects callers whose token role is not one of roles. It must run after RequireAuth.
func (s *Server) RequireRole(roles ...users.Role) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil || !slices.Contains(roles, claims.Role) {
				writeJSONError(w, http.StatusForbidden, "You do not have permission to perform this action.", "permission_denied")
				return
			}
			next(w, r)
		}
	}
}

// ClaimsFromContext returns the claims stored by RequireAuth, or nil
func ClaimsFromContext(ctx context.Context) *jwt.Claims {
	claims, _ := ctx.Value(ContextKeyClaims).(*jwt.Claims)
	return claims
}
