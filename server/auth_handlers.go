package server

import (
	"net/http"
	"strings"

	autherrors "github.com/jrsteele09/homecare-session/internal/errors"
	"github.com/jrsteele09/homecare-session/token"
	"github.com/jrsteele09/homecare-session/users"
	"github.com/rs/zerolog/log"
)

// LoginHandler authenticates a user against the role in the path. Admin logins answer with the
// nested token layout, nurse and patient logins with the flat one, as the production API does.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role, err := users.ParseRole(r.PathValue("role"))
		if err != nil {
			writeJSONError(w, http.StatusNotFound, "Unknown login role.", "not_found")
			return
		}

		var req token.LoginRequest
		if !decodeJSON(w, r, &req) {
			s.metrics.ObserveLogin(role.String(), "bad_request")
			return
		}
		req.UserID = strings.TrimSpace(req.UserID)

		missing := map[string][]string{}
		if req.UserID == "" {
			missing["user_id"] = []string{"This field is required."}
		}
		if req.Password == "" {
			missing["password"] = []string{"This field is required."}
		}
		if len(missing) > 0 {
			s.metrics.ObserveLogin(role.String(), "bad_request")
			writeFieldErrors(w, missing)
			return
		}

		user, err := s.repos.Users.GetByLogin(role, req.UserID)
		if err != nil || !user.CheckPassword(req.Password) {
			s.metrics.ObserveLogin(role.String(), "rejected")
			writeJSONError(w, http.StatusUnauthorized, "No active account found with the given credentials", "")
			return
		}
		if user.Blocked {
			s.metrics.ObserveLogin(role.String(), "blocked")
			writeJSONError(w, http.StatusForbidden, "User account is disabled.", "user_inactive")
			return
		}

		pair, err := s.tokens.Issue(user)
		if err != nil {
			log.Error().Err(err).Str("role", role.String()).Msg("failed to issue tokens")
			s.metrics.ObserveLogin(role.String(), "error")
			writeJSONError(w, http.StatusInternalServerError, "Could not issue tokens.", "")
			return
		}

		shape := token.ShapeFlat
		if role == users.RoleAdmin {
			shape = token.ShapeNested
		}

		s.metrics.ObserveLogin(role.String(), "success")
		log.Info().Str("role", role.String()).Str("user_id", user.UserID).Msg("login")
		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, http.StatusOK, token.NewLoginResponse(shape, pair, user.Profile()))
	}
}

// RefreshHandler mints a new access token. Refresh tokens are not rotated.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req token.RefreshRequest
		if !decodeJSON(w, r, &req) {
			s.metrics.ObserveRefresh("bad_request")
			return
		}
		if strings.TrimSpace(req.Refresh) == "" {
			s.metrics.ObserveRefresh("bad_request")
			writeFieldErrors(w, map[string][]string{"refresh": {"This field is required."}})
			return
		}

		access, err := s.tokens.Refresh(req.Refresh)
		if err != nil {
			s.metrics.ObserveRefresh("rejected")
			detail := "Token is invalid or expired"
			if autherrors.Is(err, autherrors.ErrUserBlocked) {
				detail = "User account is disabled."
			}
			writeJSONError(w, http.StatusUnauthorized, detail, tokenNotValidCode)
			return
		}

		s.metrics.ObserveRefresh("success")
		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, http.StatusOK, token.RefreshResponse{Access: access})
	}
}
