package auth

import (
	"github.com/jrsteele09/homecare-session/users"
)

const DefaultRefreshPath = "/auth/token/refresh/"

// Endpoints are the API paths used by the Session Client, relative to the base URL
type Endpoints struct {
	Login   map[users.Role]string
	Refresh string
}

// DefaultEndpoints returns /auth/login/{role}/ for every role and /auth/token/refresh/
func DefaultEndpoints() Endpoints {
	login := make(map[users.Role]string, len(users.Roles))
	for _, role := range users.Roles {
		login[role] = "/auth/login/" + role.String() + "/"
	}
	return Endpoints{Login: login, Refresh: DefaultRefreshPath}
}

// LoginPath returns the login endpoint for role, falling back to the default layout
func (e Endpoints) LoginPath(role users.Role) string {
	if p, ok := e.Login[role]; ok && p != "" {
		return p
	}
	return "/auth/login/" + role.String() + "/"
}

func (e Endpoints) RefreshPath() string {
	if e.Refresh == "" {
		return DefaultRefreshPath
	}
	return e.Refresh
}
