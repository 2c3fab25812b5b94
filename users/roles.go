package users

import (
	"fmt"
	"strings"

	autherrors "github.com/jrsteele09/homecare-session/internal/errors"
)

// Role scopes a login to one of the console's audiences
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleNurse   Role = "nurse"
	RolePatient Role = "patient"
)

// Roles lists every role in display order
var Roles = []Role{RoleAdmin, RoleNurse, RolePatient}

// ParseRole accepts a role name in any case
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", autherrors.ErrUnknownRole, s)
	}
	return r, nil
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleNurse, RolePatient:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// Title is the capitalised role name used in user facing messages
func (r Role) Title() string {
	if r == "" {
		return ""
	}
	return strings.ToUpper(string(r[:1])) + string(r[1:])
}

// LoginPath is the console route a user of this role is sent to when their session ends
func (r Role) LoginPath() string {
	return "/login/" + string(r)
}
