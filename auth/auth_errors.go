package auth

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	autherrors "github.com/jrsteele09/homecare-session/internal/errors"
	"github.com/jrsteele09/homecare-session/users"
)

var (
	ErrInvalidCredentials = autherrors.ErrInvalidCredentials
	ErrNotAuthenticated   = autherrors.ErrNotAuthenticated
	ErrSessionExpired     = autherrors.ErrSessionExpired
	ErrNetwork            = autherrors.ErrNetwork
	ErrUnknownRole        = autherrors.ErrUnknownRole
	ErrMalformedResponse  = autherrors.ErrMalformedResponse
	ErrSessionReplaced    = autherrors.ErrSessionReplaced
	ErrForeignOrigin      = autherrors.ErrForeignOrigin
)

// Kind classifies an AuthError
type Kind int

const (
	KindInvalidCredentials Kind = iota + 1 // Login rejected or unusable login response
	KindNotAuthenticated                   // No session; the caller must log in first
	KindSessionExpired                     // A 401 could not be recovered by a refresh
)

func (k Kind) String() string {
	switch k {
	case KindInvalidCredentials:
		return "invalid credentials"
	case KindNotAuthenticated:
		return "not authenticated"
	case KindSessionExpired:
		return "session expired"
	}
	return "auth error"
}

func (k Kind) sentinel() error {
	switch k {
	case KindInvalidCredentials:
		return ErrInvalidCredentials
	case KindNotAuthenticated:
		return ErrNotAuthenticated
	case KindSessionExpired:
		return ErrSessionExpired
	}
	return nil
}

// AuthError is a terminal authentication failure. Callers show Error() to the user and,
// for KindNotAuthenticated and KindSessionExpired, send them to LoginPath().
type AuthError struct {
	Kind       Kind
	Role       users.Role // Role of the login involved, when known
	StatusCode int        // HTTP status that caused the error, 0 when no response was involved
	Message    string     // Server provided detail or a generic message
	Err        error      // Underlying cause, if any
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Err.Error()
	}
	return e.Kind.String()
}

// Unwrap exposes the kind's sentinel so errors.Is(err, ErrSessionExpired) and friends work
func (e *AuthError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := e.Kind.sentinel(); s != nil {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// LoginPath is the console route to redirect to, falling back to the admin login
func (e *AuthError) LoginPath() string {
	if e.Role.Valid() {
		return e.Role.LoginPath()
	}
	return users.RoleAdmin.LoginPath()
}

// NetworkError is a transport level failure: no HTTP response was received
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() []error {
	return []error{ErrNetwork, e.Err}
}

// APIError is a non-2xx response from a resource endpoint
type APIError struct {
	StatusCode int
	Detail     string              // The "detail" field, when present
	Fields     map[string][]string // Field validation errors keyed by field name
}

// NewAPIError decodes an error body. Bodies that are not JSON objects leave Detail and Fields empty.
func NewAPIError(statusCode int, body []byte) *APIError {
	e := &APIError{StatusCode: statusCode}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return e
	}
	for key, value := range raw {
		messages := decodeMessages(value)
		if len(messages) == 0 {
			continue
		}
		if key == "detail" {
			e.Detail = strings.Join(messages, ", ")
			continue
		}
		if e.Fields == nil {
			e.Fields = make(map[string][]string)
		}
		e.Fields[key] = messages
	}
	return e
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		lines := make([]string, 0, len(keys))
		for _, k := range keys {
			lines = append(lines, k+": "+strings.Join(e.Fields[k], ", "))
		}
		return strings.Join(lines, "\n")
	}
	return fmt.Sprintf("request failed with status %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// decodeMessages accepts a string, a list of strings or a scalar
func decodeMessages(raw json.RawMessage) []string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return nil
		}
		return []string{s}
	}
	var list []any
	if err := json.Unmarshal(raw, &list); err == nil {
		out := make([]string, 0, len(list))
		for _, v := range list {
			out = append(out, fmt.Sprint(v))
		}
		return out
	}
	var scalar any
	if err := json.Unmarshal(raw, &scalar); err == nil && scalar != nil {
		if _, isObject := scalar.(map[string]any); !isObject {
			return []string{fmt.Sprint(scalar)}
		}
	}
	return nil
}

// loginFailureMessage picks the message shown for a rejected login
func loginFailureMessage(role users.Role, body []byte) string {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err == nil {
		for _, key := range []string{"detail", "error", "user_id", "password", "non_field_errors"} {
			if messages := decodeMessages(raw[key]); len(messages) > 0 {
				return strings.Join(messages, ", ")
			}
		}
	}
	return role.Title() + " login failed"
}
