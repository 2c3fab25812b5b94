package config

import (
	"slices"
	"strconv"
	"strings"
	"time"
)

type Cors struct{}

var _ CorsConfig = Cors{}

// AllowedOrigins is the set of browser origins allowed to call the API. "*" allows any origin.
type AllowedOrigins map[string]struct{}

const anyOrigin = "*"

func (a AllowedOrigins) IsAllowedOrigin(origin string) bool {
	_, ok := a[origin]
	return ok
}

// AllowsAnyOrigin reports whether the wildcard origin is configured
func (a AllowedOrigins) AllowsAnyOrigin() bool {
	return a.IsAllowedOrigin(anyOrigin)
}

func (a AllowedOrigins) String() string {
	origins := make([]string, 0, len(a))
	for origin := range a {
		origins = append(origins, origin)
	}
	slices.Sort(origins)
	return strings.Join(origins, ", ")
}

// GetAllowedOrigins reads a comma separated ALLOWED_ORIGINS list. The console dev server is allowed by default.
func (Cors) GetAllowedOrigins() AllowedOrigins {
	origins := AllowedOrigins{}
	for _, origin := range strings.Split(GetEnv("ALLOWED_ORIGINS", "http://localhost:3000"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins[origin] = struct{}{}
		}
	}
	return origins
}

func (Cors) GetAllowedMethods() string {
	return "GET, POST, PUT, PATCH, DELETE, OPTIONS"
}

func (Cors) GetAllowedHeaders() string {
	return "Content-Type, Authorization, " + requestIDHeader
}

// GetPreflightMaxAge is how long browsers may cache a preflight answer, in whole seconds
func (Cors) GetPreflightMaxAge() string {
	return strconv.Itoa(int(GetDuration("CORS_MAX_AGE", 24*time.Hour).Seconds()))
}

const requestIDHeader = "X-Request-ID"
