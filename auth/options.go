package auth

import (
	"net/http"
	"time"

	"github.com/jrsteele09/homecare-session/internal/metrics"
	"github.com/rs/zerolog"
)

const (
	defaultRequestTimeout = 30 * time.Second
	defaultRefreshTimeout = 10 * time.Second
)

// ClientOption defines a function type to modify the Client instance.
type ClientOption func(*Client)

// WithHTTPClient replaces the default http.Client (30s timeout)
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithMetrics(m *metrics.ClientMetrics) ClientOption {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithEndpoints overrides the login and refresh paths
func WithEndpoints(endpoints Endpoints) ClientOption {
	return func(c *Client) {
		c.endpoints = endpoints
	}
}

// WithRefreshTimeout bounds the shared refresh call, which is not cancelled by any single caller
func WithRefreshTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.refreshTimeout = d
		}
	}
}

// WithNowFunc sets the now time function (primarily for testing)
func WithNowFunc(nowFunc func() time.Time) ClientOption {
	return func(c *Client) {
		c.nowFunc = nowFunc
	}
}
