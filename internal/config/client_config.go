package config

import "time"

type ClientConfig interface {
	GetRequestTimeout() time.Duration
	GetRefreshTimeout() time.Duration
}

type Client struct{}

var _ ClientConfig = Client{}

func (Client) GetRequestTimeout() time.Duration {
	return GetDuration("REQUEST_TIMEOUT", 30*time.Second)
}

// GetRefreshTimeout bounds the shared refresh call, which outlives any single caller's context.
func (Client) GetRefreshTimeout() time.Duration {
	return GetDuration("REFRESH_TIMEOUT", 10*time.Second)
}
