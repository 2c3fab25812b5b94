package config

import "time"

const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
)

type StoreConfig interface {
	GetSessionBackend() string
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
	GetSessionKey() string
	GetSessionTTL() time.Duration
}

type Store struct{}

var _ StoreConfig = Store{}

// GetSessionBackend selects the session store. Redis is chosen implicitly when REDIS_ADDR is set.
func (s Store) GetSessionBackend() string {
	if backend := GetEnv("SESSION_BACKEND", ""); backend != "" {
		return backend
	}
	if s.GetRedisAddr() != "" {
		return SessionBackendRedis
	}
	return SessionBackendMemory
}

func (Store) GetRedisAddr() string {
	return GetEnv("REDIS_ADDR", "")
}

func (Store) GetRedisPassword() string {
	return GetEnv("REDIS_PASSWORD", "")
}

func (Store) GetRedisDB() int {
	return GetInt("REDIS_DB", 0)
}

// GetSessionKey names the redis hash holding the session, one per console context.
func (Store) GetSessionKey() string {
	return GetEnv("SESSION_KEY", "homecare:session:default")
}

func (Store) GetSessionTTL() time.Duration {
	return GetDuration("SESSION_TTL", 24*time.Hour)
}
