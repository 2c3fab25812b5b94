package config

type Config interface {
	EnvConfig
	ClientConfig
	StoreConfig
	TokenConfig
	CorsConfig
	SeedConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
	GetAPIBaseURL() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
	GetPreflightMaxAge() string
}

type mainConfig struct {
	EnvVars
	Client
	Store
	Token
	Cors
	Seed
}

func New() Config {
	return mainConfig{}
}
