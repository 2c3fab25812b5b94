package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	portEnvVar     = "PORT"
	appNameVar     = "APP_NAME"
	logLevelVar    = "LOG_LEVEL"
	apiBaseURLVar  = "API_BASE_URL"
	localAPIURLVar = "LOCAL_API_URL"
	prodAPIURLVar  = "PROD_API_URL"
	defaultAPIBase = "http://127.0.0.1:8000/api"
	devEnvironment = "DEV"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8000")
	if !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Homecare API")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return devEnvironment
	}
	return env
}

func (EnvVars) GetLogLevel() string {
	return GetEnv(logLevelVar, "info")
}

// GetAPIBaseURL returns the API root the session client talks to.
// API_BASE_URL wins; otherwise LOCAL_API_URL is used in DEV and PROD_API_URL elsewhere.
// Trailing slashes are trimmed so paths can be joined with a leading "/".
func (e EnvVars) GetAPIBaseURL() string {
	base := os.Getenv(apiBaseURLVar)
	if base == "" {
		if e.GetEnv() == devEnvironment {
			base = GetEnv(localAPIURLVar, defaultAPIBase)
		} else {
			base = GetEnv(prodAPIURLVar, defaultAPIBase)
		}
	}
	return strings.TrimRight(base, "/")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetDuration parses envVar with time.ParseDuration, falling back to defaultValue
// when it is unset or unparseable.
func GetDuration(envVar string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(envVar))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

func GetInt(envVar string, defaultValue int) int {
	n, err := strconv.Atoi(os.Getenv(envVar))
	if err != nil {
		return defaultValue
	}
	return n
}
