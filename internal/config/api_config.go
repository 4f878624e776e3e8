package config

import (
	"strings"
	"time"
)

type APIConfig interface {
	GetAPIBaseURL() string
	GetAPITimeout() time.Duration
}

type API struct{}

var _ APIConfig = API{}

// GetAPIBaseURL returns the root of the Convivio REST API without a trailing
// slash. Auth endpoints live under /api/auth, profiles under /api/users.
func (API) GetAPIBaseURL() string {
	return strings.TrimRight(GetEnv("CONVIVIO_API_URL", "http://localhost:8080"), "/")
}

func (API) GetAPITimeout() time.Duration {
	return GetEnvDuration("API_TIMEOUT", 30*time.Second)
}
