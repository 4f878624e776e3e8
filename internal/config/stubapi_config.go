package config

import (
	"fmt"
	"strings"
	"time"
)

type StubAPIConfig interface {
	GetStubAPIAddr() string
	GetStubAPISecret() string
	GetStubAPITokenTTL() time.Duration
}

type StubAPI struct{}

var _ StubAPIConfig = StubAPI{}

// GetStubAPIAddr accepts either a bare port ("8080") or a host:port pair.
func (StubAPI) GetStubAPIAddr() string {
	addr := GetEnv("STUB_API_ADDR", "8080")
	if !strings.Contains(addr, ":") {
		addr = fmt.Sprintf(":%s", addr)
	}
	return addr
}

// GetStubAPISecret is the HMAC key used to sign stub API tokens.
func (StubAPI) GetStubAPISecret() string {
	return GetEnv("STUB_API_SECRET", "convivio-dev-secret")
}

func (StubAPI) GetStubAPITokenTTL() time.Duration {
	return GetEnvDuration("STUB_API_TOKEN_TTL", 24*time.Hour)
}
