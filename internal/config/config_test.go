package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nlouis56/convivio-web/internal/config"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	for _, v := range []string{"APP_NAME", "ENV", "LOG_LEVEL", "CONVIVIO_API_URL", "API_TIMEOUT", "STORAGE_MODE", "STORAGE_PATH", "STUB_API_ADDR"} {
		t.Setenv(v, "")
	}

	c := config.New(filepath.Join(t.TempDir(), "missing.env"))

	require.Equal(t, "Convivio", c.GetAppName())
	require.Equal(t, "DEV", c.GetEnv())
	require.Equal(t, "info", c.GetLogLevel())
	require.Equal(t, "http://localhost:8080", c.GetAPIBaseURL())
	require.Equal(t, 30*time.Second, c.GetAPITimeout())
	require.Equal(t, config.StoragePersistent, c.GetStorageMode())
	require.Equal(t, "./convivio.db", c.GetStoragePath())
	require.Equal(t, ":8080", c.GetStubAPIAddr())
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CONVIVIO_API_URL", "https://api.convivio.test/")
	t.Setenv("API_TIMEOUT", "5s")
	t.Setenv("STORAGE_MODE", "INERT")
	t.Setenv("STUB_API_ADDR", "127.0.0.1:9999")

	c := config.New(filepath.Join(t.TempDir(), "missing.env"))

	require.Equal(t, "https://api.convivio.test", c.GetAPIBaseURL())
	require.Equal(t, 5*time.Second, c.GetAPITimeout())
	require.Equal(t, config.StorageInert, c.GetStorageMode())
	require.Equal(t, "127.0.0.1:9999", c.GetStubAPIAddr())
}

func TestInvalidDurationFallsBack(t *testing.T) {
	t.Setenv("API_TIMEOUT", "soon")
	require.Equal(t, 30*time.Second, config.API{}.GetAPITimeout())
}

func TestEnvFileLoaded(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	os.Unsetenv("LOG_LEVEL")
	t.Setenv("APP_NAME", "from-env")

	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("LOG_LEVEL=DEBUG\nAPP_NAME=from-file\n"), 0o600))

	c := config.New(envFile)

	require.Equal(t, "debug", c.GetLogLevel())
	require.Equal(t, "from-env", c.GetAppName(), "process environment wins over the file")
}
