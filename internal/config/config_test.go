package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		k, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(k, envPrefix) {
			t.Setenv(k, "")
			require.NoError(t, os.Unsetenv(k))
		}
	}
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Empty(t, cfg.GRPCAddr)
	assert.Empty(t, cfg.Session.Secret)
}

func TestLoadWithoutSources(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("", filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("unexpected config (-want +got):\n%s", diff)
	}
}

func TestLoadYAMLThenEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "lifelink.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http_addr: ":9090"
grpc_addr: ":9091"
session:
  ttl: 30m
  cookie_secure: true
rate:
  burst: 5
log:
  level: debug
`), 0o600))

	t.Setenv("LIFELINK_HTTP_ADDR", ":7070")
	t.Setenv("LIFELINK_RATE_PER_SEC", "2.5")

	cfg, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.HTTPAddr)
	assert.Equal(t, ":9091", cfg.GRPCAddr)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.True(t, cfg.Session.CookieSecure)
	assert.Equal(t, 5, cfg.Rate.Burst)
	assert.Equal(t, 2.5, cfg.Rate.PerSecond)
	assert.Equal(t, "debug", cfg.Log.Level)
	require.NoError(t, cfg.Validate())
}

func TestLoadDotEnvDoesNotOverrideEnvironment(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("LIFELINK_GRPC_ADDR=:6000\nLIFELINK_LOG_LEVEL=warn\n"), 0o600))
	t.Setenv("LIFELINK_LOG_LEVEL", "error")

	cfg, err := Load("", envFile)
	require.NoError(t, err)
	assert.Equal(t, ":6000", cfg.GRPCAddr)
	assert.Equal(t, "error", cfg.Log.Level)

	// godotenv sets variables process-wide; drop the one it added.
	require.NoError(t, os.Unsetenv("LIFELINK_GRPC_ADDR"))
}

func TestLoadRejectsBadValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("LIFELINK_SESSION_TTL", "forever")
	t.Setenv("LIFELINK_RATE_BURST", "many")
	_, err := Load("", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LIFELINK_SESSION_TTL")
	assert.Contains(t, err.Error(), "LIFELINK_RATE_BURST")
}

func TestLoadMissingYAML(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), "")
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.HTTPAddr = " "
	cfg.Session.TTL = 0
	cfg.Rate.Burst = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http_addr")
	assert.Contains(t, err.Error(), "session ttl")
	assert.Contains(t, err.Error(), "rate")
}
