package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadReadsYAML(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9090"
  read_timeout: 5s
store:
  backend: redis
redis:
  addr: localhost:6379
  db: 2
jwt:
  signature: from-file
  expiry: 30m
logger:
  level: debug
  env: production
cors:
  allowed_origins: ["http://localhost:3000"]
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "redis", cfg.Store.Backend)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "from-file", cfg.JWT.Signature)
	assert.Equal(t, 30*time.Minute, Duration(cfg.JWT.Expiry, time.Hour))
	assert.Equal(t, LoggerConfig{Level: "debug", Env: "production"}, cfg.Logger)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "jwt:\n  signature: from-file\n")
	t.Setenv("JWT_SIGNATURE", "from-env")
	t.Setenv("POSTGRES_URL", "postgres://localhost/quizzes")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.JWT.Signature)
	assert.Equal(t, "postgres", cfg.Store.Backend, "backend follows the configured database")
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Store.Backend)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "server: [unterminated"))
	assert.Error(t, err)
}

func TestDuration(t *testing.T) {
	assert.Equal(t, 2*time.Second, Duration("2s", time.Minute))
	assert.Equal(t, time.Minute, Duration("", time.Minute))
	assert.Equal(t, time.Minute, Duration("soon", time.Minute))
}
