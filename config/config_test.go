package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load("")
	assert.ErrorIs(t, err, ErrMissingJWTSecret)
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yamlDoc := `
env: production
port: "9000"
database:
  driver: mysql
  uri: "user:pass@tcp(db:3306)/orders?parseTime=True"
auth:
  jwt_secret: from-file
  token_ttl: 2h
cors_origins:
  - https://desk.example.com
`
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0o600))

	t.Setenv("JWT_SECRET", "")
	t.Setenv("PORT", "9100")
	t.Setenv("RESET_TOKEN_TTL", "15m")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, "mysql", cfg.DB.Driver)
	assert.Equal(t, "from-file", cfg.Auth.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 15*time.Minute, cfg.Auth.ResetTokenTTL)
	assert.Equal(t, []string{"https://desk.example.com"}, cfg.CORS)
	assert.Equal(t, 25, cfg.DB.MaxOpenConns)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_DRIVER", "oracle")

	_, err := Load("")
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

func TestLoad_BadNumber(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_MAX_OPEN_CONNS", "many")

	_, err := Load("")
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b "))
}
