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

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	path := writeConfig(t, `
database:
  host: localhost
  port: 5432
  user: app
  password: secret
  name: skyfare
  ssl_mode: disable
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, "postgres", cfg.Surge.Backend)
	assert.Equal(t, 5*time.Minute, cfg.Surge.Window())
	assert.Equal(t, int64(3), cfg.Surge.Threshold)
	assert.Equal(t, 1.1, cfg.Surge.Factor)
	assert.Equal(t, 10, cfg.Booking.HistoryLimit)
	assert.Equal(t, "better-auth.session_token", cfg.Auth.SessionCookie)
	assert.Equal(t, "booking-events", cfg.Kafka.BookingEventsTopic)
	assert.Equal(t, time.Minute, cfg.Worker.SweepInterval())
	assert.Equal(t, "host=localhost port=5432 user=app password=secret dbname=skyfare sslmode=disable", cfg.Database.DSN())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/skyfare")
	t.Setenv("AUTH_JWT_SECRET", "s3cret")
	path := writeConfig(t, "surge:\n  backend: redis\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://u:p@db:5432/skyfare", cfg.Database.DSN())
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, "redis", cfg.Surge.Backend)
}

func TestLoadConfig_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{name: "unknown backend", body: "surge:\n  backend: memcached\n"},
		{name: "factor below one", body: "surge:\n  factor: 0.5\n"},
		{name: "negative window", body: "surge:\n  window_seconds: -1\n"},
		{name: "malformed yaml", body: "surge: [\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tc.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read config")
}
