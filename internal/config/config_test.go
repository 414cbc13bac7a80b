package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_DefaultsAndOverrides(t *testing.T) {
	cfg, err := parse(`
app:
  port: 9090
database:
  dsn: postgres://hub@db/hub
notify:
  maxAttempts: 3
`)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, "0.0.0.0", cfg.App.Host)
	assert.Equal(t, "contenthub", cfg.App.Name)
	assert.Equal(t, "postgres://hub@db/hub", cfg.Database.DSN)
	assert.Equal(t, 3, cfg.Notify.MaxAttempts)
	assert.Equal(t, 500, cfg.Notify.InitialBackoffMs)
	assert.Equal(t, "notifications", cfg.RabbitMQ.Queue)
	assert.Equal(t, 100, cfg.Review.MaxPageSize)
}

func TestParse_EnvOverride(t *testing.T) {
	t.Setenv("APP_APP_PORT", "7000")

	cfg, err := parse("app:\n  port: 9090\n")
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.App.Port)
}

func TestDurations(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, 15*time.Minute, cfg.PresignExpire())
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL())

	cfg.S3.PresignExpireSec = 60
	cfg.Auth.TokenTTLSec = 120
	assert.Equal(t, time.Minute, cfg.PresignExpire())
	assert.Equal(t, 2*time.Minute, cfg.TokenTTL())
}
