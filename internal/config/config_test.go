package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENV", "LOG_LEVEL", "DB_DRIVER", "DB_DSN", "SQLITE_PATH",
		"REDIS_ADDR", "TRIP_WINDOW_TTL", "HTTP_ADDR", "SWEEP_CRON",
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DSN", "postgres://localhost/trips")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, "trip_planner.db", cfg.SQLitePath)
	assert.Equal(t, 10*time.Minute, cfg.TripWindowTTL)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "@every 1h", cfg.SweepCron)
	assert.False(t, cfg.CacheEnabled())
}

func TestFromEnvSQLiteNeedsNoDSN(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/plan.db")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("TRIP_WINDOW_TTL", "30s")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/plan.db", cfg.SQLitePath)
	assert.Equal(t, 30*time.Second, cfg.TripWindowTTL)
	assert.True(t, cfg.CacheEnabled())
}

func TestFromEnvErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "postgres without dsn", env: map[string]string{}},
		{name: "unknown driver", env: map[string]string{"DB_DRIVER": "mysql"}},
		{name: "bad ttl", env: map[string]string{"DB_DRIVER": "sqlite", "TRIP_WINDOW_TTL": "soon"}},
		{name: "bad log level", env: map[string]string{"DB_DRIVER": "sqlite", "LOG_LEVEL": "loud"}},
		{name: "bad cron", env: map[string]string{"DB_DRIVER": "sqlite", "SWEEP_CRON": "hourly-ish"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}
