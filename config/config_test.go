package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("STORE_BACKEND", "memory")

	cfg := Load()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "auth-service", cfg.Service.Name)
	assert.Equal(t, "3000", cfg.Service.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 10*time.Second, cfg.GetShutdownTimeoutDuration())
	assert.Equal(t, time.Duration(0), cfg.GetReadinessDrainDelayDuration())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("PORT", "8081")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("SHUTDOWN_TIMEOUT", "5s")

	cfg := Load()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "8081", cfg.Service.Port)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, 5*time.Second, cfg.GetShutdownTimeoutDuration())
}

func TestValidate_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("STORE_BACKEND", "memory")

	cfg := Load()
	assert.Error(t, cfg.Validate())
}

func TestValidate_StoreBackend(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		dbURL   string
		mongo   string
		wantErr bool
	}{
		{name: "postgres without url", backend: "postgres", wantErr: true},
		{name: "postgres with url", backend: "postgres", dbURL: "postgres://localhost/auth"},
		{name: "mongo without uri", backend: "mongo", wantErr: true},
		{name: "mongo with uri", backend: "mongo", mongo: "mongodb://localhost/auth"},
		{name: "memory", backend: "memory"},
		{name: "unknown", backend: "cassandra", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "test-secret")
			t.Setenv("STORE_BACKEND", tt.backend)
			t.Setenv("DATABASE_URL", tt.dbURL)
			t.Setenv("MONGO_URI", tt.mongo)

			err := Load().Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_BadDurations(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")

	cfg := Load()
	assert.Error(t, cfg.Validate())
}
