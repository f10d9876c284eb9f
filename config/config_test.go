package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/prremind?sslmode=disable")
	t.Setenv("JWT_SECRET_KEY", "0123456789abcdef0123456789abcdef")
}

func TestLoadConfig_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET_KEY", "0123456789abcdef0123456789abcdef")

	_, err := LoadConfig()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoadConfig_RequiresJWTSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/prremind")
	t.Setenv("JWT_SECRET_KEY", "")

	_, err := LoadConfig()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET_KEY")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "public", cfg.DatabaseSchema)
	assert.Equal(t, "http://localhost:3000", cfg.FrontendBaseURL)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "*", cfg.CORSAllowedOrigins)
	assert.Equal(t, "HS256", cfg.JWTConfig.Algorithm)
	assert.Equal(t, 30*time.Minute, cfg.JWTConfig.TokenDuration)
	assert.Equal(t, time.Hour, cfg.SweepInterval)
	assert.False(t, cfg.GoogleConfig.IsConfigured())
	assert.False(t, cfg.WebhookAuthConfig.IsConfigured())
}

func TestLoadConfig_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "120")
	t.Setenv("REMINDER_SWEEP_INTERVAL", "15m")
	t.Setenv("GOOGLE_CLIENT_ID", "cid")
	t.Setenv("GOOGLE_CLIENT_SECRET", "secret")
	t.Setenv("GOOGLE_REDIRECT_URI", "https://api.example.com/google/callback")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, cfg.JWTConfig.TokenDuration)
	assert.Equal(t, 15*time.Minute, cfg.SweepInterval)
	assert.True(t, cfg.GoogleConfig.IsConfigured())
	assert.NoError(t, cfg.GoogleConfig.Validate())
}

func TestLoadConfig_RejectsBadTokenDuration(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "zero")

	_, err := LoadConfig()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ACCESS_TOKEN_EXPIRE_MINUTES")
}

func TestGoogleConfigValidate(t *testing.T) {
	tests := []struct {
		name        string
		redirectURI string
		wantErr     bool
	}{
		{name: "valid https", redirectURI: "https://api.example.com/google/callback", wantErr: false},
		{name: "missing scheme", redirectURI: "api.example.com/google/callback", wantErr: true},
		{name: "garbage", redirectURI: "://bad", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GoogleConfig{ClientID: "a", ClientSecret: "b", RedirectURI: tt.redirectURI}
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
