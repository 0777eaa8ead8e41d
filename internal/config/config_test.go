package config

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "DATABASE_DRIVER", "JWT_SECRET", "JWT_TTL", "COOKIE_SECURE", "COOKIE_SAMESITE", "CORS_ALLOWED_ORIGINS", "OTEL_ENABLED"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "mongo", cfg.DatabaseDriver)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, http.SameSiteLaxMode, cfg.CookieSameSite)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:5174"}, cfg.CORSAllowedOrigins)
	assert.Contains(t, cfg.CORSAllowedMethods, "OPTIONS")
	assert.False(t, cfg.OTelEnabled)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_DRIVER", "mysql")
	t.Setenv("JWT_TTL", "90m")
	t.Setenv("COOKIE_SAMESITE", "None")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://app.example.com , ,https://admin.example.com")
	t.Setenv("OTEL_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "mysql", cfg.DatabaseDriver)
	assert.Equal(t, 90*time.Minute, cfg.JWTExpiry)
	assert.Equal(t, http.SameSiteNoneMode, cfg.CookieSameSite)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.OTelEnabled)
}

func TestLoad_Production(t *testing.T) {
	t.Setenv("ENV", "production")

	t.Run("dev secret rejected", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		_, err := Load()
		assert.ErrorIs(t, err, ErrInsecureSecret)
	})

	t.Run("short secret rejected", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "too-short")
		_, err := Load()
		assert.ErrorIs(t, err, ErrInsecureSecret)
	})

	t.Run("secure cookie forced", func(t *testing.T) {
		t.Setenv("JWT_SECRET", strings.Repeat("k", 32))
		t.Setenv("COOKIE_SECURE", "false")
		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.CookieSecure)
		assert.True(t, cfg.IsProduction())
	})
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"JWT_TTL", "forever"},
		{"JWT_TTL", "-1h"},
		{"COOKIE_SECURE", "maybe"},
		{"COOKIE_SAMESITE", "sometimes"},
		{"OTEL_ENABLED", "yes please"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
