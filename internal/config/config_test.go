package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("POSTGRESQL_HOST", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, devJWTSecret, cfg.JWTSecret)
	assert.Equal(t, "@every 5m", cfg.ReconcileSchedule)
	assert.Equal(t, 5*time.Minute, cfg.TrustCacheTTL)
	assert.Equal(t, "XOF", cfg.DefaultCurrency)
	assert.False(t, cfg.EmailEnabled())
}

func TestLoad_DatabaseURLFromParts(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("POSTGRESQL_HOST", "db")
	t.Setenv("POSTGRESQL_USER", "rent")
	t.Setenv("POSTGRESQL_PASSWORD", "p@ss")
	t.Setenv("POSTGRESQL_DBNAME", "rental")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://rent:p%40ss@db:5432/rental?sslmode=disable", cfg.DatabaseURL)
}

func TestLoad_ProductionRequiresSecrets(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://rental.example")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")

	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	_, err = Load()
	assert.ErrorContains(t, err, "CORS_ALLOWED_ORIGINS")
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("TRUST_CACHE_TTL", "soon")

	_, err := Load()
	assert.ErrorContains(t, err, "TRUST_CACHE_TTL")
}

func TestLoad_Origins(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}
