package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("REDIS_DB", "")
	t.Setenv("CACHE_COURSES_TTL", "120")
	t.Setenv("CERTIFICATE_BASE_URL", "https://certs.example.com/")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.RedisDB, "unparseable value falls back to default")
	assert.Equal(t, 120*time.Second, cfg.CoursesCacheTTL)
	assert.Equal(t, 600*time.Second, cfg.CourseCacheTTL)
	assert.Equal(t, "https://certs.example.com", cfg.CertificateBaseURL)
	assert.Equal(t, 72*time.Hour, cfg.JWTTTL)
}

func TestIsProduction(t *testing.T) {
	assert.True(t, (&Config{AppEnv: "production"}).IsProduction())
	assert.True(t, (&Config{AppEnv: "PROD"}).IsProduction())
	assert.False(t, (&Config{AppEnv: "development"}).IsProduction())
}
