package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresJWTSecret(t *testing.T) {
	chdirTemp(t)
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrMissingJWTSecret)
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Equal(t, 30*time.Second, cfg.Database.QueryTimeout)
	assert.Equal(t, 4, cfg.Analytics.MaxParallelQueries)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
}

func TestLoadDatabaseURLOverrides(t *testing.T) {
	chdirTemp(t)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DATABASE_URL", "postgres://campus:pw@db.internal:6543/campusiq?sslmode=require")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "campus", cfg.Database.User)
	assert.Equal(t, "pw", cfg.Database.Password)
	assert.Equal(t, "campusiq", cfg.Database.Name)
	assert.Equal(t, "require", cfg.Database.SSLMode)
}

func TestSplitAndTrim(t *testing.T) {
	assert.Nil(t, splitAndTrim(""))
	assert.Equal(t, []string{"http://a", "http://b"}, splitAndTrim(" http://a , ,http://b "))
}

func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
