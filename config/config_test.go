package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"PORT", "DB_DRIVER", "DB_NAME", "STORE_MAX_ATTEMPTS", "FACEBOOK_GRAPH_URL", "AUDIT_SCHEDULE"} {
		t.Setenv(key, "")
	}

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "catalogstore", cfg.Database.Name)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, "https://graph.facebook.com/v2.8", cfg.FacebookURL)
	assert.Empty(t, cfg.AuditSchedule)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/catalog.db")
	t.Setenv("STORE_MAX_ATTEMPTS", "0")
	t.Setenv("JWT_SECRET_KEY", " s3cret ")
	t.Setenv("GOOGLE_API_URL", "http://127.0.0.1:1234/")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "/tmp/catalog.db", cfg.Database.Path)
	assert.Equal(t, 1, cfg.MaxAttempts, "attempts are clamped to at least one")
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, "http://127.0.0.1:1234", cfg.GoogleAPIURL)
	assert.NoError(t, cfg.RequireSecret())
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DB_NAME_FROM_DOTENV_TEST=1\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("DB_NAME_FROM_DOTENV_TEST") })

	_, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "1", os.Getenv("DB_NAME_FROM_DOTENV_TEST"))
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DB_DRIVER", "oracle")

	_, err := Load("")
	assert.ErrorContains(t, err, "unsupported DB_DRIVER")
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("PORT: \"7070\"\nDB_DRIVER: mysql\n"), 0o644))
	t.Setenv("PORT", "")
	t.Setenv("DB_DRIVER", "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, DriverMySQL, cfg.Database.Driver)
}

func TestLoadMissingConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := Load("does-not-exist.yaml")
	assert.Error(t, err)
}

func TestRequireSecret(t *testing.T) {
	assert.ErrorIs(t, Config{}.RequireSecret(), ErrMissingSecret)
}
