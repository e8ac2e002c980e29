package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jrsteele09/go-obras-server/internal/config"
	"github.com/stretchr/testify/require"
)

func TestEnvVars_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("APP_NAME", "")

	c := config.New()
	require.Equal(t, ":8080", c.GetPort())
	require.Equal(t, "Obras", c.GetAppName())
	require.Equal(t, config.EnvDev, c.GetEnv())
	require.True(t, c.IsDev())
}

func TestEnvVars_PortPrefix(t *testing.T) {
	t.Run("bare port", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		require.Equal(t, ":9090", config.New().GetPort())
	})

	t.Run("already prefixed", func(t *testing.T) {
		t.Setenv("PORT", ":9091")
		require.Equal(t, ":9091", config.New().GetPort())
	})
}

func TestSecurity_CookieExpiry(t *testing.T) {
	t.Run("default is seven days", func(t *testing.T) {
		t.Setenv("COOKIE_EXPIRY_DAYS", "")
		require.Equal(t, 7*24*time.Hour, config.New().GetCookieExpiry())
	})

	t.Run("override", func(t *testing.T) {
		t.Setenv("COOKIE_EXPIRY_DAYS", "1")
		require.Equal(t, 24*time.Hour, config.New().GetCookieExpiry())
	})

	t.Run("non positive falls back", func(t *testing.T) {
		t.Setenv("COOKIE_EXPIRY_DAYS", "0")
		require.Equal(t, 7*24*time.Hour, config.New().GetCookieExpiry())
	})
}

func TestSecurity_CookieSecureFollowsEnv(t *testing.T) {
	t.Setenv("COOKIE_SECURE", "")

	t.Setenv("ENV", "DEV")
	require.False(t, config.New().GetCookieSecure())

	t.Setenv("ENV", "PROD")
	require.True(t, config.New().GetCookieSecure())

	t.Setenv("COOKIE_SECURE", "false")
	require.False(t, config.New().GetCookieSecure())
}

func TestCors_AllowedOrigins(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", " https://b.example.com, https://a.example.com ,,")

	origins := config.New().GetAllowedOrigins()
	require.True(t, origins.IsAllowedOrigin("https://a.example.com"))
	require.False(t, origins.IsAllowedOrigin("https://c.example.com"))
	require.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, origins.Slice())
}

func TestStore_Defaults(t *testing.T) {
	t.Setenv("DOCUMENT_STORE", "")
	t.Setenv("USERS_COLLECTION", "")

	c := config.New()
	require.Equal(t, config.StoreFirestore, c.GetDocumentStore())
	require.Equal(t, "users", c.GetUsersCollection())
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("OBRAS_TEST_DOTENV=loaded\n"), 0o600))
	t.Setenv("OBRAS_TEST_DOTENV", "")
	os.Unsetenv("OBRAS_TEST_DOTENV")

	config.LoadDotEnv(filepath.Join(dir, "missing.env"), path)
	require.Equal(t, "loaded", os.Getenv("OBRAS_TEST_DOTENV"))
}
