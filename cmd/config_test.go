package cmd_test

import (
	"os"
	"path/filepath"
	"testing"

	"orderdesk/cmd"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("should apply defaults without an env file", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "s3cret")
		t.Setenv("HTTP_PORT", "")

		config, err := cmd.LoadConfig(filepath.Join(t.TempDir(), ".env"))

		require.NoError(t, err)
		assert.Equal(t, "8080", config.HTTPPort)
		assert.Equal(t, "disable", config.DBSslMode)
		assert.Equal(t, "info", config.LogLevel)
		assert.False(t, config.TracingEnabled)
	})

	t.Run("should read the env file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("DB_NAME=fromfile\nTRACING_ENABLED=true\n"), 0o600))
		t.Setenv("JWT_SECRET", "s3cret")
		t.Setenv("DB_NAME", "")
		t.Setenv("TRACING_ENABLED", "")
		os.Unsetenv("DB_NAME")
		os.Unsetenv("TRACING_ENABLED")

		config, err := cmd.LoadConfig(path)

		require.NoError(t, err)
		assert.Equal(t, "fromfile", config.DBName)
		assert.True(t, config.TracingEnabled)
		assert.Contains(t, config.DSN(), "dbname=fromfile")
	})

	t.Run("should require a token secret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")

		_, err := cmd.LoadConfig(filepath.Join(t.TempDir(), ".env"))

		require.ErrorContains(t, err, "JWT_SECRET")
	})

	t.Run("should reject a malformed tracing flag", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "s3cret")
		t.Setenv("TRACING_ENABLED", "sometimes")

		_, err := cmd.LoadConfig(filepath.Join(t.TempDir(), ".env"))

		require.ErrorContains(t, err, "TRACING_ENABLED")
	})
}
