package cli

import (
	"os"
	"path/filepath"
	"testing"

	"imagehub/internal/config"

	"github.com/stretchr/testify/assert"
)

// Helper to reset the global config and flags between tests
func resetGlobals() {
	cfg = nil
	port = 0
	logLevel = ""
	password = ""
	jwtSecret = ""
	maxFileSize = ""
	storageRoot = ""
	dbPath = ""
	cfgFile = "config.toml" // Default
}

func TestConfigPrecedence(t *testing.T) {
	// RootCmd.Execute() starts the server, so we test the initializeConfig
	// and applyOverrides logic directly.

	t.Run("Defaults", func(t *testing.T) {
		resetGlobals()
		cfgFile = "nonexistent.toml"

		err := initializeConfig(nil)
		assert.NoError(t, err)

		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, "info", cfg.Logging.Level)
		assert.Equal(t, "catmullrom", cfg.Image.Resampler)
		assert.Equal(t, 30, cfg.Image.SessionTTL)
	})

	t.Run("Environment Overrides Defaults", func(t *testing.T) {
		resetGlobals()
		cfgFile = "nonexistent.toml"

		os.Setenv("IMAGEHUB_PORT", "9090")
		os.Setenv("IMAGEHUB_LOG_LEVEL", "warn")
		os.Setenv("IMAGEHUB_MAX_FILE_SIZE", "4MB")
		defer os.Unsetenv("IMAGEHUB_PORT")
		defer os.Unsetenv("IMAGEHUB_LOG_LEVEL")
		defer os.Unsetenv("IMAGEHUB_MAX_FILE_SIZE")

		err := initializeConfig(nil)
		assert.NoError(t, err)

		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, "warn", cfg.Logging.Level)
		assert.Equal(t, int64(4<<20), cfg.MaxFileSizeBytes)
	})

	t.Run("Flags Override Environment", func(t *testing.T) {
		resetGlobals()
		cfgFile = "nonexistent.toml"

		os.Setenv("IMAGEHUB_PORT", "9090")
		defer os.Unsetenv("IMAGEHUB_PORT")

		// Simulate parsed flag
		port = 7070

		err := initializeConfig(nil)
		assert.NoError(t, err)

		assert.Equal(t, 7070, cfg.Server.Port)
	})

	t.Run("Config File Loading", func(t *testing.T) {
		resetGlobals()

		content := []byte(`
[server]
port = 6060
[logging]
level = "error"
[image]
max_width = 1920
resampler = "lanczos"
`)
		tmpFile := filepath.Join(t.TempDir(), "test_config.toml")
		err := os.WriteFile(tmpFile, content, 0644)
		assert.NoError(t, err)

		cfgFile = tmpFile

		err = initializeConfig(nil)
		assert.NoError(t, err)

		assert.Equal(t, 6060, cfg.Server.Port)
		assert.Equal(t, "error", cfg.Logging.Level)
		assert.Equal(t, 1920, cfg.Image.MaxWidth)
		assert.Equal(t, "lanczos", cfg.Image.Resampler)
	})

	t.Run("Invalid Resampler Rejected", func(t *testing.T) {
		resetGlobals()

		content := []byte(`
[image]
resampler = "nearest"
`)
		tmpFile := filepath.Join(t.TempDir(), "test_config.toml")
		err := os.WriteFile(tmpFile, content, 0644)
		assert.NoError(t, err)

		cfgFile = tmpFile

		err = initializeConfig(nil)
		assert.Error(t, err)
	})
}

func TestApplyOverrides(t *testing.T) {
	resetGlobals()
	c := &config.Config{
		Server:  config.ServerConfig{Port: 8080},
		Logging: config.LoggingConfig{Level: "info"},
	}

	port = 9999
	logLevel = "debug"
	password = "secret"
	storageRoot = "/tmp/blobs"

	applyOverrides(c)

	assert.Equal(t, 9999, c.Server.Port)
	assert.Equal(t, "debug", c.Logging.Level)
	assert.Equal(t, "secret", c.AdminPassword)
	assert.Equal(t, "/tmp/blobs", c.Database.StorageRoot)
}
