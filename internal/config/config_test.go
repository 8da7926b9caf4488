package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
		hasError bool
	}{
		{"8MB", 8 * 1024 * 1024, false},
		{"512KB", 512 * 1024, false},
		{"1GB", 1 * 1024 * 1024 * 1024, false},
		{"100", 100, false},        // Bytes
		{"1024B", 1024, false},     // Bytes with suffix
		{" 4 MB ", 4194304, false}, // Spaces
		{"8mb", 8388608, false},    // Lowercase
		{"invalid", 0, true},
		{"10XB", 0, true},
		{"-10MB", 0, true}, // Regex expects digits, not negatives
	}

	for _, tc := range tests {
		val, err := parseSize(tc.input)
		if tc.hasError {
			assert.Error(t, err, "Expected error for input: %s", tc.input)
		} else {
			assert.NoError(t, err, "Unexpected error for input: %s", tc.input)
			assert.Equal(t, tc.expected, val, "Mismatch for input: %s", tc.input)
		}
	}
}

func TestConfig_ParseAndValidate(t *testing.T) {
	t.Run("Valid Config", func(t *testing.T) {
		cfg := &Config{
			Image: ImageConfig{
				MaxFileSize: "10MB",
				MaxWidth:    1920,
				MaxHeight:   1080,
			},
		}
		err := cfg.ParseAndValidate()
		assert.NoError(t, err)
		assert.Equal(t, int64(10485760), cfg.MaxFileSizeBytes)
		assert.Equal(t, "catmullrom", cfg.Image.Resampler)
		assert.Equal(t, 75, cfg.Image.JPEGQuality)
	})

	t.Run("Unconstrained Limits", func(t *testing.T) {
		cfg := &Config{}
		err := cfg.ParseAndValidate()
		assert.NoError(t, err)
		assert.Zero(t, cfg.MaxFileSizeBytes)
		assert.Zero(t, cfg.Image.MaxWidth)
		assert.Zero(t, cfg.Image.MaxHeight)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, "imagehub.db", cfg.Database.Path)
	})

	t.Run("Invalid Size", func(t *testing.T) {
		cfg := &Config{
			Image: ImageConfig{MaxFileSize: "NotASize"},
		}
		assert.Error(t, cfg.ParseAndValidate())
	})

	t.Run("Negative Dimensions", func(t *testing.T) {
		cfg := &Config{
			Image: ImageConfig{MaxWidth: -1},
		}
		assert.Error(t, cfg.ParseAndValidate())
	})

	t.Run("Unknown Resampler", func(t *testing.T) {
		cfg := &Config{
			Image: ImageConfig{Resampler: "nearest-ish"},
		}
		assert.Error(t, cfg.ParseAndValidate())
	})
}

func TestLoadConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := &Config{
		Server: ServerConfig{Host: "127.0.0.1", Port: 9090},
		Image: ImageConfig{
			MaxFileSize: "4MB",
			MaxWidth:    2048,
			Resampler:   "lanczos",
		},
	}
	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	assert.NoError(t, err)
	assert.Equal(t, 9090, loaded.Server.Port)
	assert.Equal(t, "4MB", loaded.Image.MaxFileSize)
	assert.Equal(t, "lanczos", loaded.Image.Resampler)
	assert.Equal(t, 2048, loaded.Image.MaxWidth)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}
