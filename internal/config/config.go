// Package config loads and validates the application configuration.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds the application's configuration.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logging  LoggingConfig  `toml:"logging"`
	Image    ImageConfig    `toml:"image"`
	JWT      JWTConfig      `toml:"jwt"`

	AdminPassword string `toml:"-"` // Not loaded from file, set by CLI/env
	JWTSecret     string `toml:"-"` // Runtime secret (from env, flag, or file)

	MaxFileSizeBytes int64 `toml:"-"` // Runtime computed value
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// DatabaseConfig holds the database and blob storage configuration.
type DatabaseConfig struct {
	Path        string `toml:"path"`
	StorageRoot string `toml:"storage_root"`
}

// LoggingConfig holds the logging configuration.
type LoggingConfig struct {
	Level string `toml:"level"`
}

// ImageConfig holds the image session constraints and processing settings.
// MaxWidth/MaxHeight of 0 mean unconstrained; MaxFileSize "" means unconstrained.
type ImageConfig struct {
	MaxFileSize string `toml:"max_file_size"` // e.g. "8MB", "512KB"
	MaxWidth    int    `toml:"max_width"`
	MaxHeight   int    `toml:"max_height"`
	Resampler   string `toml:"resampler"`    // "catmullrom", "bilinear" or "lanczos"
	SessionTTL  int    `toml:"session_ttl"`  // Minutes before an idle session is evicted
	JPEGQuality int    `toml:"jpeg_quality"` // Quality for lossy re-encodes
}

// JWTConfig holds settings for token generation.
type JWTConfig struct {
	AccessDurationMin    int    `toml:"access_duration_min"`
	RefreshDurationHours int    `toml:"refresh_duration_hours"`
	Secret               string `toml:"secret"` // Persisted secret
}

// LoadConfig loads the configuration from a TOML file.
func LoadConfig(path string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// SaveConfig writes the current configuration back to a TOML file.
// Used to persist the auto-generated JWT secret.
func SaveConfig(path string, cfg *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file for saving: %w", err)
	}
	defer f.Close()
	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config to file: %w", err)
	}
	return nil
}

// ParseAndValidate processes configuration strings into runtime values.
// It sets defaults where values are missing and parses human-readable sizes.
func (c *Config) ParseAndValidate() error {
	if c.Image.MaxFileSize != "" {
		sizeBytes, err := parseSize(c.Image.MaxFileSize)
		if err != nil {
			return fmt.Errorf("invalid max_file_size: %w", err)
		}
		c.MaxFileSizeBytes = sizeBytes
	}

	if c.Image.MaxWidth < 0 || c.Image.MaxHeight < 0 {
		return fmt.Errorf("max_width and max_height must not be negative")
	}

	switch c.Image.Resampler {
	case "":
		c.Image.Resampler = "catmullrom"
	case "catmullrom", "bilinear", "lanczos":
	default:
		return fmt.Errorf("unknown resampler %q", c.Image.Resampler)
	}

	if c.Image.SessionTTL <= 0 {
		c.Image.SessionTTL = 30
	}
	if c.Image.JPEGQuality <= 0 || c.Image.JPEGQuality > 100 {
		c.Image.JPEGQuality = 75
	}

	if c.JWT.AccessDurationMin <= 0 {
		c.JWT.AccessDurationMin = 15
	}
	if c.JWT.RefreshDurationHours <= 0 {
		c.JWT.RefreshDurationHours = 24 * 7
	}

	if c.Database.Path == "" {
		c.Database.Path = "imagehub.db"
	}
	if c.Database.StorageRoot == "" {
		c.Database.StorageRoot = "storage"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}

	return nil
}

// parseSize parses a size string (e.g., "100G", "500MB") into bytes.
func parseSize(sizeStr string) (int64, error) {
	re := regexp.MustCompile(`(?i)^(\d+)\s*(K|M|G|T)?B?$`)
	matches := re.FindStringSubmatch(strings.TrimSpace(sizeStr))

	if len(matches) < 2 {
		return 0, fmt.Errorf("invalid size format: %s", sizeStr)
	}

	value, err := strconv.ParseInt(matches[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size number: %s", matches[1])
	}

	unit := ""
	if len(matches) > 2 {
		unit = strings.ToUpper(matches[2])
	}

	switch unit {
	case "T":
		return value * (1 << 40), nil
	case "G":
		return value * (1 << 30), nil
	case "M":
		return value * (1 << 20), nil
	case "K":
		return value * (1 << 10), nil
	default:
		return value, nil
	}
}
