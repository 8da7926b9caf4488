package cli

import (
	"fmt"
	"os"
	"strconv"

	"imagehub/internal/config"
	"imagehub/internal/logging"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

var (
	// Global config object populated by flags/env/file
	cfg *config.Config

	// Flag variables
	cfgFile     string
	password    string
	port        int
	logLevel    string
	jwtSecret   string
	maxFileSize string
	storageRoot string
	dbPath      string
)

func registerFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&cfgFile, "config_path", "config.toml", "Path to the base configuration file. (Env: IMAGEHUB_CONFIG_PATH)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Logging level (debug, info, warn, error). (Env: IMAGEHUB_LOG_LEVEL)")

	// Server-specific flags
	cmd.Flags().StringVar(&password, "password", "", "Password for the 'admin' user. (Env: IMAGEHUB_PASSWORD)")
	cmd.Flags().IntVar(&port, "port", 0, "Port for the HTTP server. (Env: IMAGEHUB_PORT)")
	cmd.Flags().StringVar(&jwtSecret, "jwt-secret", "", "Secret key for signing JWTs. (Env: IMAGEHUB_JWT_SECRET)")
	cmd.Flags().StringVar(&maxFileSize, "max-file-size", "", "Max size for uploaded images (e.g. '8MB'). (Env: IMAGEHUB_MAX_FILE_SIZE)")
	cmd.Flags().StringVar(&storageRoot, "storage-root", "", "Directory for session blobs. (Env: IMAGEHUB_STORAGE_ROOT)")
	cmd.Flags().StringVar(&dbPath, "database-path", "", "Path to the SQLite database file. (Env: IMAGEHUB_DATABASE_PATH)")
}

// initializeConfig loads and overrides configuration values.
func initializeConfig(cmd *cobra.Command) error {
	// 1. Check environment variable for config path first
	if envPath := os.Getenv("IMAGEHUB_CONFIG_PATH"); envPath != "" && cfgFile == "config.toml" {
		cfgFile = envPath
	}

	var err error
	cfg, err = config.LoadConfig(cfgFile)
	if err != nil {
		if os.IsNotExist(err) {
			// Rely on defaults/flags when no config file exists
			cfg = &config.Config{}
		} else {
			return fmt.Errorf("failed to load configuration from %s: %w", cfgFile, err)
		}
	}

	// 2. Apply Overrides (Env Vars and CLI Flags)
	applyOverrides(cfg)

	// 3. Validate
	if err := cfg.ParseAndValidate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// 4. Initialize Logging
	logging.Init(cfg.Logging.Level)
	goose.SetLogger(logging.Log)

	return nil
}

func applyOverrides(c *config.Config) {
	getEnv := func(key string) string { return os.Getenv(key) }

	// --- Environment Variables ---
	if v := getEnv("IMAGEHUB_PASSWORD"); v != "" {
		c.AdminPassword = v
	}
	if v := getEnv("IMAGEHUB_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := getEnv("IMAGEHUB_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := getEnv("IMAGEHUB_DATABASE_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := getEnv("IMAGEHUB_STORAGE_ROOT"); v != "" {
		c.Database.StorageRoot = v
	}
	if v := getEnv("IMAGEHUB_JWT_SECRET"); v != "" {
		c.JWTSecret = v
	}
	if v := getEnv("IMAGEHUB_MAX_FILE_SIZE"); v != "" {
		c.Image.MaxFileSize = v
	}

	// --- CLI Flags (take precedence) ---
	if password != "" {
		c.AdminPassword = password
	}
	if port != 0 {
		c.Server.Port = port
	}
	if logLevel != "" {
		c.Logging.Level = logLevel
	}
	if jwtSecret != "" {
		c.JWTSecret = jwtSecret
	}
	if maxFileSize != "" {
		c.Image.MaxFileSize = maxFileSize
	}
	if storageRoot != "" {
		c.Database.StorageRoot = storageRoot
	}
	if dbPath != "" {
		c.Database.Path = dbPath
	}

	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}
