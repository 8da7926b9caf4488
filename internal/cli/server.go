package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"imagehub/internal/api/handlers"
	"imagehub/internal/config"
	"imagehub/internal/httpserver"
	"imagehub/internal/logging"
	"imagehub/internal/repository"
	"imagehub/internal/services"
	"imagehub/internal/services/auth"
)

// runServer contains the logic to start the HTTP server with graceful shutdown.
func runServer() error {
	// Handle JWT Secret
	if cfg.JWTSecret == "" {
		if cfg.JWT.Secret != "" {
			logging.Log.Info("Using JWT secret loaded from config.toml.")
			cfg.JWTSecret = cfg.JWT.Secret
		} else {
			logging.Log.Info("Generating new random JWT secret...")
			newSecret, err := auth.GenerateSecret()
			if err != nil {
				return fmt.Errorf("failed to generate JWT secret: %w", err)
			}
			cfg.JWT.Secret = newSecret
			cfg.JWTSecret = newSecret
			if err := config.SaveConfig(cfgFile, cfg); err != nil {
				logging.Log.Warnf("Failed to save new JWT secret to %s: %v", cfgFile, err)
			} else {
				logging.Log.Infof("New JWT secret saved to %s.", cfgFile)
			}
		}
	}

	if cfg.AdminPassword == "" {
		return fmt.Errorf("no admin password set, use --password or IMAGEHUB_PASSWORD")
	}

	repo, err := repository.NewRepository(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize repository: %w", err)
	}
	defer repo.Close()

	// Auto-migrate on startup
	if err := repo.MigrateUp(); err != nil {
		logging.Log.Errorf("Failed to migrate database: %v", err)
		return err
	}

	// Service Initialization
	infoService := services.NewInfoService(Version, StartTime)
	uploader := services.NewOutboxUploader(cfg.Database.StorageRoot)
	sessionService, err := services.NewSessionService(cfg, repo, uploader)
	if err != nil {
		return fmt.Errorf("failed to initialize session service: %w", err)
	}
	tokenService := auth.NewTokenService(cfg, repo)

	authMiddleware, err := auth.NewMiddleware(tokenService, cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to initialize auth middleware: %w", err)
	}

	h := handlers.NewHandlers(infoService, sessionService, tokenService, authMiddleware, cfg)
	r := httpserver.SetupRouter(h)

	// Periodic cleanup of idle sessions and expired refresh tokens
	cleanupDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Duration(cfg.Image.SessionTTL) * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := sessionService.Cleanup(); err != nil {
					logging.Log.Warnf("Session cleanup failed: %v", err)
				}
			case <-cleanupDone:
				return
			}
		}
	}()

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    serverAddr,
		Handler: r,
	}

	// --- Graceful Shutdown Setup ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logging.Log.Infof("Server starting on %s (Max Upload: %s)", serverAddr, cfg.Image.MaxFileSize)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-stop
	logging.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	close(cleanupDone)

	if err := srv.Shutdown(ctx); err != nil {
		logging.Log.Errorf("Server forced to shutdown: %v", err)
		return err
	}

	logging.Log.Info("Server exiting")
	return nil
}
