// Package handlers implements the HTTP API endpoints.
package handlers

import (
	"imagehub/internal/config"
	"imagehub/internal/services"
	"imagehub/internal/services/auth"
)

// Handlers holds shared dependencies for API handlers.
type Handlers struct {
	// --- Depend on interfaces, not concrete structs ---
	Info    services.InfoService
	Session services.SessionService
	Token   auth.TokenService

	Auth *auth.Middleware
	Cfg  *config.Config
}

// NewHandlers creates a new instance of Handlers with its dependencies.
func NewHandlers(
	info services.InfoService,
	sessionSvc services.SessionService,
	token auth.TokenService,
	authMiddleware *auth.Middleware,
	cfg *config.Config,
) *Handlers {
	return &Handlers{
		Info:    info,
		Session: sessionSvc,
		Token:   token,
		Auth:    authMiddleware,
		Cfg:     cfg,
	}
}
