// Package httpserver wires the API handlers into the HTTP router.
package httpserver

import (
	"imagehub/internal/api/handlers"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRouter configures the main router and its sub-routers.
func SetupRouter(h *handlers.Handlers) *mux.Router {
	r := mux.NewRouter()

	// Public Endpoints
	r.HandleFunc("/health", handlers.HealthCheck).Methods("GET")
	r.HandleFunc("/api/info", h.GetInfo).Methods("GET")
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	// Public Token Endpoints (Not protected by the auth middleware)
	r.HandleFunc("/api/token", h.GetToken).Methods("POST")
	r.HandleFunc("/api/token/refresh", h.RefreshToken).Methods("POST")

	// Authenticated API Routes
	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.Use(h.Auth.AuthMiddleware) // JWT Bearer *or* Basic

	apiRouter.HandleFunc("/logout", h.Logout).Methods("POST")

	addSessionRoutes(apiRouter, h)

	return r
}

// addSessionRoutes configures routes for session and image management.
func addSessionRoutes(r *mux.Router, h *handlers.Handlers) {
	r.HandleFunc("/session", h.CreateSession).Methods("POST")
	r.HandleFunc("/sessions", h.ListSessions).Methods("GET")
	r.HandleFunc("/session/{id}", h.GetSession).Methods("GET")
	r.HandleFunc("/session/{id}", h.DeleteSession).Methods("DELETE")

	r.HandleFunc("/session/{id}/image", h.SelectImage).Methods("POST")
	r.HandleFunc("/session/{id}/image", h.GetImage).Methods("GET")
	r.HandleFunc("/session/{id}/resize", h.ResizeImage).Methods("POST")
	r.HandleFunc("/session/{id}/crop", h.CropImage).Methods("POST")
	r.HandleFunc("/session/{id}/restore", h.RestoreImage).Methods("POST")
	r.HandleFunc("/session/{id}/upload", h.UploadImage).Methods("POST")
}
