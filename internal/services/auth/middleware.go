package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"imagehub/internal/logging"

	"golang.org/x/crypto/bcrypt"
)

// AdminUsername is the only account the service knows.
const AdminUsername = "admin"

type contextKey string

// UserContextKey carries the authenticated username in the request context.
const UserContextKey contextKey = "user"

// writeError sends a JSON error response.
func writeError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// Middleware provides authentication middleware for the single-admin API.
type Middleware struct {
	Token        TokenService
	passwordHash []byte
}

// NewMiddleware creates a Middleware. The admin password is hashed once
// at startup; the plaintext is not retained.
func NewMiddleware(token TokenService, adminPassword string) (*Middleware, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &Middleware{Token: token, passwordHash: hash}, nil
}

// ValidateBasic checks username/password against the admin credentials.
func (m *Middleware) ValidateBasic(username, password string) bool {
	if username != AdminUsername {
		return false
	}
	return bcrypt.CompareHashAndPassword(m.passwordHash, []byte(password)) == nil
}

// AuthMiddleware checks for a valid JWT Bearer token OR Basic Auth.
func (m *Middleware) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			// Tell the client we accept both
			w.Header().Set("WWW-Authenticate", `Basic realm="restricted", Bearer realm="restricted"`)
			writeError(w, http.StatusUnauthorized, "Authorization header required")
			return
		}

		var username string

		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			user, err := m.Token.ValidateAccessToken(tokenString)
			if err != nil {
				logging.Log.Warnf("AuthMiddleware: Invalid Bearer token: %v", err)
				if strings.Contains(err.Error(), "expired") {
					writeError(w, http.StatusUnauthorized, "Token expired")
				} else {
					writeError(w, http.StatusUnauthorized, "Invalid token")
				}
				return
			}
			username = user
		} else if strings.HasPrefix(authHeader, "Basic ") {
			user, password, ok := r.BasicAuth()
			if !ok || !m.ValidateBasic(user, password) {
				logging.Log.Warn("AuthMiddleware: Invalid Basic Auth")
				writeError(w, http.StatusUnauthorized, "Authentication failed")
				return
			}
			username = user
		} else {
			writeError(w, http.StatusUnauthorized, "Unsupported Authorization scheme")
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
