// Package auth implements token issuing and request authentication for
// the single-admin API.
package auth

// TokenService issues and validates the JWT token pair.
type TokenService interface {
	// GenerateTokens creates a signed access/refresh token pair for a
	// successfully authenticated user.
	GenerateTokens(username string) (accessToken string, refreshToken string, err error)

	// ValidateAccessToken checks signature and expiry of an access token
	// and returns the username it was issued for.
	ValidateAccessToken(tokenString string) (string, error)

	// RefreshTokens exchanges a valid refresh token for a fresh pair,
	// revoking the old one.
	RefreshTokens(refreshToken string) (accessToken string, newRefreshToken string, err error)

	// RevokeRefreshToken invalidates a refresh token (logout).
	RevokeRefreshToken(refreshToken string) error
}
