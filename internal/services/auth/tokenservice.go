package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"imagehub/internal/config"
	"imagehub/internal/repository"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for tokens that fail validation for any
// reason other than expiry.
var ErrInvalidToken = errors.New("invalid token")

// accessClaims defines the custom claims for the short-lived access token.
type accessClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// refreshClaims defines the claims for the long-lived, stateful refresh token.
type refreshClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Compile-time check to ensure tokenService implements the TokenService interface.
var _ TokenService = (*tokenService)(nil)

type tokenService struct {
	cfg  *config.Config
	repo *repository.Repository
}

// NewTokenService creates a new instance of the tokenService.
func NewTokenService(cfg *config.Config, repo *repository.Repository) TokenService {
	return &tokenService{cfg: cfg, repo: repo}
}

// hashToken securely hashes a token string (using SHA-256) for database storage.
func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// GenerateTokens creates, signs, and stores a new token pair.
func (s *tokenService) GenerateTokens(username string) (string, string, error) {
	// 1. Access token (short-lived, stateless)
	accessExpiry := time.Now().Add(time.Minute * time.Duration(s.cfg.JWT.AccessDurationMin))
	access := jwt.NewWithClaims(jwt.SigningMethodHS256, &accessClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(accessExpiry),
			Issuer:    "imagehub",
			Subject:   username,
		},
	})
	signedAccess, err := access.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", "", fmt.Errorf("failed to sign access token: %w", err)
	}

	// 2. Refresh token (long-lived, stateful)
	refreshExpiry := time.Now().Add(time.Hour * time.Duration(s.cfg.JWT.RefreshDurationHours))
	jtiBytes := make([]byte, 16)
	if _, err := rand.Read(jtiBytes); err != nil {
		return "", "", fmt.Errorf("failed to generate token id: %w", err)
	}

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, &refreshClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(refreshExpiry),
			Issuer:    "imagehub",
			Subject:   username,
			ID:        hex.EncodeToString(jtiBytes),
		},
	})
	signedRefresh, err := refresh.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", "", fmt.Errorf("failed to sign refresh token: %w", err)
	}

	// 3. Store the hash of the refresh token
	if err := s.repo.StoreRefreshToken(hashToken(signedRefresh), refreshExpiry); err != nil {
		return "", "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return signedAccess, signedRefresh, nil
}

// ValidateAccessToken checks an access token (stateless).
func (s *tokenService) ValidateAccessToken(tokenString string) (string, error) {
	claims := &accessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, s.keyFunc)
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Username == "" {
		return "", ErrInvalidToken
	}
	return claims.Username, nil
}

// RefreshTokens exchanges a valid refresh token for a new pair.
func (s *tokenService) RefreshTokens(refreshToken string) (string, string, error) {
	claims := &refreshClaims{}
	token, err := jwt.ParseWithClaims(refreshToken, claims, s.keyFunc)
	if err != nil {
		return "", "", err
	}
	if !token.Valid || claims.Username == "" {
		return "", "", ErrInvalidToken
	}

	// Stateful check: the token must still be known to us.
	if err := s.repo.ValidateRefreshToken(hashToken(refreshToken)); err != nil {
		return "", "", ErrInvalidToken
	}

	// Rotate: revoke the old token before issuing a new pair.
	if err := s.repo.DeleteRefreshToken(hashToken(refreshToken)); err != nil {
		return "", "", err
	}
	return s.GenerateTokens(claims.Username)
}

// RevokeRefreshToken invalidates a refresh token (logout).
func (s *tokenService) RevokeRefreshToken(refreshToken string) error {
	return s.repo.DeleteRefreshToken(hashToken(refreshToken))
}

func (s *tokenService) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return []byte(s.cfg.JWTSecret), nil
}
