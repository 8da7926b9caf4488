package mocks

import (
	"imagehub/internal/services/auth"

	"github.com/stretchr/testify/mock"
)

// MockTokenService is a mock implementation of auth.TokenService
type MockTokenService struct {
	mock.Mock
}

var _ auth.TokenService = (*MockTokenService)(nil)

func (m *MockTokenService) GenerateTokens(username string) (string, string, error) {
	args := m.Called(username)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockTokenService) ValidateAccessToken(tokenString string) (string, error) {
	args := m.Called(tokenString)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) RefreshTokens(refreshToken string) (string, string, error) {
	args := m.Called(refreshToken)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockTokenService) RevokeRefreshToken(refreshToken string) error {
	args := m.Called(refreshToken)
	return args.Error(0)
}
