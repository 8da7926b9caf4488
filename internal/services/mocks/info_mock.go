package mocks

import (
	"imagehub/internal/services"

	"github.com/stretchr/testify/mock"
)

// MockInfoService is a mock implementation of services.InfoService
type MockInfoService struct {
	mock.Mock
}

var _ services.InfoService = (*MockInfoService)(nil)

func (m *MockInfoService) GetInfo() services.Info {
	args := m.Called()
	return args.Get(0).(services.Info)
}
