package mocks

import (
	"io"

	"imagehub/internal/repository"
	"imagehub/internal/services"

	"github.com/stretchr/testify/mock"
)

// MockSessionService is a mock implementation of services.SessionService
type MockSessionService struct {
	mock.Mock
}

var _ services.SessionService = (*MockSessionService)(nil)

func (m *MockSessionService) CreateSession() (*repository.SessionRecord, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.SessionRecord), args.Error(1)
}

func (m *MockSessionService) GetSession(id string) (*repository.SessionRecord, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.SessionRecord), args.Error(1)
}

func (m *MockSessionService) ListSessions(limit int) ([]repository.SessionRecord, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.SessionRecord), args.Error(1)
}

func (m *MockSessionService) DeleteSession(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockSessionService) SelectImage(id string, file io.Reader, declaredSize int64, filename string) (*repository.SessionRecord, error) {
	args := m.Called(id, file, declaredSize, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.SessionRecord), args.Error(1)
}

func (m *MockSessionService) ResizeImage(id string, width, height int, keepAspect bool) (*repository.SessionRecord, error) {
	args := m.Called(id, width, height, keepAspect)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.SessionRecord), args.Error(1)
}

func (m *MockSessionService) CropImage(id string, top, left, width, height int) (*repository.SessionRecord, error) {
	args := m.Called(id, top, left, width, height)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.SessionRecord), args.Error(1)
}

func (m *MockSessionService) RestoreImage(id string) (*repository.SessionRecord, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.SessionRecord), args.Error(1)
}

func (m *MockSessionService) GetSelectedImage(id string) ([]byte, string, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.String(1), args.Error(2)
}

func (m *MockSessionService) PrepareUpload(id string) (string, string, error) {
	args := m.Called(id)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockSessionService) Cleanup() error {
	args := m.Called()
	return args.Error(0)
}
