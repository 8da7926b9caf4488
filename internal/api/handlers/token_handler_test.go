package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"imagehub/internal/config"
	"imagehub/internal/services/auth"
	"imagehub/internal/services/mocks"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAdminPassword = "hunter2"

func setupTokenHandlerTestAPI(t *testing.T) (*httptest.Server, *mocks.MockTokenService) {
	t.Helper()

	mockToken := new(mocks.MockTokenService)
	middleware, err := auth.NewMiddleware(mockToken, testAdminPassword)
	require.NoError(t, err)

	h := NewHandlers(nil, nil, mockToken, middleware, &config.Config{})

	r := mux.NewRouter()
	r.HandleFunc("/token", h.GetToken).Methods("POST")
	r.HandleFunc("/token/refresh", h.RefreshToken).Methods("POST")
	r.HandleFunc("/logout", h.Logout).Methods("POST")

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)
	return server, mockToken
}

func TestGetTokenHandler_BasicAuth(t *testing.T) {
	server, mockToken := setupTokenHandlerTestAPI(t)

	mockToken.On("GenerateTokens", auth.AdminUsername).Return("access-1", "refresh-1", nil)

	req, err := http.NewRequest("POST", server.URL+"/token", nil)
	require.NoError(t, err)
	req.SetBasicAuth(auth.AdminUsername, testAdminPassword)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var tr TokenResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tr))
	assert.Equal(t, "access-1", tr.AccessToken)
	assert.Equal(t, "refresh-1", tr.RefreshToken)
	mockToken.AssertExpectations(t)
}

func TestGetTokenHandler_JSONBody(t *testing.T) {
	server, mockToken := setupTokenHandlerTestAPI(t)

	mockToken.On("GenerateTokens", auth.AdminUsername).Return("access-2", "refresh-2", nil)

	body, _ := json.Marshal(map[string]string{
		"username": auth.AdminUsername,
		"password": testAdminPassword,
	})
	resp, err := http.Post(server.URL+"/token", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetTokenHandler_WrongPassword(t *testing.T) {
	server, mockToken := setupTokenHandlerTestAPI(t)

	req, err := http.NewRequest("POST", server.URL+"/token", nil)
	require.NoError(t, err)
	req.SetBasicAuth(auth.AdminUsername, "wrong")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	mockToken.AssertNotCalled(t, "GenerateTokens")
}

func TestRefreshTokenHandler(t *testing.T) {
	server, mockToken := setupTokenHandlerTestAPI(t)

	mockToken.On("RefreshTokens", "old-refresh").Return("access-3", "refresh-3", nil)

	body, _ := json.Marshal(map[string]string{"refresh_token": "old-refresh"})
	resp, err := http.Post(server.URL+"/token/refresh", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var tr TokenResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tr))
	assert.Equal(t, "refresh-3", tr.RefreshToken)
}

func TestRefreshTokenHandler_Invalid(t *testing.T) {
	server, mockToken := setupTokenHandlerTestAPI(t)

	mockToken.On("RefreshTokens", "bogus").Return("", "", errors.New("invalid token"))

	body, _ := json.Marshal(map[string]string{"refresh_token": "bogus"})
	resp, err := http.Post(server.URL+"/token/refresh", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRefreshTokenHandler_MissingToken(t *testing.T) {
	server, _ := setupTokenHandlerTestAPI(t)

	resp, err := http.Post(server.URL+"/token/refresh", "application/json", bytes.NewReader([]byte(`{}`)))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogoutHandler(t *testing.T) {
	server, mockToken := setupTokenHandlerTestAPI(t)

	mockToken.On("RevokeRefreshToken", "refresh-4").Return(nil)

	body, _ := json.Marshal(map[string]string{"refresh_token": "refresh-4"})
	resp, err := http.Post(server.URL+"/logout", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	mockToken.AssertExpectations(t)
}
