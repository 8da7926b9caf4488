package handlers

import (
	"encoding/json"
	"net/http"

	"imagehub/internal/logging"
)

// tokenRequest carries credentials for the token endpoint; Basic auth is
// accepted as an alternative.
type tokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// refreshRequest carries a refresh token.
type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// @Summary Get a token pair
// @Description Exchanges admin credentials (JSON body or Basic auth) for an access/refresh token pair.
// @Tags token
// @Accept  json
// @Produce  json
// @Param   credentials  body  tokenRequest  false  "Credentials (alternative to Basic auth)"
// @Success 200 {object} TokenResponse
// @Failure 401 {object} ErrorResponse
// @Router /token [post]
func (h *Handlers) GetToken(w http.ResponseWriter, r *http.Request) {
	var username, password string
	if u, p, ok := r.BasicAuth(); ok {
		username, password = u, p
	} else {
		var req tokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Provide credentials via JSON body or Basic auth.")
			return
		}
		username, password = req.Username, req.Password
	}

	if !h.Auth.ValidateBasic(username, password) {
		logging.Log.Warnf("GetToken: failed login attempt for %q", username)
		respondWithError(w, http.StatusUnauthorized, "Authentication failed.")
		return
	}

	access, refresh, err := h.Token.GenerateTokens(username)
	if err != nil {
		logging.Log.Errorf("GetToken: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to generate tokens.")
		return
	}
	respondWithJSON(w, http.StatusOK, TokenResponse{AccessToken: access, RefreshToken: refresh})
}

// @Summary Refresh a token pair
// @Description Exchanges a valid refresh token for a new pair. The old refresh token is revoked.
// @Tags token
// @Accept  json
// @Produce  json
// @Param   request  body  refreshRequest  true  "Refresh token"
// @Success 200 {object} TokenResponse
// @Failure 401 {object} ErrorResponse
// @Router /token/refresh [post]
func (h *Handlers) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		respondWithError(w, http.StatusBadRequest, "Missing refresh_token.")
		return
	}

	access, refresh, err := h.Token.RefreshTokens(req.RefreshToken)
	if err != nil {
		logging.Log.Warnf("RefreshToken: %v", err)
		respondWithError(w, http.StatusUnauthorized, "Invalid refresh token.")
		return
	}
	respondWithJSON(w, http.StatusOK, TokenResponse{AccessToken: access, RefreshToken: refresh})
}

// @Summary Log out
// @Description Revokes a refresh token.
// @Tags token
// @Accept  json
// @Produce  json
// @Param   request  body  refreshRequest  true  "Refresh token"
// @Success 200 {object} MessageResponse
// @Security BearerAuth
// @Router /logout [post]
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		respondWithError(w, http.StatusBadRequest, "Missing refresh_token.")
		return
	}

	if err := h.Token.RevokeRefreshToken(req.RefreshToken); err != nil {
		logging.Log.Errorf("Logout: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to revoke token.")
		return
	}
	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Logged out."})
}
