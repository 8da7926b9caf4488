package handlers

import (
	"net/http"
)

// @Summary Get service information
// @Description Retrieves general information about the service: version and uptime. This is a public endpoint.
// @Tags info
// @Produce  json
// @Success 200 {object} services.Info
// @Router /info [get]
func (h *Handlers) GetInfo(w http.ResponseWriter, r *http.Request) {
	info := h.Info.GetInfo()
	respondWithJSON(w, http.StatusOK, info)
}
