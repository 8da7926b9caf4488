package handlers

import (
	"net/http"
)

// HealthCheck is a public liveness endpoint. It responds JSON like the
// rest of the API so probes and clients can share one response parser.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "OK"})
}
