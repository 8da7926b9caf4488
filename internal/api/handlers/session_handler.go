package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"imagehub/internal/imaging"
	"imagehub/internal/logging"
	"imagehub/internal/repository"
	"imagehub/internal/services"
	"imagehub/internal/session"

	"github.com/gorilla/mux"
)

// ResizeRequest is the payload for the resize endpoint. Zero or missing
// dimensions mean "not requested".
type ResizeRequest struct {
	Width      int  `json:"width"`
	Height     int  `json:"height"`
	KeepAspect bool `json:"keep_aspect"`
}

// CropRequest is the payload for the crop endpoint.
type CropRequest struct {
	Top    int `json:"top"`
	Left   int `json:"left"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// @Summary Create a session
// @Description Creates a new empty image session and returns its metadata.
// @Tags session
// @Produce  json
// @Success 201 {object} repository.SessionRecord
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /session [post]
func (h *Handlers) CreateSession(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Session.CreateSession()
	if err != nil {
		logging.Log.Errorf("CreateSession: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to create session.")
		return
	}
	respondWithJSON(w, http.StatusCreated, rec)
}

// @Summary Get session metadata
// @Tags session
// @Produce  json
// @Param   id  path  string  true  "Session ID"
// @Success 200 {object} repository.SessionRecord
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /session/{id} [get]
func (h *Handlers) GetSession(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Session.GetSession(mux.Vars(r)["id"])
	if err != nil {
		h.respondSessionError(w, "GetSession", err)
		return
	}
	respondWithJSON(w, http.StatusOK, rec)
}

// @Summary List sessions
// @Tags session
// @Produce  json
// @Param   limit  query  int  false  "Maximum number of sessions to return"
// @Success 200 {array} repository.SessionRecord
// @Security BearerAuth
// @Router /sessions [get]
func (h *Handlers) ListSessions(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			respondWithError(w, http.StatusBadRequest, "Invalid 'limit' query parameter.")
			return
		}
		limit = n
	}

	records, err := h.Session.ListSessions(limit)
	if err != nil {
		logging.Log.Errorf("ListSessions: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to list sessions.")
		return
	}
	if records == nil {
		records = []repository.SessionRecord{}
	}
	respondWithJSON(w, http.StatusOK, records)
}

// @Summary Delete a session
// @Tags session
// @Param   id  path  string  true  "Session ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /session/{id} [delete]
func (h *Handlers) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.Session.DeleteSession(mux.Vars(r)["id"]); err != nil {
		h.respondSessionError(w, "DeleteSession", err)
		return
	}
	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "Session deleted."})
}

// @Summary Select an image
// @Description Uploads an image into the session using multipart/form-data. The declared size is checked against the configured limit before decoding. The image is downscaled to the configured maximum dimensions on load.
// @Tags session
// @Accept  mpfd
// @Produce  json
// @Param   id    path      string  true  "Session ID"
// @Param   file  formData  file    true  "Image file"
// @Success 200 {object} repository.SessionRecord
// @Failure 400 {object} ErrorResponse "Invalid request or undecodable image"
// @Failure 404 {object} ErrorResponse "Session not found"
// @Failure 413 {object} ErrorResponse "File exceeds the size limit"
// @Security BearerAuth
// @Router /session/{id}/image [post]
func (h *Handlers) SelectImage(w http.ResponseWriter, r *http.Request) {
	maxMemory := h.Cfg.MaxFileSizeBytes
	if maxMemory <= 0 {
		maxMemory = 32 << 20
	}
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		logging.Log.Warnf("SelectImage: failed to parse multipart form: %v", err)
		respondWithError(w, http.StatusBadRequest, "Failed to parse multipart form.")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing 'file' part in multipart form.")
		return
	}
	defer file.Close()

	rec, err := h.Session.SelectImage(mux.Vars(r)["id"], file, header.Size, header.Filename)
	if err != nil {
		h.respondSessionError(w, "SelectImage", err)
		return
	}
	respondWithJSON(w, http.StatusOK, rec)
}

// @Summary Get the current image
// @Description Serves the session's working raster, encoded with its source format.
// @Tags session
// @Produce  png
// @Param   id  path  string  true  "Session ID"
// @Success 200 {file} binary
// @Failure 400 {object} ErrorResponse "No image selected"
// @Failure 404 {object} ErrorResponse "Session not found"
// @Security BearerAuth
// @Router /session/{id}/image [get]
func (h *Handlers) GetImage(w http.ResponseWriter, r *http.Request) {
	blob, mime, err := h.Session.GetSelectedImage(mux.Vars(r)["id"])
	if err != nil {
		h.respondSessionError(w, "GetImage", err)
		return
	}
	w.Header().Set("Content-Type", mime)
	w.WriteHeader(http.StatusOK)
	w.Write(blob)
}

// @Summary Resize the current image
// @Description Resizes the working raster. With keep_aspect the target box fits inside while preserving the source aspect ratio; without it, distortion is allowed. The configured maximum dimensions always apply. Returns 202 when the session has no image yet or is still loading.
// @Tags session
// @Accept  json
// @Produce  json
// @Param   id       path  string         true  "Session ID"
// @Param   request  body  ResizeRequest  true  "Target dimensions"
// @Success 200 {object} repository.SessionRecord
// @Success 202 {object} MessageResponse "Nothing to resize yet"
// @Failure 400 {object} ErrorResponse "Both dimensions missing"
// @Failure 404 {object} ErrorResponse "Session not found"
// @Security BearerAuth
// @Router /session/{id}/resize [post]
func (h *Handlers) ResizeImage(w http.ResponseWriter, r *http.Request) {
	var req ResizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}

	rec, err := h.Session.ResizeImage(mux.Vars(r)["id"], req.Width, req.Height, req.KeepAspect)
	if err != nil {
		h.respondSessionError(w, "ResizeImage", err)
		return
	}
	if rec == nil {
		respondWithJSON(w, http.StatusAccepted, MessageResponse{Message: "No image to resize yet."})
		return
	}
	respondWithJSON(w, http.StatusOK, rec)
}

// @Summary Crop the current image
// @Description Extracts a sub-region of the working raster. The origin must lie inside the raster; width and height are clamped to the remaining extent.
// @Tags session
// @Accept  json
// @Produce  json
// @Param   id       path  string       true  "Session ID"
// @Param   request  body  CropRequest  true  "Crop rectangle"
// @Success 200 {object} repository.SessionRecord
// @Failure 400 {object} ErrorResponse "Out-of-bounds crop rectangle or no image selected"
// @Failure 404 {object} ErrorResponse "Session not found"
// @Failure 409 {object} ErrorResponse "Image still loading"
// @Security BearerAuth
// @Router /session/{id}/crop [post]
func (h *Handlers) CropImage(w http.ResponseWriter, r *http.Request) {
	var req CropRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid JSON body.")
		return
	}

	rec, err := h.Session.CropImage(mux.Vars(r)["id"], req.Top, req.Left, req.Width, req.Height)
	if err != nil {
		h.respondSessionError(w, "CropImage", err)
		return
	}
	respondWithJSON(w, http.StatusOK, rec)
}

// @Summary Restore the original image
// @Description Resets the working raster to the image stored at load time, discarding all resize and crop edits. Returns 202 when there is nothing to restore.
// @Tags session
// @Produce  json
// @Param   id  path  string  true  "Session ID"
// @Success 200 {object} repository.SessionRecord
// @Success 202 {object} MessageResponse "Nothing to restore"
// @Failure 404 {object} ErrorResponse "Session not found"
// @Security BearerAuth
// @Router /session/{id}/restore [post]
func (h *Handlers) RestoreImage(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Session.RestoreImage(mux.Vars(r)["id"])
	if err != nil {
		h.respondSessionError(w, "RestoreImage", err)
		return
	}
	if rec == nil {
		respondWithJSON(w, http.StatusAccepted, MessageResponse{Message: "Nothing to restore."})
		return
	}
	respondWithJSON(w, http.StatusOK, rec)
}

// @Summary Prepare the upload payload
// @Description Encodes the working raster with its source format and hands it to the uploader. Returns the upload URL and derived filename.
// @Tags session
// @Produce  json
// @Param   id  path  string  true  "Session ID"
// @Success 200 {object} UploadResponse
// @Failure 400 {object} ErrorResponse "No image selected"
// @Failure 404 {object} ErrorResponse "Session not found"
// @Security BearerAuth
// @Router /session/{id}/upload [post]
func (h *Handlers) UploadImage(w http.ResponseWriter, r *http.Request) {
	url, filename, err := h.Session.PrepareUpload(mux.Vars(r)["id"])
	if err != nil {
		h.respondSessionError(w, "UploadImage", err)
		return
	}
	respondWithJSON(w, http.StatusOK, UploadResponse{URL: url, Filename: filename})
}

// respondSessionError maps service and session errors onto HTTP codes.
func (h *Handlers) respondSessionError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "Session not found.")
	case errors.Is(err, session.ErrFileTooLarge):
		respondWithError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, session.ErrInvalidArguments):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrNoImageSelected):
		respondWithError(w, http.StatusBadRequest, "No image selected.")
	case errors.Is(err, imaging.ErrDecode), errors.Is(err, imaging.ErrEncode):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrStillLoading):
		respondWithError(w, http.StatusConflict, "Image still loading.")
	default:
		logging.Log.Errorf("%s: unhandled error: %v", op, err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error.")
	}
}
