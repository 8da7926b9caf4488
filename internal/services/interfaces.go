package services

import (
	"io"
	"time"

	"imagehub/internal/repository"
)

// Info describes the running service.
type Info struct {
	Version     string    `json:"version"`
	UptimeSince time.Time `json:"uptime_since"`
}

// InfoService defines the interface for the info service.
type InfoService interface {
	GetInfo() Info
}

// SessionService defines the interface for managing image sessions.
// Mutating operations return the updated session record; warning-level
// conditions (nothing loaded yet, load still in flight) return a nil
// record with a nil error so callers can poll and continue.
type SessionService interface {
	CreateSession() (*repository.SessionRecord, error)
	GetSession(id string) (*repository.SessionRecord, error)
	ListSessions(limit int) ([]repository.SessionRecord, error)
	DeleteSession(id string) error

	SelectImage(id string, file io.Reader, declaredSize int64, filename string) (*repository.SessionRecord, error)
	ResizeImage(id string, width, height int, keepAspect bool) (*repository.SessionRecord, error)
	CropImage(id string, top, left, width, height int) (*repository.SessionRecord, error)
	RestoreImage(id string) (*repository.SessionRecord, error)

	// GetSelectedImage encodes the current working raster for serving.
	// Returns the blob and its mime type.
	GetSelectedImage(id string) ([]byte, string, error)

	// PrepareUpload encodes the working raster and hands it to the
	// uploader. Returns the upload URL and the derived filename.
	PrepareUpload(id string) (string, string, error)

	// Cleanup removes sessions idle past the configured TTL.
	Cleanup() error
}

// Uploader accepts a prepared payload and returns a URL for it. The
// network transport behind it is a collaborator boundary; the bundled
// implementation writes to a filesystem outbox.
type Uploader interface {
	Upload(sessionID, filename string, blob []byte) (string, error)
}
