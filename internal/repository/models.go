package repository

import (
	"errors"
	"time"
)

// ErrSessionNotFound is returned when a session id has no record.
var ErrSessionNotFound = errors.New("session not found")

// ErrTokenNotFound is returned for unknown or expired refresh tokens.
var ErrTokenNotFound = errors.New("refresh token not found")

// SessionRecord is the persisted metadata of an image session. Pixel data
// never enters the database; it lives in the session registry and the
// blob storage.
type SessionRecord struct {
	ID             string    `json:"id"`
	State          string    `json:"state"`
	SourceFormat   string    `json:"source_format,omitempty"`
	SourceName     string    `json:"source_name,omitempty"`
	Width          int       `json:"width"`
	Height         int       `json:"height"`
	OriginalWidth  int       `json:"original_width"`
	OriginalHeight int       `json:"original_height"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
