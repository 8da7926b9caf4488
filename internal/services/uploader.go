package services

import (
	"bytes"
	"fmt"
	"path/filepath"

	"imagehub/internal/logging"
	"imagehub/internal/storage"
)

var _ Uploader = (*OutboxUploader)(nil)

// OutboxUploader is the bundled Uploader: it writes prepared payloads to
// a per-session outbox directory under the storage root and returns a
// file URL. An external transport can pick the blobs up from there.
type OutboxUploader struct {
	StorageRoot string
}

// NewOutboxUploader creates a new OutboxUploader.
func NewOutboxUploader(storageRoot string) *OutboxUploader {
	return &OutboxUploader{StorageRoot: storageRoot}
}

// Upload stores the payload and returns its file URL.
func (u *OutboxUploader) Upload(sessionID, filename string, blob []byte) (string, error) {
	path, err := storage.GetOutboxPath(u.StorageRoot, sessionID, filename)
	if err != nil {
		return "", err
	}
	if _, err := storage.SaveFile(bytes.NewReader(blob), path); err != nil {
		return "", err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("could not resolve outbox path: %w", err)
	}

	logging.Log.Infof("Uploader: stored %d bytes at %s", len(blob), abs)
	return "file://" + filepath.ToSlash(abs), nil
}
