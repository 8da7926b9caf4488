package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// getStoragePath is an internal helper to create and validate storage paths.
// subDirs are joined after storageRoot (e.g., "originals", sessionID).
func getStoragePath(storageRoot, fileName string, subDirs ...string) (string, error) {
	dir := filepath.Join(storageRoot, filepath.Join(subDirs...))

	// --- SECURITY: Prevent Path Traversal ---
	cleanedDir := filepath.Clean(dir)
	cleanedRoot := filepath.Clean(storageRoot)
	if !strings.HasPrefix(cleanedDir, cleanedRoot) || cleanedDir == cleanedRoot {
		return "", fmt.Errorf("invalid path: potential path traversal")
	}

	if err := os.MkdirAll(cleanedDir, 0755); err != nil {
		return "", fmt.Errorf("could not create directory structure: %w", err)
	}

	return filepath.Join(cleanedDir, filepath.Base(fileName)), nil
}

// GetOriginalPath generates the path where a session's uploaded original
// bytes are kept, creating the directory if needed.
func GetOriginalPath(storageRoot, sessionID, fileName string) (string, error) {
	return getStoragePath(storageRoot, fileName, "originals", sessionID)
}

// GetOutboxPath generates the path for a prepared upload payload,
// creating the directory if needed.
func GetOutboxPath(storageRoot, sessionID, fileName string) (string, error) {
	return getStoragePath(storageRoot, fileName, "outbox", sessionID)
}

// RemoveSessionFiles deletes all blobs belonging to one session.
func RemoveSessionFiles(storageRoot, sessionID string) error {
	for _, sub := range []string{"originals", "outbox"} {
		dir := filepath.Join(storageRoot, sub, sessionID)
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("could not remove %s: %w", dir, err)
		}
	}
	return nil
}
