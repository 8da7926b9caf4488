// Package storage provides functionality for storing and managing blobs
// on the local filesystem.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// SaveFile streams reader data into the file at path. The data goes
// through a temp file in the same directory first: a rehydration read
// must never see a partially written blob.
func SaveFile(fileData io.Reader, path string) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("could not create blob file: %w", err)
	}
	defer os.Remove(tmp.Name())

	size, err := io.Copy(tmp, fileData)
	if err != nil {
		tmp.Close()
		return 0, fmt.Errorf("could not write blob file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("could not close blob file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, fmt.Errorf("could not move blob into place: %w", err)
	}
	return size, nil
}
