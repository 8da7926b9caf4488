// Package session implements the image editing session: a working raster,
// the pristine original it can be restored from, and the resize / crop /
// upload-prepare operations over them.
package session

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"imagehub/internal/imaging"
	"imagehub/internal/logging"
)

// State describes the session lifecycle.
type State string

const (
	StateEmpty   State = "empty"
	StateLoading State = "loading"
	StateReady   State = "ready"
)

// Limits are the per-session constraints. Zero values mean unconstrained.
type Limits struct {
	MaxFileSize int64
	MaxWidth    int
	MaxHeight   int
}

// Session owns one image at a time. Mutating operations are serialized
// through an internal mutex; while a load is in flight, other mutating
// calls are rejected rather than queued.
type Session struct {
	mu      sync.Mutex
	limits  Limits
	codec   *imaging.Codec
	scaler  *imaging.ProgressiveScaler
	loading bool

	original     *imaging.Raster // never mutated after a successful load
	selected     *imaging.Raster // replaced by every resize/crop
	sourceFormat string
	sourceName   string
}

// New creates an empty session with the given limits and collaborators.
func New(limits Limits, codec *imaging.Codec, scaler *imaging.ProgressiveScaler) *Session {
	return &Session{
		limits: limits,
		codec:  codec,
		scaler: scaler,
	}
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading {
		return StateLoading
	}
	if s.selected == nil {
		return StateEmpty
	}
	return StateReady
}

// Selected returns the current working raster, or nil when empty.
func (s *Session) Selected() *imaging.Raster {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Original returns the raster stored at load time, or nil when empty.
func (s *Session) Original() *imaging.Raster {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.original
}

// SourceFormat returns the mime type captured at load time.
func (s *Session) SourceFormat() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sourceFormat
}

// Select loads a new image into the session. The declared size is checked
// against the file-size limit before any decode work. On success the
// decoded raster, downscaled to the session's max dimensions, replaces
// both original and selected atomically.
func (s *Session) Select(data []byte, declaredSize int64, filename string) (*imaging.Raster, error) {
	if s.limits.MaxFileSize > 0 && declaredSize > s.limits.MaxFileSize {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrFileTooLarge, declaredSize, s.limits.MaxFileSize)
	}

	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return nil, ErrStillLoading
	}
	s.loading = true
	s.mu.Unlock()

	raster, err := s.load(data)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		// Failed pipeline: previous original/selected stay untouched.
		return nil, err
	}

	s.original = raster
	s.selected = raster
	s.sourceFormat = raster.Format()
	s.sourceName = filename
	return raster, nil
}

// load runs the decode-and-fit pipeline outside the lock.
func (s *Session) load(data []byte) (*imaging.Raster, error) {
	raster, err := s.codec.Decode(data)
	if err != nil {
		return nil, err
	}

	// No explicit target on initial load: only the max clamps apply.
	w, h := imaging.ResolveDimensions(raster.Width(), raster.Height(), imaging.ResolveOptions{
		KeepAspect: true,
		MaxWidth:   s.limits.MaxWidth,
		MaxHeight:  s.limits.MaxHeight,
	})
	if imaging.IsNoopResize(raster.Width(), raster.Height(), w, h) {
		return raster, nil
	}

	logging.Log.Debugf("session: initial load downscale %dx%d -> %dx%d",
		raster.Width(), raster.Height(), w, h)
	return s.scaler.Scale(raster, w, h), nil
}

// Resize scales the working raster to the requested target. A zero
// target dimension means "not requested"; requesting neither is an
// error. Returns (nil, nil) when there is nothing to resize or a load is
// still in flight, so callers can poll and continue.
func (s *Session) Resize(targetW, targetH int, keepAspect bool) (*imaging.Raster, error) {
	// Held for the whole operation: two concurrent edits must not
	// interleave, or the later write-back would drop the earlier edit.
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selected == nil && !s.loading {
		return nil, nil
	}
	if targetW <= 0 && targetH <= 0 {
		return nil, fmt.Errorf("%w: at least one target dimension required", ErrInvalidArguments)
	}
	if s.loading {
		logging.Log.Warn("session: resize rejected, image still loading")
		return nil, nil
	}
	src := s.selected

	// Resolve against the current working raster, not the original.
	w, h := imaging.ResolveDimensions(src.Width(), src.Height(), imaging.ResolveOptions{
		TargetWidth:  targetW,
		TargetHeight: targetH,
		KeepAspect:   keepAspect,
		MaxWidth:     s.limits.MaxWidth,
		MaxHeight:    s.limits.MaxHeight,
	})
	if imaging.IsNoopResize(src.Width(), src.Height(), w, h) {
		return src, nil
	}

	s.selected = s.scaler.Scale(src, w, h)
	return s.selected, nil
}

// Crop replaces the working raster with the sub-region at (left, top).
// Origins outside the raster are rejected; the extent is clamped so the
// region never reaches past the raster edge.
func (s *Session) Crop(top, left, width, height int) (*imaging.Raster, error) {
	// Held for the whole operation, same as Resize.
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loading {
		return nil, ErrStillLoading
	}
	if s.selected == nil {
		return nil, ErrNoImageSelected
	}
	src := s.selected

	if top < 0 || left < 0 || top >= src.Height() || left >= src.Width() {
		return nil, fmt.Errorf("%w: crop origin (%d,%d) outside %dx%d raster",
			ErrInvalidArguments, left, top, src.Width(), src.Height())
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: crop size must be positive", ErrInvalidArguments)
	}

	if width > src.Width()-left {
		width = src.Width() - left
	}
	if height > src.Height()-top {
		height = src.Height() - top
	}

	s.selected = src.Crop(top, left, width, height)
	return s.selected, nil
}

// Restore resets the working raster from the original. Returns (nil, nil)
// with a warning when no original exists yet.
func (s *Session) Restore() (*imaging.Raster, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading {
		logging.Log.Warn("session: restore rejected, image still loading")
		return nil, nil
	}
	if s.original == nil {
		logging.Log.Warn("session: nothing to restore")
		return nil, nil
	}
	s.selected = s.original.Clone()
	return s.selected, nil
}

// UploadPrepare encodes the working raster with the captured source
// format and derives an output filename from it.
func (s *Session) UploadPrepare() ([]byte, string, error) {
	s.mu.Lock()
	selected := s.selected
	format := s.sourceFormat
	name := s.sourceName
	s.mu.Unlock()

	if selected == nil {
		return nil, "", ErrNoImageSelected
	}
	if format == "" {
		format = imaging.DefaultFormat
	}

	blob, err := s.codec.Encode(selected, format)
	if err != nil {
		return nil, "", err
	}
	return blob, outputFilename(name, format), nil
}

// EncodeSelected serializes the current working raster with the captured
// source format, for serving it back to the client.
func (s *Session) EncodeSelected() ([]byte, string, error) {
	s.mu.Lock()
	selected := s.selected
	format := s.sourceFormat
	s.mu.Unlock()

	if selected == nil {
		return nil, "", ErrNoImageSelected
	}
	if format == "" {
		format = imaging.DefaultFormat
	}
	blob, err := s.codec.Encode(selected, format)
	return blob, format, err
}

// outputFilename swaps the extension of the uploaded name for one
// matching the output format, falling back to a generic stem.
func outputFilename(uploadedName, format string) string {
	stem := strings.TrimSuffix(filepath.Base(uploadedName), filepath.Ext(uploadedName))
	if stem == "" || stem == "." {
		stem = "image"
	}
	return stem + imaging.ExtensionForFormat(format)
}
