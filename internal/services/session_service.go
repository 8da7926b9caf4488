package services

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"imagehub/internal/config"
	"imagehub/internal/imaging"
	"imagehub/internal/logging"
	"imagehub/internal/repository"
	"imagehub/internal/session"
	"imagehub/internal/storage"

	"github.com/oklog/ulid/v2"
	"github.com/patrickmn/go-cache"
)

var _ SessionService = (*sessionService)(nil)

// sessionService manages the set of live image sessions. Live sessions
// (with their pixel data) sit in a TTL registry; durable metadata lives
// in the repository, and the uploaded original bytes in blob storage so
// an evicted session can be rehydrated.
type sessionService struct {
	cfg      *config.Config
	repo     *repository.Repository
	uploader Uploader
	registry *cache.Cache
	codec    *imaging.Codec
	scaler   *imaging.ProgressiveScaler
}

// NewSessionService creates a new SessionService.
func NewSessionService(cfg *config.Config, repo *repository.Repository, uploader Uploader) (*sessionService, error) {
	resampler, err := imaging.NewResampler(cfg.Image.Resampler)
	if err != nil {
		return nil, err
	}

	ttl := time.Duration(cfg.Image.SessionTTL) * time.Minute
	return &sessionService{
		cfg:      cfg,
		repo:     repo,
		uploader: uploader,
		registry: cache.New(ttl, ttl/2),
		codec:    &imaging.Codec{Quality: cfg.Image.JPEGQuality},
		scaler:   &imaging.ProgressiveScaler{Resampler: resampler},
	}, nil
}

func (s *sessionService) limits() session.Limits {
	return session.Limits{
		MaxFileSize: s.cfg.MaxFileSizeBytes,
		MaxWidth:    s.cfg.Image.MaxWidth,
		MaxHeight:   s.cfg.Image.MaxHeight,
	}
}

// CreateSession registers a new empty session.
func (s *sessionService) CreateSession() (*repository.SessionRecord, error) {
	rec := &repository.SessionRecord{ID: ulid.Make().String()}
	if err := s.repo.CreateSession(rec); err != nil {
		return nil, err
	}

	s.registry.Set(rec.ID, session.New(s.limits(), s.codec, s.scaler), cache.DefaultExpiration)
	logging.Log.Infof("SessionService: session created: %s", rec.ID)
	return rec, nil
}

// GetSession returns the stored metadata for a session.
func (s *sessionService) GetSession(id string) (*repository.SessionRecord, error) {
	rec, err := s.repo.GetSession(id)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return nil, ErrNotFound
	}
	return rec, err
}

// ListSessions returns session metadata ordered by most recent activity.
func (s *sessionService) ListSessions(limit int) ([]repository.SessionRecord, error) {
	return s.repo.ListSessions(limit)
}

// DeleteSession drops a session, its metadata and its blobs.
func (s *sessionService) DeleteSession(id string) error {
	s.registry.Delete(id)

	if err := s.repo.DeleteSession(id); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := storage.RemoveSessionFiles(s.cfg.Database.StorageRoot, id); err != nil {
		logging.Log.Warnf("SessionService: failed to remove files for %s: %v", id, err)
	}
	logging.Log.Infof("SessionService: session deleted: %s", id)
	return nil
}

// SelectImage loads a new image into the session and persists the
// original bytes for later rehydration.
func (s *sessionService) SelectImage(id string, file io.Reader, declaredSize int64, filename string) (*repository.SessionRecord, error) {
	sess, rec, err := s.live(id)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("could not read upload: %w", err)
	}

	raster, err := sess.Select(data, declaredSize, filename)
	if err != nil {
		return nil, err
	}

	if err := s.saveOriginal(id, filename, data); err != nil {
		// The session is usable either way; rehydration just won't work.
		logging.Log.Warnf("SessionService: failed to save original for %s: %v", id, err)
	}

	rec.State = string(session.StateReady)
	rec.SourceFormat = raster.Format()
	rec.SourceName = filename
	rec.Width, rec.Height = raster.Width(), raster.Height()
	rec.OriginalWidth, rec.OriginalHeight = raster.Width(), raster.Height()
	if err := s.repo.UpdateSession(rec); err != nil {
		return nil, err
	}
	logging.Log.Infof("SessionService: image selected in %s: %s %dx%d",
		id, raster.Format(), raster.Width(), raster.Height())
	return rec, nil
}

// ResizeImage scales the session's working raster. A nil record with nil
// error means there was nothing to do yet (no image, or still loading).
func (s *sessionService) ResizeImage(id string, width, height int, keepAspect bool) (*repository.SessionRecord, error) {
	sess, rec, err := s.live(id)
	if err != nil {
		return nil, err
	}

	raster, err := sess.Resize(width, height, keepAspect)
	if err != nil {
		return nil, err
	}
	if raster == nil {
		return nil, nil
	}
	return s.updateDims(rec, raster.Width(), raster.Height())
}

// CropImage extracts a sub-region of the working raster.
func (s *sessionService) CropImage(id string, top, left, width, height int) (*repository.SessionRecord, error) {
	sess, rec, err := s.live(id)
	if err != nil {
		return nil, err
	}

	raster, err := sess.Crop(top, left, width, height)
	if err != nil {
		return nil, err
	}
	return s.updateDims(rec, raster.Width(), raster.Height())
}

// RestoreImage resets the working raster from the original.
func (s *sessionService) RestoreImage(id string) (*repository.SessionRecord, error) {
	sess, rec, err := s.live(id)
	if err != nil {
		return nil, err
	}

	raster, err := sess.Restore()
	if err != nil {
		return nil, err
	}
	if raster == nil {
		return nil, nil
	}
	return s.updateDims(rec, raster.Width(), raster.Height())
}

// GetSelectedImage encodes the current working raster for serving.
func (s *sessionService) GetSelectedImage(id string) ([]byte, string, error) {
	sess, _, err := s.live(id)
	if err != nil {
		return nil, "", err
	}
	return sess.EncodeSelected()
}

// PrepareUpload encodes the working raster and hands it to the uploader.
func (s *sessionService) PrepareUpload(id string) (string, string, error) {
	sess, _, err := s.live(id)
	if err != nil {
		return "", "", err
	}

	blob, filename, err := sess.UploadPrepare()
	if err != nil {
		return "", "", err
	}

	url, err := s.uploader.Upload(id, filename, blob)
	if err != nil {
		return "", "", err
	}
	return url, filename, nil
}

// Cleanup removes sessions idle past the configured TTL, plus expired
// refresh tokens.
func (s *sessionService) Cleanup() error {
	cutoff := time.Now().Add(-time.Duration(s.cfg.Image.SessionTTL) * time.Minute)
	ids, err := s.repo.DeleteSessionsIdleSince(cutoff)
	if err != nil {
		return err
	}
	for _, id := range ids {
		s.registry.Delete(id)
		if err := storage.RemoveSessionFiles(s.cfg.Database.StorageRoot, id); err != nil {
			logging.Log.Warnf("SessionService: cleanup of %s left files behind: %v", id, err)
		}
	}
	if len(ids) > 0 {
		logging.Log.Infof("SessionService: cleaned up %d idle sessions", len(ids))
	}
	return s.repo.DeleteExpiredRefreshTokens()
}

// live returns the in-memory session for an id, rehydrating it from the
// stored original when the registry evicted it.
func (s *sessionService) live(id string) (*session.Session, *repository.SessionRecord, error) {
	rec, err := s.repo.GetSession(id)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	if cached, ok := s.registry.Get(id); ok {
		return cached.(*session.Session), rec, nil
	}

	sess := session.New(s.limits(), s.codec, s.scaler)
	if rec.State == string(session.StateReady) {
		if err := s.rehydrate(sess, rec); err != nil {
			logging.Log.Warnf("SessionService: could not rehydrate %s: %v", id, err)
			rec.State = string(session.StateEmpty)
			rec.Width, rec.Height = 0, 0
			if err := s.repo.UpdateSession(rec); err != nil {
				return nil, nil, err
			}
		}
	}

	s.registry.Set(id, sess, cache.DefaultExpiration)
	return sess, rec, nil
}

// rehydrate reloads an evicted session from its saved original bytes.
// Edits made since the original upload are gone; the record's dimensions
// are reset accordingly.
func (s *sessionService) rehydrate(sess *session.Session, rec *repository.SessionRecord) error {
	path, err := storage.GetOriginalPath(s.cfg.Database.StorageRoot, rec.ID, rec.SourceName)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	raster, err := sess.Select(data, int64(len(data)), rec.SourceName)
	if err != nil {
		return err
	}

	if rec.Width != raster.Width() || rec.Height != raster.Height() {
		rec.Width, rec.Height = raster.Width(), raster.Height()
		if err := s.repo.UpdateSession(rec); err != nil {
			return err
		}
	}
	logging.Log.Debugf("SessionService: rehydrated %s from %s", rec.ID, path)
	return nil
}

func (s *sessionService) saveOriginal(id, filename string, data []byte) error {
	path, err := storage.GetOriginalPath(s.cfg.Database.StorageRoot, id, filename)
	if err != nil {
		return err
	}
	_, err = storage.SaveFile(bytes.NewReader(data), path)
	return err
}

func (s *sessionService) updateDims(rec *repository.SessionRecord, w, h int) (*repository.SessionRecord, error) {
	rec.Width, rec.Height = w, h
	if err := s.repo.UpdateSession(rec); err != nil {
		return nil, err
	}
	return rec, nil
}
