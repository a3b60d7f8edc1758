package gallery

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/CrestNiraj12/iav/app"
	"github.com/CrestNiraj12/iav/domain"
)

// Store fetches the media listing once per credential and keeps it
// deduplicated. Concurrent loads for the same credential share one request.
type Store struct {
	media app.MediaService
	log   *zap.Logger
	group singleflight.Group

	mu      sync.RWMutex
	token   string
	records []domain.MediaRecord
	loaded  bool
	gen     uint64 // Bumped by Invalidate; older fetches are not stored
}

// NewStore creates a listing store over media.
func NewStore(media app.MediaService, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{media: media, log: log}
}

// Load returns the listing for token, fetching it only when the credential
// changed since the last successful load or when force is set.
func (s *Store) Load(ctx context.Context, token string, force bool) ([]domain.MediaRecord, error) {
	if token == "" {
		return nil, domain.ErrNoCredential
	}
	if !force {
		s.mu.RLock()
		if s.loaded && s.token == token {
			records := s.records
			s.mu.RUnlock()
			return records, nil
		}
		s.mu.RUnlock()
	}

	v, err, _ := s.group.Do(token, func() (any, error) {
		s.mu.RLock()
		gen := s.gen
		s.mu.RUnlock()

		records, err := s.media.ListMedia(ctx, token)
		if err != nil {
			return nil, err
		}
		records = Dedupe(records)

		s.mu.Lock()
		if s.gen == gen {
			s.token = token
			s.records = records
			s.loaded = true
		}
		s.mu.Unlock()
		return records, nil
	})
	if err != nil {
		s.log.Warn("loading media listing failed", zap.Error(err))
		return nil, err
	}
	return v.([]domain.MediaRecord), nil
}

// Records returns the cached listing for token, if any.
func (s *Store) Records(token string) ([]domain.MediaRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded || s.token != token {
		return nil, false
	}
	return s.records, true
}

// Invalidate forgets the cached listing.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.token = ""
	s.records = nil
	s.loaded = false
	s.gen++
	s.mu.Unlock()
}
