package auth

import (
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Session holds the current credential. It is the only writer of the token;
// every other component reads it through Token or a change listener.
type Session struct {
	store TokenStore
	log   *zap.Logger

	mu        sync.RWMutex
	token     string
	listeners []func(token string)

	hydrateOnce sync.Once
	hydrated    chan struct{}
}

// NewSession creates a session backed by store. It starts un-hydrated.
func NewSession(store TokenStore, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		store:    store,
		log:      log,
		hydrated: make(chan struct{}),
	}
}

// Hydrate restores the persisted token and flips the hydration signal. Only
// the first call does anything; a load error leaves the session logged out.
func (s *Session) Hydrate() error {
	var loadErr error
	s.hydrateOnce.Do(func() {
		token, err := s.store.Load()
		if err != nil {
			loadErr = err
			s.log.Warn("restoring session failed", zap.Error(err))
		}

		s.mu.Lock()
		changed := false
		if s.token == "" && token != "" {
			s.token = token
			changed = true
		}
		listeners := s.snapshotListeners()
		s.mu.Unlock()

		close(s.hydrated)
		if changed {
			notify(listeners, token)
		}
	})
	return loadErr
}

// Hydrated reports whether restoration has completed.
func (s *Session) Hydrated() bool {
	select {
	case <-s.hydrated:
		return true
	default:
		return false
	}
}

// Done is closed once hydration completes.
func (s *Session) Done() <-chan struct{} {
	return s.hydrated
}

// Token returns the current credential and whether one is set.
func (s *Session) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// Set replaces the credential and persists it. An empty token clears.
// The in-memory credential is replaced even when persisting fails.
func (s *Session) Set(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return s.Clear()
	}
	if !s.replace(token) {
		return nil
	}
	if err := s.store.Save(token); err != nil {
		s.log.Error("persisting session failed", zap.Error(err))
		return err
	}
	return nil
}

// Clear drops the credential and its persisted copy.
func (s *Session) Clear() error {
	s.replace("")
	if err := s.store.Clear(); err != nil {
		s.log.Error("clearing session failed", zap.Error(err))
		return err
	}
	return nil
}

// Logout is Clear under the name the UI uses.
func (s *Session) Logout() error {
	return s.Clear()
}

// OnChange registers fn to run after every credential change, outside the lock.
func (s *Session) OnChange(fn func(token string)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

func (s *Session) replace(token string) bool {
	s.mu.Lock()
	if s.token == token {
		s.mu.Unlock()
		return false
	}
	s.token = token
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	notify(listeners, token)
	return true
}

func (s *Session) snapshotListeners() []func(string) {
	return append([]func(string){}, s.listeners...)
}

func notify(listeners []func(string), token string) {
	for _, fn := range listeners {
		fn(token)
	}
}
