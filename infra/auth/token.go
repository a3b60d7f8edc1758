package auth

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// TokenStore persists the session token between runs. Nothing but the token
// is ever written.
type TokenStore interface {
	// Load returns the stored token, or "" when none is stored.
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// FileTokenStore keeps the bearer token in a single file on disk.
type FileTokenStore struct {
	path string
}

// NewFileTokenStore creates a TokenStore backed by the given file path.
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

// Load reads the token, trimming whitespace. A missing file is not an error.
func (f *FileTokenStore) Load() (string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading token from %s: %w", f.path, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Save writes the token with owner-only permissions.
func (f *FileTokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("creating auth directory: %w", err)
	}
	if err := os.WriteFile(f.path, []byte(strings.TrimSpace(token)), 0o600); err != nil {
		return fmt.Errorf("writing token to %s: %w", f.path, err)
	}
	return nil
}

// Clear removes the token file. Clearing an absent token is a no-op.
func (f *FileTokenStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing token %s: %w", f.path, err)
	}
	return nil
}
