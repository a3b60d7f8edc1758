package auth

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileTokenStore_SaveLoadClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token")
	s := NewFileTokenStore(path)

	got, err := s.Load()
	if err != nil || got != "" {
		t.Fatalf("missing token should load empty without error: %q %v", got, err)
	}

	if err := s.Save("  abc123 \n"); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat token failed: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("token must be owner-only, got %v", info.Mode().Perm())
	}

	got, err = s.Load()
	if err != nil || got != "abc123" {
		t.Fatalf("unexpected token: %q %v", got, err)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("second clear should be a no-op: %v", err)
	}
	got, _ = s.Load()
	if got != "" {
		t.Fatalf("expected empty token after clear, got %q", got)
	}
}

func TestFileTokenStore_LoadErrorOnDirectory(t *testing.T) {
	s := NewFileTokenStore(t.TempDir())
	if _, err := s.Load(); err == nil {
		t.Fatalf("expected error reading a directory as token")
	}
}
