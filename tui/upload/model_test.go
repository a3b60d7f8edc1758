package upload

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/CrestNiraj12/iav/domain"
)

type stubUpload struct {
	path string
	msg  string
	err  error
}

func (s *stubUpload) UploadArchive(_ context.Context, _ string, path string) (string, error) {
	s.path = path
	return s.msg, s.err
}

func writeZip(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "archive.ZIP")
	if err := os.WriteFile(p, []byte("PK\x03\x04"), 0o600); err != nil {
		t.Fatalf("write zip: %v", err)
	}
	return p
}

func TestArchivePath_Validation(t *testing.T) {
	if _, err := ArchivePath("   "); !errors.Is(err, domain.ErrEmptyField) {
		t.Fatalf("expected empty field error, got %v", err)
	}
	if _, err := ArchivePath("/tmp/archive.tar.gz"); err == nil {
		t.Fatalf("expected non-zip rejection")
	}
	if _, err := ArchivePath(filepath.Join(t.TempDir(), "missing.zip")); err == nil {
		t.Fatalf("expected missing file error")
	}
	p := writeZip(t)
	if got, err := ArchivePath("  " + p + " "); err != nil || got != p {
		t.Fatalf("unexpected result: %q %v", got, err)
	}
}

func TestSubmit_UploadsAndEmitsDone(t *testing.T) {
	svc := &stubUpload{msg: "Archive processed"}
	p := writeZip(t)
	m := New(svc, "tok", nil)
	m.input.SetValue(p)

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.Busy() || cmd == nil {
		t.Fatalf("expected upload in flight")
	}
	m, cmd = m.Update(findResult(t, cmd))
	if cmd == nil {
		t.Fatalf("expected done command")
	}
	done, ok := cmd().(DoneMsg)
	if !ok || done.Message != "Archive processed" || svc.path != p {
		t.Fatalf("unexpected done: %#v path=%q", done, svc.path)
	}
	if m.input.Value() != "" {
		t.Fatalf("expected input cleared")
	}
}

func TestSubmit_ErrorShown(t *testing.T) {
	m := New(&stubUpload{}, "tok", nil)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !strings.Contains(m.View(), "Error: archive path") {
		t.Fatalf("expected validation error in view, got %q", m.View())
	}
}

func TestSubmit_UploadFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	m := New(&stubUpload{err: errors.New("413 too large")}, "tok", zap.New(core))
	m.input.SetValue(writeZip(t))

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = m.Update(findResult(t, cmd))
	if m.Busy() {
		t.Fatalf("expected busy cleared")
	}
	entries := logs.FilterMessage("archive upload failed").All()
	if len(entries) != 1 || entries[0].ContextMap()["error"] != "413 too large" {
		t.Fatalf("expected one warning, got %+v", logs.All())
	}
}

func findResult(t *testing.T, cmd tea.Cmd) resultMsg {
	t.Helper()
	batch, ok := cmd().(tea.BatchMsg)
	if !ok {
		t.Fatalf("expected batched command")
	}
	for _, c := range batch {
		if c == nil {
			continue
		}
		if res, ok := c().(resultMsg); ok {
			return res
		}
	}
	t.Fatalf("no upload result in batch")
	return resultMsg{}
}
