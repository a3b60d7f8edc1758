package hashtags

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/CrestNiraj12/iav/domain"
)

type stubHashtags struct {
	items []domain.Hashtag
	err   error
}

func (s stubHashtags) ListHashtags(context.Context, string) ([]domain.Hashtag, error) {
	return s.items, s.err
}

func TestView_ListsHashtagsWithDates(t *testing.T) {
	svc := stubHashtags{items: []domain.Hashtag{
		{ID: 1, Name: "golang", Timestamp: time.Date(2022, time.May, 1, 0, 0, 0, 0, time.UTC)},
		{ID: 2, Name: "terminal"},
	}}
	m, cmd := New(svc, "tok", nil).Ensure()
	if cmd == nil {
		t.Fatalf("expected fetch command")
	}
	m, _ = m.Update(loadedMsg{seq: m.reqSeq, items: svc.items})
	view := m.View()
	for _, want := range []string{"#golang", "May 1, 2022", "#terminal", "N/A"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view, got %q", want, view)
		}
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	if m.offset != 1 {
		t.Fatalf("expected scroll, offset=%d", m.offset)
	}
}

func TestView_ErrorAndEmpty(t *testing.T) {
	m, _ := New(stubHashtags{}, "tok", nil).Ensure()
	m, _ = m.Update(loadedMsg{seq: m.reqSeq, err: errors.New("nope")})
	if !strings.Contains(m.View(), "Error: nope") {
		t.Fatalf("expected error text")
	}
	m, _ = m.fetch()
	m, _ = m.Update(loadedMsg{seq: m.reqSeq})
	if !strings.Contains(m.View(), "No hashtags found.") {
		t.Fatalf("expected empty text, got %q", m.View())
	}
}

func TestLoad_FailureIsLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	m, _ := New(stubHashtags{}, "tok", zap.New(core)).Ensure()
	m, _ = m.Update(loadedMsg{seq: m.reqSeq, err: errors.New("nope")})
	m, _ = m.fetch()
	_, _ = m.Update(loadedMsg{seq: m.reqSeq})

	entries := logs.FilterMessage("loading hashtags").All()
	if len(entries) != 1 || entries[0].ContextMap()["error"] != "nope" {
		t.Fatalf("expected one warning for the failed load, got %+v", logs.All())
	}
}
