package media

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/CrestNiraj12/iav/blob"
	"github.com/CrestNiraj12/iav/domain"
	"github.com/CrestNiraj12/iav/gallery"
)

type stubMedia struct {
	records  []domain.MediaRecord
	png      []byte
	fetchErr error
	fetches  atomic.Int32
}

func (s *stubMedia) ListMedia(context.Context, string) ([]domain.MediaRecord, error) {
	return s.records, nil
}

func (s *stubMedia) FetchMediaFile(_ context.Context, _ string, uri string) ([]byte, string, error) {
	s.fetches.Add(1)
	if s.fetchErr != nil {
		return nil, "", s.fetchErr
	}
	if strings.HasSuffix(uri, ".mp4") {
		return []byte("video"), "video/mp4", nil
	}
	return s.png, "image/png", nil
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 40, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 6), G: 100, B: uint8(y * 12), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func record(id int, typ domain.MediaType, day int, uri string) domain.MediaRecord {
	return domain.MediaRecord{
		ID:      id,
		URI:     uri,
		Type:    typ,
		Caption: "caption",
		TakenAt: time.Date(2024, time.March, day, 0, 0, 0, 0, time.UTC),
	}
}

func newTestModel(t *testing.T, pageSize int, records ...domain.MediaRecord) (Model, *stubMedia, *blob.Pool) {
	t.Helper()
	svc := &stubMedia{records: records, png: testPNG(t)}
	pool, err := blob.NewPool(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	t.Cleanup(func() { _ = pool.Close() })
	m := New(Deps{
		Store:    gallery.NewStore(svc, zap.NewNop()),
		Fetcher:  svc,
		Pool:     pool,
		PageSize: pageSize,
	}, "tok")
	return m, svc, pool
}

// drain runs cmd and every command it batches, returning the leaf messages.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func loadListing(t *testing.T, m Model) (Model, tea.Cmd) {
	t.Helper()
	return m.Update(m.fetchListing(m.reqSeq, false)())
}

func applyAll(m Model, msgs []tea.Msg) Model {
	for _, msg := range msgs {
		m, _ = m.Update(msg)
	}
	return m
}

func TestListing_LoadsOnlyVisiblePage(t *testing.T) {
	m, svc, pool := newTestModel(t, 2,
		record(1, domain.MediaPost, 1, "a.png"),
		record(2, domain.MediaPost, 2, "b.png"),
		record(3, domain.MediaPost, 3, "c.png"),
		record(4, domain.MediaStory, 4, "d.png"),
	)
	m, cmd := loadListing(t, m)

	if got := len(m.Items()); got != 3 {
		t.Fatalf("expected 3 posts, got %d", got)
	}
	if m.Items()[0].ID != 3 {
		t.Fatalf("expected newest post first, got %d", m.Items()[0].ID)
	}
	m = applyAll(m, drain(cmd))

	if n := svc.fetches.Load(); n != 2 {
		t.Fatalf("expected 2 fetches for one page, got %d", n)
	}
	if pool.Live() != 2 {
		t.Fatalf("expected 2 live handles, got %d", pool.Live())
	}
	if len(m.previews) != 2 {
		t.Fatalf("expected rendered previews, got %d", len(m.previews))
	}
}

func TestPaging_ClosesLoadersLeavingThePage(t *testing.T) {
	m, _, pool := newTestModel(t, 2,
		record(1, domain.MediaPost, 1, "a.png"),
		record(2, domain.MediaPost, 2, "b.png"),
		record(3, domain.MediaPost, 3, "c.png"),
	)
	m, cmd := loadListing(t, m)
	m = applyAll(m, drain(cmd))

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	if pool.Live() != 0 {
		t.Fatalf("expected first page handles revoked, live=%d", pool.Live())
	}
	if len(m.loaders) != 1 {
		t.Fatalf("expected one loader for second page, got %d", len(m.loaders))
	}
	m = applyAll(m, drain(cmd))
	if pool.Live() != 1 {
		t.Fatalf("expected one live handle, got %d", pool.Live())
	}
}

func TestStaleResult_RevokedAfterItemLeavesPage(t *testing.T) {
	m, _, pool := newTestModel(t, 1,
		record(1, domain.MediaPost, 1, "a.png"),
		record(2, domain.MediaPost, 2, "b.png"),
	)
	m, first := loadListing(t, m)
	pending := drain(first)

	m, next := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	m = applyAll(m, pending)
	if pool.Live() != 0 {
		t.Fatalf("stale handle must be revoked on arrival, live=%d", pool.Live())
	}
	m = applyAll(m, drain(next))
	if pool.Live() != 1 {
		t.Fatalf("expected only the visible item's handle, live=%d", pool.Live())
	}
}

func TestTabSwitchAndClose(t *testing.T) {
	m, _, pool := newTestModel(t, 4,
		record(1, domain.MediaPost, 1, "a.png"),
		record(2, domain.MediaStory, 2, "b.mp4"),
	)
	m, cmd := loadListing(t, m)
	m = applyAll(m, drain(cmd))

	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.Prefs().Tab() != gallery.TabStories || len(m.Items()) != 1 {
		t.Fatalf("expected stories tab with one item")
	}
	m = applyAll(m, drain(cmd))
	if pool.Live() != 1 {
		t.Fatalf("expected only the story handle live, got %d", pool.Live())
	}
	h, ok := m.loaders[2].Ready()
	if !ok || h.Kind() != domain.KindVideo {
		t.Fatalf("expected ready video handle")
	}
	if !strings.Contains(m.View(), "Stories") {
		t.Fatalf("expected stories tab in view")
	}

	m.Close()
	if pool.Live() != 0 {
		t.Fatalf("expected no live handles after close, got %d", pool.Live())
	}
}

func TestRefresh_KeepsUnchangedLoaders(t *testing.T) {
	m, svc, _ := newTestModel(t, 4, record(1, domain.MediaPost, 1, "a.png"))
	m, cmd := loadListing(t, m)
	m = applyAll(m, drain(cmd))

	m, cmd = m.Refresh()
	m = applyAll(m, drain(cmd))
	if n := svc.fetches.Load(); n != 1 {
		t.Fatalf("expected no refetch for unchanged inputs, got %d fetches", n)
	}
	if _, ok := m.loaders[1].Ready(); !ok {
		t.Fatalf("expected loader to stay ready")
	}
}

func TestView_EmptyAndLayouts(t *testing.T) {
	m, _, _ := newTestModel(t, 4)
	m, _ = loadListing(t, m)
	if !strings.Contains(m.View(), "No posts found.") {
		t.Fatalf("expected empty state, got %q", m.View())
	}

	m, _, _ = newTestModel(t, 4, record(1, domain.MediaPost, 5, "a.png"))
	m, cmd := loadListing(t, m)
	m = applyAll(m, drain(cmd))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'v'}})
	if m.Prefs().Layout() != gallery.LayoutTimeline {
		t.Fatalf("expected timeline layout")
	}
	if !strings.Contains(m.View(), "March 2024") {
		t.Fatalf("expected month header in timeline view")
	}
}

func TestFailedTile_ShowsNeutralPlaceholder(t *testing.T) {
	m, svc, pool := newTestModel(t, 4, record(1, domain.MediaPost, 1, "a.png"))
	svc.fetchErr = errors.New("boom 500")
	m, cmd := loadListing(t, m)
	m = applyAll(m, drain(cmd))

	if got := m.loaders[1].State(); got != blob.StateFailed {
		t.Fatalf("expected failed loader, got %v", got)
	}
	view := m.View()
	for _, unwanted := range []string{"unavailable", "boom", "Error"} {
		if strings.Contains(view, unwanted) {
			t.Fatalf("failed tile must not show %q: %q", unwanted, view)
		}
	}
	if strings.Contains(view, "loading...") {
		t.Fatalf("failed tile must not look like it is still loading")
	}
	if pool.Live() != 0 {
		t.Fatalf("expected no live handles, got %d", pool.Live())
	}
}

func TestSpinnerTick_OnlyOwnTicksAdvanceFrames(t *testing.T) {
	m, _, _ := newTestModel(t, 4)
	m.previews[7] = &preview{frames: []string{"f0", "f1", "f2"}}

	other := spinner.New()
	m, _ = m.Update(spinner.TickMsg{ID: other.ID(), Time: time.Now()})
	if got := m.previews[7].index; got != 0 {
		t.Fatalf("foreign tick advanced frames to %d", got)
	}

	m, _ = m.Update(spinner.TickMsg{ID: m.spinner.ID(), Time: time.Now()})
	if got := m.previews[7].index; got != 1 {
		t.Fatalf("own tick should advance one frame, got %d", got)
	}
}
