package media

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/CrestNiraj12/iav/blob"
	"github.com/CrestNiraj12/iav/domain"
	"github.com/CrestNiraj12/iav/gallery"
	"github.com/CrestNiraj12/iav/infra/opener"
	"github.com/CrestNiraj12/iav/tui/common"
)

const (
	thumbWidth  = 12
	thumbHeight = 6
)

// --- Messages ---

type listingLoadedMsg struct {
	seq     int
	records []domain.MediaRecord
	err     error
}

// PreviewLoadedMsg carries a loader result back to the UI goroutine. The
// frames were rendered off-loop from the result's handle.
type PreviewLoadedMsg struct {
	id     int
	loader *blob.Loader
	result blob.Result
	frames []string
}

type openFinishedMsg struct {
	err error
}

// Deps are the gallery view's collaborators.
type Deps struct {
	Store    *gallery.Store
	Fetcher  blob.Fetcher
	Pool     *blob.Pool
	Opener   *opener.EnvOpener
	Log      *zap.Logger
	PageSize int
}

type preview struct {
	frames []string
	index  int
}

// Model is the Posts/Stories gallery. Each visible item owns one blob.Loader;
// items that scroll off the page have their loader closed.
type Model struct {
	deps  Deps
	token string

	prefs   gallery.Prefs
	records []domain.MediaRecord
	items   []domain.MediaRecord
	cursor  int
	loading bool
	err     error
	status  string
	reqSeq  int

	loaders  map[int]*blob.Loader
	previews map[int]*preview

	keys    common.KeyMap
	spinner spinner.Model
	width   int
	height  int
}

// New creates a gallery for the given session token.
func New(deps Deps, token string) Model {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.PageSize <= 0 {
		deps.PageSize = 6
	}
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6600"))

	return Model{
		deps:     deps,
		token:    token,
		loading:  true,
		loaders:  make(map[int]*blob.Loader),
		previews: make(map[int]*preview),
		keys:     common.DefaultKeyMap(),
		spinner:  s,
	}
}

// Init starts the listing fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchListing(m.reqSeq, false), m.spinner.Tick)
}

// Refresh re-fetches the listing. Loaders whose inputs are unchanged keep
// their handles.
func (m Model) Refresh() (Model, tea.Cmd) {
	m.reqSeq++
	m.loading = true
	m.err = nil
	return m, m.fetchListing(m.reqSeq, true)
}

// Close releases every loader. The model must not be used afterwards.
func (m Model) Close() {
	for id, l := range m.loaders {
		l.Close()
		delete(m.loaders, id)
		delete(m.previews, id)
	}
}

func (m Model) Prefs() gallery.Prefs        { return m.prefs }
func (m Model) Items() []domain.MediaRecord { return m.items }
func (m Model) Cursor() int                 { return m.cursor }

func (m Model) fetchListing(seq int, force bool) tea.Cmd {
	store := m.deps.Store
	token := m.token
	return func() tea.Msg {
		records, err := store.Load(context.Background(), token, force)
		return listingLoadedMsg{seq: seq, records: records, err: err}
	}
}

// Update handles messages for the gallery.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		// Ticks from other views' spinners are forwarded here too.
		if msg.ID == m.spinner.ID() {
			m.advanceFrames()
		}
		return m, cmd

	case listingLoadedMsg:
		if msg.seq != m.reqSeq {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.deps.Log.Warn("loading media listing", zap.Error(msg.err))
			return m, nil
		}
		m.err = nil
		m.records = msg.records
		m.reselect()
		return m, m.syncLoaders()

	case PreviewLoadedMsg:
		if !msg.loader.Apply(msg.result) {
			return m, nil
		}
		if m.loaders[msg.id] != msg.loader {
			return m, nil
		}
		if _, ready := msg.loader.Ready(); ready && len(msg.frames) > 0 {
			m.previews[msg.id] = &preview{frames: msg.frames}
		}
		return m, nil

	case openFinishedMsg:
		if msg.err != nil {
			m.status = "Viewer exited: " + msg.err.Error()
		} else {
			m.status = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Prev):
		m.prefs.NextTab(-1)
		m.reselect()
		return m, m.syncLoaders()
	case key.Matches(msg, m.keys.Next):
		m.prefs.NextTab(1)
		m.reselect()
		return m, m.syncLoaders()
	case key.Matches(msg, m.keys.Layout):
		m.prefs.ToggleLayout()
		return m, nil
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, m.syncLoaders()
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
		return m, m.syncLoaders()
	case key.Matches(msg, m.keys.Refresh):
		return m.Refresh()
	case key.Matches(msg, m.keys.Open):
		return m.openSelected()
	}
	return m, nil
}

func (m Model) openSelected() (Model, tea.Cmd) {
	if len(m.items) == 0 || m.deps.Opener == nil {
		return m, nil
	}
	l := m.loaders[m.items[m.cursor].ID]
	if l == nil {
		return m, nil
	}
	h, ok := l.Ready()
	if !ok {
		m.status = "Media is not ready yet."
		return m, nil
	}
	cmd, err := m.deps.Opener.Cmd(h.Path())
	if err != nil {
		m.status = "Cannot open media: " + err.Error()
		return m, nil
	}
	m.status = fmt.Sprintf("Opening %s...", h.Kind())
	return m, tea.ExecProcess(cmd, func(err error) tea.Msg {
		return openFinishedMsg{err: err}
	})
}

// reselect recomputes the visible items for the active tab and resets the cursor.
func (m *Model) reselect() {
	m.items = gallery.Select(m.records, m.prefs.Tab())
	m.cursor = 0
}

// pageBounds returns the [start, end) range of items on the cursor's page.
func (m Model) pageBounds() (int, int) {
	size := m.deps.PageSize
	start := (m.cursor / size) * size
	return start, min(start+size, len(m.items))
}

// syncLoaders closes loaders for items that left the page and starts jobs for
// items that entered it.
func (m Model) syncLoaders() tea.Cmd {
	start, end := m.pageBounds()
	visible := make(map[int]domain.MediaRecord, end-start)
	for _, r := range m.items[start:end] {
		visible[r.ID] = r
	}

	for id, l := range m.loaders {
		if _, ok := visible[id]; ok {
			continue
		}
		l.Close()
		delete(m.loaders, id)
		delete(m.previews, id)
	}

	var cmds []tea.Cmd
	for _, r := range m.items[start:end] {
		l, ok := m.loaders[r.ID]
		if !ok {
			l = blob.NewLoader(m.deps.Fetcher, m.deps.Pool, m.deps.Log)
			m.loaders[r.ID] = l
		}
		if job := l.SetInputs(r.URI, m.token); job != nil {
			cmds = append(cmds, loadMedia(r.ID, l, job))
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func loadMedia(id int, l *blob.Loader, job blob.Job) tea.Cmd {
	return func() tea.Msg {
		r := job()
		var frames []string
		if h := r.Handle(); r.Err() == nil && h != nil {
			frames, _ = renderPreview(h, thumbWidth, thumbHeight)
		}
		return PreviewLoadedMsg{id: id, loader: l, result: r, frames: frames}
	}
}

func (m Model) advanceFrames() {
	for _, p := range m.previews {
		if len(p.frames) <= 1 {
			continue
		}
		p.index = (p.index + 1) % len(p.frames)
	}
}
