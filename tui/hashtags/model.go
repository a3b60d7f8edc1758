package hashtags

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/CrestNiraj12/iav/app"
	"github.com/CrestNiraj12/iav/domain"
	"github.com/CrestNiraj12/iav/gallery"
	"github.com/CrestNiraj12/iav/tui/common"
)

type loadedMsg struct {
	seq   int
	items []domain.Hashtag
	err   error
}

// Model lists followed hashtags.
type Model struct {
	svc     app.HashtagService
	token   string
	log     *zap.Logger
	items   []domain.Hashtag
	offset  int
	loaded  bool
	loading bool
	err     error
	reqSeq  int
	keys    common.KeyMap
	spinner spinner.Model
	height  int
}

func New(svc app.HashtagService, token string, log *zap.Logger) Model {
	if log == nil {
		log = zap.NewNop()
	}
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6600"))
	return Model{svc: svc, token: token, log: log, keys: common.DefaultKeyMap(), spinner: s}
}

// Ensure starts the first fetch. Later calls return nil.
func (m Model) Ensure() (Model, tea.Cmd) {
	if m.loaded || m.loading {
		return m, nil
	}
	return m.fetch()
}

func (m Model) fetch() (Model, tea.Cmd) {
	m.loading = true
	m.err = nil
	m.reqSeq++
	seq, svc, token := m.reqSeq, m.svc, m.token
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		items, err := svc.ListHashtags(context.Background(), token)
		return loadedMsg{seq: seq, items: items, err: err}
	})
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case loadedMsg:
		if msg.seq != m.reqSeq {
			return m, nil
		}
		m.loading = false
		m.loaded = true
		m.err = msg.err
		if msg.err != nil {
			m.log.Warn("loading hashtags", zap.Error(msg.err))
		} else {
			m.items = msg.items
		}
		m.offset = 0
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Down):
			if m.offset < len(m.items)-1 {
				m.offset++
			}
		case key.Matches(msg, m.keys.Up):
			if m.offset > 0 {
				m.offset--
			}
		case key.Matches(msg, m.keys.Refresh):
			return m.fetch()
		}
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(common.LabelStyle.Render("Followed hashtags"))
	b.WriteString("\n\n")

	switch {
	case m.loading && !m.loaded:
		b.WriteString(fmt.Sprintf("  %s Loading hashtags...\n", m.spinner.View()))
	case m.err != nil:
		b.WriteString("  " + common.ErrorStyle.Render("Error: "+m.err.Error()) + "\n")
	case len(m.items) == 0:
		b.WriteString("  " + common.TimestampStyle.Render("No hashtags found.") + "\n")
	default:
		limit := len(m.items)
		if m.height > 0 {
			limit = max(1, m.height-10)
		}
		end := min(m.offset+limit, len(m.items))
		for _, h := range m.items[m.offset:end] {
			name := common.PadRight("#"+common.Truncate(h.Name, 38), 40)
			b.WriteString("  " + common.UsernameStyle.Render(name) + common.TimestampStyle.Render(gallery.FormatDate(h.Timestamp)) + "\n")
		}
	}
	return b.String()
}
