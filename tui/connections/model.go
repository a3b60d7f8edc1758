package connections

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

// Filter is one chip: a display label and the wire connection type it selects.
type Filter struct {
	Label string
	Type  string
}

// Filters lists every chip in display order.
var Filters = []Filter{
	{"Followers", "follower"},
	{"Following", "following"},
	{"Contacts", "contact"},
	{"Blocked", "blocked"},
	{"Close Friends", "close_friend"},
	{"Requests Received", "request_received"},
	{"Requests Sent", "request_sent"},
	{"Recent Requests Sent", "request_sent_permanent"},
	{"Unfollowed", "unfollowed"},
	{"Removed Suggestions", "suggestion_removed"},
	{"Restricted", "restricted"},
	{"Story Hidden From", "story_hidden_from"},
}

// Match returns the connections whose type equals f's, ignoring case.
func Match(items []domain.Connection, f Filter) []domain.Connection {
	out := make([]domain.Connection, 0, len(items))
	for _, c := range items {
		if strings.EqualFold(c.Type, f.Type) {
			out = append(out, c)
		}
	}
	return out
}

type loadedMsg struct {
	seq   int
	items []domain.Connection
	err   error
}

// Model is the connections table with its filter chips.
type Model struct {
	svc     app.ConnectionService
	token   string
	log     *zap.Logger
	items   []domain.Connection
	filter  int
	offset  int
	loaded  bool
	loading bool
	err     error
	reqSeq  int
	keys    common.KeyMap
	spinner spinner.Model
	height  int
}

func New(svc app.ConnectionService, token string, log *zap.Logger) Model {
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
		items, err := svc.ListConnections(context.Background(), token)
		return loadedMsg{seq: seq, items: items, err: err}
	})
}

// Active returns the selected chip.
func (m Model) Active() Filter { return Filters[m.filter] }

// Visible returns the rows for the selected chip.
func (m Model) Visible() []domain.Connection { return Match(m.items, m.Active()) }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		return m, nil

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
			m.log.Warn("loading connections", zap.Error(msg.err))
		} else {
			m.items = msg.items
		}
		m.offset = 0
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Prev):
			m.filter = (m.filter - 1 + len(Filters)) % len(Filters)
			m.offset = 0
		case key.Matches(msg, m.keys.Next):
			m.filter = (m.filter + 1) % len(Filters)
			m.offset = 0
		case key.Matches(msg, m.keys.Down):
			if m.offset < len(m.Visible())-1 {
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

// secondColumn is the date, or the contact info for Contacts.
func secondColumn(f Filter, c domain.Connection) string {
	if f.Type == "contact" {
		if c.ContactInfo == "" {
			return "N/A"
		}
		return c.ContactInfo
	}
	return gallery.FormatDate(c.Timestamp)
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.chipsView())
	b.WriteString("\n\n")

	switch {
	case m.loading && !m.loaded:
		b.WriteString(fmt.Sprintf("  %s Loading connections...\n", m.spinner.View()))
		return b.String()
	case m.err != nil:
		b.WriteString("  " + common.ErrorStyle.Render("Error: "+m.err.Error()) + "\n")
		return b.String()
	}

	f := m.Active()
	rows := m.Visible()
	if len(rows) == 0 {
		b.WriteString("  " + common.TimestampStyle.Render(fmt.Sprintf("No %s found.", strings.ToLower(f.Label))) + "\n")
		return b.String()
	}

	second := "Date"
	if f.Type == "contact" {
		second = "Contact Info"
	}
	b.WriteString("  " + common.LabelStyle.Render(common.PadRight("Username", 32)+second) + "\n")

	limit := len(rows)
	if m.height > 0 {
		limit = max(1, m.height-12)
	}
	end := min(m.offset+limit, len(rows))
	for _, c := range rows[m.offset:end] {
		name := common.PadRight(common.Truncate(c.Username, 30), 32)
		b.WriteString("  " + common.UsernameStyle.Render(name) + common.TimestampStyle.Render(secondColumn(f, c)) + "\n")
	}
	b.WriteString(common.TimestampStyle.Render(fmt.Sprintf("  %d–%d of %d", m.offset+1, end, len(rows))))
	return b.String()
}

func (m Model) chipsView() string {
	chips := make([]string, 0, len(Filters))
	for i, f := range Filters {
		if i == m.filter {
			chips = append(chips, common.ActiveChipStyle.Render("["+f.Label+"]"))
		} else {
			chips = append(chips, common.InactiveChipStyle.Render(f.Label))
		}
	}
	return lipgloss.NewStyle().Width(100).Render(strings.Join(chips, ""))
}
