package upload

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/CrestNiraj12/iav/app"
	"github.com/CrestNiraj12/iav/domain"
	"github.com/CrestNiraj12/iav/tui/common"
)

// DoneMsg is sent after the server accepted an archive.
type DoneMsg struct {
	Message string
}

type resultMsg struct {
	seq     int
	message string
	err     error
}

// Model is the archive upload form.
type Model struct {
	svc     app.UploadService
	token   string
	log     *zap.Logger
	input   textinput.Model
	busy    bool
	reqSeq  int
	err     error
	keys    common.KeyMap
	spinner spinner.Model
}

func New(svc app.UploadService, token string, log *zap.Logger) Model {
	if log == nil {
		log = zap.NewNop()
	}
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6600"))

	in := textinput.New()
	in.Placeholder = "~/Downloads/instagram-archive.zip"
	in.CharLimit = 4096
	in.Focus()

	return Model{svc: svc, token: token, log: log, input: in, keys: common.DefaultKeyMap(), spinner: s}
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

// Busy reports whether an upload is in flight.
func (m Model) Busy() bool { return m.busy }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case resultMsg:
		if msg.seq != m.reqSeq {
			return m, nil
		}
		m.busy = false
		if msg.err != nil {
			m.log.Warn("archive upload failed", zap.Error(msg.err))
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.input.SetValue("")
		message := msg.message
		return m, func() tea.Msg { return DoneMsg{Message: message} }

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Submit) {
			return m.submit()
		}
	}

	if m.busy {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	path, err := ArchivePath(m.input.Value())
	if err != nil {
		m.err = err
		return m, nil
	}
	m.busy = true
	m.err = nil
	m.reqSeq++
	seq, svc, token := m.reqSeq, m.svc, m.token
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		message, err := svc.UploadArchive(context.Background(), token, path)
		return resultMsg{seq: seq, message: message, err: err}
	})
}

// ArchivePath validates the typed path: non-empty, a .zip file, ~ expanded.
func ArchivePath(raw string) (string, error) {
	p := strings.TrimSpace(raw)
	if p == "" {
		return "", fmt.Errorf("archive path: %w", domain.ErrEmptyField)
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	if !strings.EqualFold(filepath.Ext(p), ".zip") {
		return "", fmt.Errorf("%s is not a .zip archive", filepath.Base(p))
	}
	info, err := os.Stat(p)
	if err != nil {
		return "", fmt.Errorf("archive: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", p)
	}
	return p, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(common.LabelStyle.Render("Upload archive"))
	b.WriteString("\n\n  Path to your exported archive (.zip)\n\n")
	b.WriteString("  " + m.input.View() + "\n\n")

	switch {
	case m.busy:
		b.WriteString("  " + m.spinner.View() + " Uploading...\n")
	case m.err != nil:
		b.WriteString("  " + common.ErrorStyle.Render("Error: "+m.err.Error()) + "\n")
	}
	b.WriteString(common.StatusBarStyle.Render("  enter: upload • esc: back to media"))
	return b.String()
}
