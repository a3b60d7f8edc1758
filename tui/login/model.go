package login

import (
	"context"
	"errors"
	"fmt"
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

// --- Mode ---

type mode int

const (
	loginMode mode = iota
	registerMode
)

const (
	fieldName = iota
	fieldEmail
	fieldPassword
)

// --- Messages ---

// DoneMsg is sent when a login succeeds.
type DoneMsg struct {
	Token string
}

type loginResultMsg struct {
	seq   int
	token string
	err   error
}

type registerResultMsg struct {
	seq int
	err error
}

// --- Model ---

// Model holds the login and register forms. Only one is shown at a time.
type Model struct {
	auth    app.AuthService
	log     *zap.Logger
	mode    mode
	inputs  []textinput.Model
	focus   int
	busy    bool
	reqSeq  int
	status  string
	err     error
	keys    common.KeyMap
	spinner spinner.Model
}

// New creates the form in login mode. A nil logger discards output.
func New(auth app.AuthService, log *zap.Logger) Model {
	if log == nil {
		log = zap.NewNop()
	}
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6600"))

	name := textinput.New()
	name.Placeholder = "Full name"
	name.CharLimit = 120

	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 254

	password := textinput.New()
	password.Placeholder = "Password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	m := Model{
		auth:    auth,
		log:     log,
		inputs:  []textinput.Model{name, email, password},
		keys:    common.DefaultKeyMap(),
		spinner: s,
	}
	m.focus = m.firstField()
	m.applyFocus()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Registering reports whether the register form is shown.
func (m Model) Registering() bool { return m.mode == registerMode }

// Update handles messages for the forms.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loginResultMsg:
		if msg.seq != m.reqSeq {
			return m, nil
		}
		m.busy = false
		if msg.err != nil {
			m.log.Warn("login failed", zap.Error(msg.err))
			m.err = msg.err
			m.status = ""
			return m, nil
		}
		m.err = nil
		token := msg.token
		return m, func() tea.Msg { return DoneMsg{Token: token} }

	case registerResultMsg:
		if msg.seq != m.reqSeq {
			return m, nil
		}
		m.busy = false
		if msg.err != nil {
			m.log.Warn("registration failed", zap.Error(msg.err))
			m.err = msg.err
			m.status = ""
			return m, nil
		}
		m.err = nil
		m.switchMode(loginMode)
		m.inputs[fieldPassword].SetValue("")
		m.status = "Account created. Log in to continue."
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.SwitchForm):
			if m.mode == loginMode {
				m.switchMode(registerMode)
			} else {
				m.switchMode(loginMode)
			}
			return m, nil
		case key.Matches(msg, m.keys.NextField):
			m.moveFocus(1)
			return m, nil
		case key.Matches(msg, m.keys.PrevField):
			m.moveFocus(-1)
			return m, nil
		case key.Matches(msg, m.keys.Submit):
			if m.focus != fieldPassword {
				m.moveFocus(1)
				return m, nil
			}
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) submit() (Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	name := strings.TrimSpace(m.inputs[fieldName].Value())
	email := strings.TrimSpace(m.inputs[fieldEmail].Value())
	password := m.inputs[fieldPassword].Value()

	if email == "" || password == "" || (m.mode == registerMode && name == "") {
		m.err = fmt.Errorf("all fields are required: %w", domain.ErrEmptyField)
		return m, nil
	}

	m.busy = true
	m.err = nil
	m.reqSeq++
	seq := m.reqSeq
	auth := m.auth
	if m.mode == registerMode {
		m.status = "Creating account..."
		return m, func() tea.Msg {
			err := auth.Register(context.Background(), name, email, password)
			return registerResultMsg{seq: seq, err: err}
		}
	}
	m.status = "Logging in..."
	return m, func() tea.Msg {
		token, err := auth.Login(context.Background(), email, password)
		return loginResultMsg{seq: seq, token: token, err: err}
	}
}

func (m *Model) switchMode(md mode) {
	m.mode = md
	m.err = nil
	m.status = ""
	m.busy = false
	// Results for the other form are ignored from here on.
	m.reqSeq++
	m.focus = m.firstField()
	m.applyFocus()
}

func (m Model) firstField() int {
	if m.mode == registerMode {
		return fieldName
	}
	return fieldEmail
}

func (m *Model) moveFocus(delta int) {
	first := m.firstField()
	n := len(m.inputs) - first
	m.focus = first + ((m.focus-first+delta)%n+n)%n
	m.applyFocus()
}

func (m *Model) applyFocus() {
	for i := range m.inputs {
		if i == m.focus {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

// ErrorText renders err for the status line.
func ErrorText(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return "Invalid email or password."
	case errors.Is(err, domain.ErrEmptyField):
		return "Please fill in every field."
	}
	return err.Error()
}
