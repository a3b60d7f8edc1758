package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/CrestNiraj12/iav/app"
	"github.com/CrestNiraj12/iav/blob"
	"github.com/CrestNiraj12/iav/domain"
	"github.com/CrestNiraj12/iav/gallery"
	"github.com/CrestNiraj12/iav/infra/auth"
	"github.com/CrestNiraj12/iav/infra/opener"
	"github.com/CrestNiraj12/iav/tui/common"
	"github.com/CrestNiraj12/iav/tui/connections"
	"github.com/CrestNiraj12/iav/tui/hashtags"
	"github.com/CrestNiraj12/iav/tui/login"
	"github.com/CrestNiraj12/iav/tui/media"
	"github.com/CrestNiraj12/iav/tui/upload"
)

// Deps holds all dependencies the TUI needs. Plain struct, not a DI container.
type Deps struct {
	Session     *auth.Session
	Auth        app.AuthService
	Media       app.MediaService
	Connections app.ConnectionService
	Hashtags    app.HashtagService
	Upload      app.UploadService
	Store       *gallery.Store
	Pool        *blob.Pool
	Opener      *opener.EnvOpener
	Log         *zap.Logger
	PageSize    int
}

type activeView int

const (
	hydratingView activeView = iota
	loginView
	mainView
)

type hydratedMsg struct {
	err error
}

// App is the root Bubble Tea model. It gates everything on session hydration,
// then routes between the login form and the authenticated sections.
type App struct {
	deps    Deps
	active  activeView
	nav     Nav
	keys    common.KeyMap
	spinner spinner.Model
	status  string // Transient status message (e.g. "Archive uploaded.")
	width   int
	height  int

	login       login.Model
	media       media.Model
	connections connections.Model
	hashtags    hashtags.Model
	upload      upload.Model
}

// NewApp creates the root model with all dependencies wired.
func NewApp(deps Deps) App {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6600"))
	return App{
		deps:    deps,
		active:  hydratingView,
		keys:    common.DefaultKeyMap(),
		spinner: s,
	}
}

// Init hydrates the session off the UI goroutine.
func (a App) Init() tea.Cmd {
	session := a.deps.Session
	return tea.Batch(a.spinner.Tick, func() tea.Msg {
		return hydratedMsg{err: session.Hydrate()}
	})
}

// Section returns the active authenticated section.
func (a App) Section() Section { return a.nav.Section() }

// Update handles messages and routes to the active sub-model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		inner := tea.WindowSizeMsg{Width: msg.Width - a.sidebarWidth(), Height: msg.Height}
		a.media, _ = a.media.Update(inner)
		a.connections, _ = a.connections.Update(inner)
		a.hashtags, _ = a.hashtags.Update(inner)
		return a, nil

	case spinner.TickMsg:
		var cmds []tea.Cmd
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		cmds = append(cmds, cmd)
		switch a.active {
		case loginView:
			a.login, cmd = a.login.Update(msg)
			cmds = append(cmds, cmd)
		case mainView:
			a.media, cmd = a.media.Update(msg)
			cmds = append(cmds, cmd)
			a.connections, cmd = a.connections.Update(msg)
			cmds = append(cmds, cmd)
			a.hashtags, cmd = a.hashtags.Update(msg)
			cmds = append(cmds, cmd)
			a.upload, cmd = a.upload.Update(msg)
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)

	case hydratedMsg:
		if msg.err != nil {
			a.status = "Could not restore session: " + msg.err.Error()
		}
		if token, ok := a.deps.Session.Token(); ok {
			return a.enterMain(token)
		}
		return a.enterLogin()

	case login.DoneMsg:
		if err := a.deps.Session.Set(msg.Token); err != nil {
			a.deps.Log.Warn("persisting session", zap.Error(err))
			a.status = "Logged in, but the session could not be saved."
		}
		return a.enterMain(msg.Token)

	case media.PreviewLoadedMsg:
		// Delivered even after logout so late handles are revoked on arrival.
		var cmd tea.Cmd
		a.media, cmd = a.media.Update(msg)
		return a, cmd

	case upload.DoneMsg:
		a.status = msg.Message
		if a.status == "" {
			a.status = "Archive uploaded."
		}
		a.nav.Go(SectionMedia)
		var cmd tea.Cmd
		a.media, cmd = a.media.Refresh()
		return a, cmd

	case tea.KeyMsg:
		if key.Matches(msg, a.keys.ForceQuit) {
			return a, a.quit()
		}
		if a.active == mainView {
			if handled, next, cmd := a.handleMainKey(msg); handled {
				return next, cmd
			}
		}
	}

	return a.delegate(msg)
}

func (a App) handleMainKey(msg tea.KeyMsg) (bool, App, tea.Cmd) {
	if key.Matches(msg, a.keys.Sidebar) {
		a.nav.ToggleSidebar()
		return true, a, nil
	}
	// The upload form owns every other key except esc.
	if a.nav.Section() == SectionUpload {
		if key.Matches(msg, a.keys.Back) {
			next, cmd := a.goTo(SectionMedia)
			return true, next, cmd
		}
		return false, a, nil
	}
	switch {
	case key.Matches(msg, a.keys.Quit):
		return true, a, a.quit()
	case key.Matches(msg, a.keys.Logout):
		next, cmd := a.logout()
		return true, next, cmd
	case key.Matches(msg, a.keys.Media):
		next, cmd := a.goTo(SectionMedia)
		return true, next, cmd
	case key.Matches(msg, a.keys.Conns):
		next, cmd := a.goTo(SectionConnections)
		return true, next, cmd
	case key.Matches(msg, a.keys.Hashtags):
		next, cmd := a.goTo(SectionHashtags)
		return true, next, cmd
	case key.Matches(msg, a.keys.Upload):
		next, cmd := a.goTo(SectionUpload)
		return true, next, cmd
	}
	return false, a, nil
}

func (a App) goTo(s Section) (App, tea.Cmd) {
	a.nav.Go(s)
	a.status = ""
	var cmd tea.Cmd
	switch s {
	case SectionConnections:
		a.connections, cmd = a.connections.Ensure()
	case SectionHashtags:
		a.hashtags, cmd = a.hashtags.Ensure()
	case SectionUpload:
		cmd = a.upload.Init()
	}
	return a, cmd
}

func (a App) delegate(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.active {
	case loginView:
		a.login, cmd = a.login.Update(msg)
		return a, cmd
	case mainView:
	default:
		return a, nil
	}

	// Async results go to their owner regardless of the visible section.
	switch msg.(type) {
	case tea.KeyMsg:
	default:
		a.media, cmd = a.media.Update(msg)
		cmds := []tea.Cmd{cmd}
		a.connections, cmd = a.connections.Update(msg)
		cmds = append(cmds, cmd)
		a.hashtags, cmd = a.hashtags.Update(msg)
		cmds = append(cmds, cmd)
		a.upload, cmd = a.upload.Update(msg)
		cmds = append(cmds, cmd)
		return a, tea.Batch(cmds...)
	}

	switch a.nav.Section() {
	case SectionMedia:
		a.media, cmd = a.media.Update(msg)
	case SectionConnections:
		a.connections, cmd = a.connections.Update(msg)
	case SectionHashtags:
		a.hashtags, cmd = a.hashtags.Update(msg)
	case SectionUpload:
		a.upload, cmd = a.upload.Update(msg)
	}
	return a, cmd
}

func (a App) enterLogin() (tea.Model, tea.Cmd) {
	a.active = loginView
	a.login = login.New(a.deps.Auth, a.deps.Log)
	return a, a.login.Init()
}

func (a App) enterMain(token string) (tea.Model, tea.Cmd) {
	a.active = mainView
	a.nav.Reset()
	a.media = media.New(media.Deps{
		Store:    a.deps.Store,
		Fetcher:  a.deps.Media,
		Pool:     a.deps.Pool,
		Opener:   a.deps.Opener,
		Log:      a.deps.Log,
		PageSize: a.deps.PageSize,
	}, token)
	a.connections = connections.New(a.deps.Connections, token, a.deps.Log)
	a.hashtags = hashtags.New(a.deps.Hashtags, token, a.deps.Log)
	a.upload = upload.New(a.deps.Upload, token, a.deps.Log)
	if a.width > 0 {
		inner := tea.WindowSizeMsg{Width: a.width - a.sidebarWidth(), Height: a.height}
		a.media, _ = a.media.Update(inner)
		a.connections, _ = a.connections.Update(inner)
		a.hashtags, _ = a.hashtags.Update(inner)
	}
	return a, a.media.Init()
}

func (a App) logout() (App, tea.Cmd) {
	a.media.Close()
	if err := a.deps.Session.Logout(); err != nil {
		a.deps.Log.Warn("clearing session", zap.Error(err))
	}
	a.status = "Logged out."
	next, cmd := a.enterLogin()
	return next.(App), cmd
}

func (a App) quit() tea.Cmd {
	if a.active == mainView {
		a.media.Close()
	}
	return tea.Quit
}

func (a App) sidebarWidth() int {
	if a.active != mainView || !a.nav.SidebarOpen() {
		return 0
	}
	return 18
}

// View renders the active sub-model.
func (a App) View() string {
	var s string
	switch a.active {
	case hydratingView:
		s = common.AppTitleStyle.Render(domain.AppTitle) + "\n\n  " + a.spinner.View() + " Loading..."
	case loginView:
		s = a.login.View()
	case mainView:
		s = a.mainView()
	}

	// Append transient status if present.
	if a.status != "" {
		s += "\n" + common.StatusBarStyle.Render(a.status)
	}
	return s
}

func (a App) mainView() string {
	var body string
	switch a.nav.Section() {
	case SectionMedia:
		body = a.media.View()
	case SectionConnections:
		body = a.connections.View()
	case SectionHashtags:
		body = a.hashtags.View()
	case SectionUpload:
		body = a.upload.View()
	}

	header := common.AppTitleStyle.Render(domain.AppTitle) +
		common.TaglineStyle.Render(a.nav.Section().String())
	if a.nav.SidebarOpen() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, a.sidebarView(), body)
	}
	return header + "\n\n" + body + "\n" + common.StatusBarStyle.Render("  "+a.hints())
}

func (a App) sidebarView() string {
	lines := make([]string, 0, len(sectionLabels)+2)
	for i, label := range sectionLabels {
		entry := fmt.Sprintf("%d %s", i+1, label)
		if Section(i) == a.nav.Section() {
			lines = append(lines, common.ActiveChipStyle.Render(entry))
		} else {
			lines = append(lines, common.InactiveChipStyle.Render(entry))
		}
	}
	lines = append(lines, "", common.InactiveChipStyle.Render("L Logout"))
	return common.SidebarStyle.Render(strings.Join(lines, "\n"))
}

func (a App) hints() string {
	switch a.nav.Section() {
	case SectionMedia:
		return "←/→: posts/stories • j/k: move • v: grid/timeline • o: open • r: refresh • tab: sidebar • q: quit"
	case SectionConnections:
		return "←/→: filter • j/k: scroll • r: refresh • tab: sidebar • q: quit"
	case SectionHashtags:
		return "j/k: scroll • r: refresh • tab: sidebar • q: quit"
	}
	return "enter: upload • esc: back • tab: sidebar • ctrl+c: quit"
}
