package common

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines shared key bindings across all views.
type KeyMap struct {
	Quit       key.Binding
	ForceQuit  key.Binding
	Sidebar    key.Binding // tab: show/hide the section sidebar
	Media      key.Binding
	Conns      key.Binding
	Hashtags   key.Binding
	Upload     key.Binding
	Logout     key.Binding
	Up         key.Binding
	Down       key.Binding
	Prev       key.Binding // previous tab or filter chip
	Next       key.Binding
	Layout     key.Binding // v: Grid/Timeline
	Refresh    key.Binding
	Open       key.Binding // o: open media in external viewer
	Back       key.Binding
	Submit     key.Binding
	SwitchForm key.Binding // ctrl+r: login/register
	NextField  key.Binding
	PrevField  key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Sidebar: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "sidebar"),
		),
		Media: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "media"),
		),
		Conns: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "connections"),
		),
		Hashtags: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "hashtags"),
		),
		Upload: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "upload"),
		),
		Logout: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "logout"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Prev: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev"),
		),
		Next: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next"),
		),
		Layout: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "grid/timeline"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		SwitchForm: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "login/register"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "prev field"),
		),
	}
}
