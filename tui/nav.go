package tui

// Section is one entry of the authenticated sidebar.
type Section int

const (
	SectionMedia Section = iota
	SectionConnections
	SectionHashtags
	SectionUpload
)

var sectionLabels = []string{"Media", "Connections", "Hashtags", "Upload"}

func (s Section) String() string {
	if s < 0 || int(s) >= len(sectionLabels) {
		return "Unknown"
	}
	return sectionLabels[s]
}

// Nav is the navigation state: the active section and whether the sidebar is
// shown. It starts on Media with the sidebar open and is never persisted.
type Nav struct {
	section       Section
	sidebarHidden bool
}

func (n Nav) Section() Section  { return n.section }
func (n Nav) SidebarOpen() bool { return !n.sidebarHidden }

// Go switches to s. Unknown sections are ignored.
func (n *Nav) Go(s Section) {
	if s < SectionMedia || s > SectionUpload {
		return
	}
	n.section = s
}

func (n *Nav) ToggleSidebar() { n.sidebarHidden = !n.sidebarHidden }

// Reset returns to the initial state, used on logout.
func (n *Nav) Reset() { *n = Nav{} }
