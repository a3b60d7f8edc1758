package gallery

// Layout is how the gallery arranges items.
type Layout int

const (
	LayoutGrid Layout = iota
	LayoutTimeline
)

func (l Layout) String() string {
	if l == LayoutTimeline {
		return "Timeline"
	}
	return "Grid"
}

// Prefs is the gallery's view state: active tab and layout. It starts on
// Posts in Grid layout and is never persisted.
type Prefs struct {
	tab    Tab
	layout Layout
}

func (p Prefs) Tab() Tab       { return p.tab }
func (p Prefs) Layout() Layout { return p.layout }

// SetTab switches the active tab.
func (p *Prefs) SetTab(t Tab) {
	if t != TabPosts && t != TabStories {
		return
	}
	p.tab = t
}

// NextTab cycles through Tabs by delta, wrapping at either end.
func (p *Prefs) NextTab(delta int) {
	n := len(Tabs)
	p.tab = Tabs[((int(p.tab)+delta)%n+n)%n]
}

// SetLayout switches between Grid and Timeline.
func (p *Prefs) SetLayout(l Layout) {
	if l != LayoutGrid && l != LayoutTimeline {
		return
	}
	p.layout = l
}

// ToggleLayout flips between Grid and Timeline.
func (p *Prefs) ToggleLayout() {
	if p.layout == LayoutGrid {
		p.layout = LayoutTimeline
		return
	}
	p.layout = LayoutGrid
}
