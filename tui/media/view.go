package media

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/CrestNiraj12/iav/blob"
	"github.com/CrestNiraj12/iav/domain"
	"github.com/CrestNiraj12/iav/gallery"
	"github.com/CrestNiraj12/iav/tui/common"
)

// tileWidth is the rendered width of one grid tile including its border.
const tileWidth = thumbWidth*2 + 4

// View renders the gallery.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.tabsView())
	b.WriteString("\n\n")

	switch {
	case m.loading && len(m.records) == 0:
		b.WriteString(fmt.Sprintf("  %s Loading media...\n", m.spinner.View()))
	case m.err != nil:
		b.WriteString("  " + common.ErrorStyle.Render("Error: "+m.err.Error()) + "\n")
	case len(m.items) == 0:
		b.WriteString("  " + common.TimestampStyle.Render(fmt.Sprintf("No %s found.", strings.ToLower(m.prefs.Tab().String()))) + "\n")
	case m.prefs.Layout() == gallery.LayoutTimeline:
		b.WriteString(m.timelineView())
	default:
		b.WriteString(m.gridView())
	}

	if m.loading && len(m.records) > 0 {
		b.WriteString(fmt.Sprintf("\n  %s Refreshing...", m.spinner.View()))
	}
	if m.status != "" {
		b.WriteString("\n  " + common.TimestampStyle.Render(m.status))
	}
	return b.String()
}

func (m Model) tabsView() string {
	chips := make([]string, 0, len(gallery.Tabs)+1)
	for _, t := range gallery.Tabs {
		if t == m.prefs.Tab() {
			chips = append(chips, common.ActiveChipStyle.Render("["+t.String()+"]"))
		} else {
			chips = append(chips, common.InactiveChipStyle.Render(t.String()))
		}
	}
	info := m.prefs.Layout().String()
	if len(m.items) > 0 {
		size := m.deps.PageSize
		pages := (len(m.items) + size - 1) / size
		info += fmt.Sprintf(" • page %d/%d • %d items", m.cursor/size+1, pages, len(m.items))
	}
	chips = append(chips, common.TimestampStyle.Render(info))
	return lipgloss.JoinHorizontal(lipgloss.Top, chips...)
}

func (m Model) gridView() string {
	start, end := m.pageBounds()
	cols := 3
	if m.width > 0 {
		cols = max(1, (m.width-24)/tileWidth)
	}
	var rows []string
	var row []string
	for i := start; i < end; i++ {
		row = append(row, m.tile(i))
		if len(row) == cols {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return strings.Join(rows, "\n")
}

func (m Model) timelineView() string {
	start, end := m.pageBounds()
	index := make(map[int]int, end-start)
	for i := start; i < end; i++ {
		index[m.items[i].ID] = i
	}
	var b strings.Builder
	for _, bucket := range gallery.GroupByMonth(m.items[start:end]) {
		b.WriteString(common.MonthStyle.Render(bucket.Label) + "\n")
		for _, r := range bucket.Items {
			i := index[r.ID]
			caption := common.Truncate(common.SingleLine(r.Caption), 60)
			text := common.TimestampStyle.Render(gallery.FormatDate(r.TakenAt)) + "\n" +
				common.ContentStyle.Render(caption)
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.tile(i), "  ", text) + "\n")
		}
	}
	return b.String()
}

func (m Model) tile(i int) string {
	r := m.items[i]
	style := common.UnselectedStyle
	if i == m.cursor {
		style = common.SelectedStyle
	}
	body := m.tileBody(r)
	footer := common.TimestampStyle.Render(common.Truncate(gallery.FormatDate(r.TakenAt), thumbWidth*2))
	return style.Render(body + "\n" + footer)
}

func (m Model) tileBody(r domain.MediaRecord) string {
	blank := lipgloss.NewStyle().Width(thumbWidth * 2).Height(thumbHeight)
	l := m.loaders[r.ID]
	if l == nil {
		return blank.Render("")
	}
	snap := l.Snapshot()
	switch snap.State {
	case blob.StateReady:
		if p := m.previews[r.ID]; p != nil && len(p.frames) > 0 {
			return p.frames[p.index]
		}
		label := "▶ " + snap.Handle.Kind().String()
		if snap.Handle.Kind() == domain.KindImage {
			label = "🖼 " + snap.Handle.MIME()
		}
		return blank.Render(common.LabelStyle.Render(label) + "\n" +
			common.TimestampStyle.Render("o: open"))
	case blob.StateLoading:
		return blank.Render(m.spinner.View() + " loading...")
	}
	// Idle and failed items share the not-ready placeholder; failures are only logged.
	return blank.Render("")
}
