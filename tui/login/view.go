package login

import (
	"strings"

	"github.com/CrestNiraj12/iav/domain"
	"github.com/CrestNiraj12/iav/tui/common"
)

var fieldLabels = []string{"Full name", "Email", "Password"}

// View renders the active form.
func (m Model) View() string {
	var b strings.Builder
	title := "Log in"
	if m.mode == registerMode {
		title = "Create account"
	}
	b.WriteString(common.AppTitleStyle.Render(domain.AppTitle))
	b.WriteString(common.TaglineStyle.Render(title))
	b.WriteString("\n\n")

	for i := m.firstField(); i < len(m.inputs); i++ {
		b.WriteString("  " + common.LabelStyle.Render(fieldLabels[i]) + "\n")
		b.WriteString("  " + m.inputs[i].View() + "\n\n")
	}

	switch {
	case m.err != nil:
		b.WriteString("  " + common.ErrorStyle.Render(ErrorText(m.err)) + "\n")
	case m.busy:
		b.WriteString("  " + m.spinner.View() + " " + m.status + "\n")
	case m.status != "":
		b.WriteString("  " + common.SuccessStyle.Render(m.status) + "\n")
	}

	hint := "  enter: next/submit • tab: next field • ctrl+r: create account • ctrl+c: quit"
	if m.mode == registerMode {
		hint = "  enter: next/submit • tab: next field • ctrl+r: back to login • ctrl+c: quit"
	}
	b.WriteString(common.StatusBarStyle.Render(hint))
	return b.String()
}
