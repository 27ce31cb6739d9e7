package compose

import (
	"strings"

	"github.com/CrestNiraj12/hacksnooze/tui/common"
)

var labels = [fieldCount]string{
	fieldTitle:  "Title",
	fieldAuthor: "Author",
	fieldURL:    "URL",
}

// View renders the compose view based on the active mode.
func (m Model) View() string {
	switch m.mode {
	case editorMode:
		return m.status + "\n"

	case inlineMode:
		var b strings.Builder
		heading := "Submit a story"
		if m.isEdit {
			heading = "Edit story"
		}
		b.WriteString(common.AppTitleStyle.Render("Hack or Snooze"))
		b.WriteString("  " + heading + "\n\n")
		for i := range m.inputs {
			b.WriteString("  " + common.LabelStyle.Render(labels[i]) + m.inputs[i].View() + "\n")
		}
		b.WriteString("\n")

		if m.status != "" {
			b.WriteString(common.ErrorStyle.Render("  " + m.status))
		} else {
			b.WriteString(common.StatusBarStyle.Render("  enter: next/submit • ctrl+s: submit • esc: cancel"))
		}
		return b.String()
	}

	return ""
}
