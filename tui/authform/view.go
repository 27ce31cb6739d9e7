package authform

import (
	"strings"

	"github.com/CrestNiraj12/hacksnooze/tui/common"
)

var labels = [fieldCount]string{
	fieldName:     "Name",
	fieldUsername: "Username",
	fieldPassword: "Password",
}

// View renders the form.
func (m Model) View() string {
	var b strings.Builder
	heading := "Log in"
	other := "create account"
	if m.mode == SignupMode {
		heading = "Create account"
		other = "log in instead"
	}
	b.WriteString(common.AppTitleStyle.Render("Hack or Snooze"))
	b.WriteString("  " + heading + "\n\n")

	for _, f := range m.fields() {
		b.WriteString("  " + common.LabelStyle.Render(labels[f]) + m.inputs[f].View() + "\n")
	}

	b.WriteString("\n")
	switch {
	case m.pending:
		b.WriteString(common.StatusBarStyle.Render("  Working..."))
	case m.status != "":
		b.WriteString(common.ErrorStyle.Render("  " + m.status))
	default:
		b.WriteString(common.StatusBarStyle.Render("  enter: submit • tab: next field • ctrl+t: " + other + " • esc: cancel"))
	}
	return b.String()
}
